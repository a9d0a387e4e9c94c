package advisory

import (
	"time"

	"agrocredit-backend/internal/domain/farmer"
)

type UtilityType string

const (
	UtilityElectricity UtilityType = "electricity"
	UtilityWater       UtilityType = "water"
	UtilityGas         UtilityType = "gas"
)

// Table: utility_readings
type UtilityReading struct {
	ID           uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID       uint64      `gorm:"column:farm_id;not null;index:idx_utility_readings_farm" json:"farm_id"`
	UtilityType  UtilityType `gorm:"column:utility_type;size:32;not null" json:"utility_type"`
	ReadingValue float64     `gorm:"column:reading_value;not null" json:"reading_value"`
	Unit         string      `gorm:"column:unit;size:16;not null" json:"unit"`
	ReadingDate  time.Time   `gorm:"column:reading_date;autoCreateTime" json:"reading_date"`

	Farm *farmer.Farm `gorm:"foreignKey:FarmID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (UtilityReading) TableName() string { return "utility_readings" }

// Table: recommendations
type Recommendation struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64    `gorm:"column:farm_id;not null;index:idx_recommendations_farm" json:"farm_id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Type      string    `gorm:"column:type;size:32" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Farm *farmer.Farm `gorm:"foreignKey:FarmID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Recommendation) TableName() string { return "recommendations" }
