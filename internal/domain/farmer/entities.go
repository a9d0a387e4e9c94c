package farmer

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("farmer not found")
	ErrFarmNotFound = errors.New("farm not found")
)

// Table: farmers
type Farmer struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email       string    `gorm:"column:email;size:255;not null;uniqueIndex:ux_farmers_email" json:"email"`
	FullName    string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	CreditScore int       `gorm:"column:credit_score;not null;default:0" json:"credit_score"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Farmer) TableName() string { return "farmers" }

// Table: farms. A farm belongs to exactly one farmer.
type Farm struct {
	ID        uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmerID  uint64  `gorm:"column:farmer_id;not null;index:idx_farms_farmer" json:"farmer_id"`
	Name      string  `gorm:"column:name;size:255" json:"name"`
	SizeAcres float64 `gorm:"column:size_acres;type:decimal(10,2)" json:"size_acres"`

	Farmer *Farmer `gorm:"foreignKey:FarmerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Farm) TableName() string { return "farms" }
