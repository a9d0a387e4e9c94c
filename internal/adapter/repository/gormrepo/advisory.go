package gormrepo

import (
	"context"
	"errors"
	"fmt"

	advisoryDomain "agrocredit-backend/internal/domain/advisory"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdvisoryRepository struct{ db *gorm.DB }

func NewAdvisoryRepository(db *gorm.DB) *AdvisoryRepository { return &AdvisoryRepository{db: db} }

func (r *AdvisoryRepository) CreateReading(ctx context.Context, u *advisoryDomain.UtilityReading) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
}

func (r *AdvisoryRepository) CreateRecommendation(ctx context.Context, rec *advisoryDomain.Recommendation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error
}

func (r *AdvisoryRepository) ListReadingsByFarmer(ctx context.Context, farmerID uint64) ([]advisoryDomain.UtilityReading, error) {
	var out []advisoryDomain.UtilityReading
	err := r.db.WithContext(ctx).
		Joins("JOIN farms ON farms.id = utility_readings.farm_id").
		Where("farms.farmer_id = ?", farmerID).
		Order("utility_readings.reading_date ASC, utility_readings.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list readings of farmer %d: %w", farmerID, err)
	}
	return out, nil
}

func (r *AdvisoryRepository) LatestRecommendation(ctx context.Context, farmerID uint64) (*advisoryDomain.Recommendation, error) {
	var out advisoryDomain.Recommendation
	res := r.db.WithContext(ctx).
		Joins("JOIN farms ON farms.id = recommendations.farm_id").
		Where("farms.farmer_id = ?", farmerID).
		Order("recommendations.created_at DESC, recommendations.id DESC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if res.Error != nil {
		return nil, fmt.Errorf("latest recommendation of farmer %d: %w", farmerID, res.Error)
	}
	return &out, nil
}
