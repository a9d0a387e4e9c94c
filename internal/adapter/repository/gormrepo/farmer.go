package gormrepo

import (
	"context"
	"errors"
	"fmt"

	farmerDomain "agrocredit-backend/internal/domain/farmer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FarmerRepository struct{ db *gorm.DB }

func NewFarmerRepository(db *gorm.DB) *FarmerRepository { return &FarmerRepository{db: db} }

func (r *FarmerRepository) Create(ctx context.Context, f *farmerDomain.Farmer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FarmerRepository) CreateFarm(ctx context.Context, f *farmerDomain.Farm) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error
}

func (r *FarmerRepository) GetByID(ctx context.Context, id uint64) (*farmerDomain.Farmer, error) {
	var out farmerDomain.Farmer
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, farmerDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, fmt.Errorf("get farmer %d: %w", id, res.Error)
	}
	return &out, nil
}

func (r *FarmerRepository) GetFarm(ctx context.Context, farmID uint64) (*farmerDomain.Farm, error) {
	return r.firstFarm(r.db.WithContext(ctx).Where("id = ?", farmID))
}

func (r *FarmerRepository) GetPrimaryFarm(ctx context.Context, farmerID uint64) (*farmerDomain.Farm, error) {
	return r.firstFarm(r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id ASC"))
}

func (r *FarmerRepository) firstFarm(q *gorm.DB) (*farmerDomain.Farm, error) {
	var out farmerDomain.Farm
	res := q.First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, farmerDomain.ErrFarmNotFound
	}
	if res.Error != nil {
		return nil, fmt.Errorf("get farm: %w", res.Error)
	}
	return &out, nil
}

func (r *FarmerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&farmerDomain.Farmer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count farmers: %w", err)
	}
	return n, nil
}
