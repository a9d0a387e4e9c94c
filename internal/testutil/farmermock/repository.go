package farmermock

import (
	"context"
	"errors"

	domain "agrocredit-backend/internal/domain/farmer"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("farmermock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, f *domain.Farmer) error
	CreateFarmFn     func(ctx context.Context, f *domain.Farm) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.Farmer, error)
	GetFarmFn        func(ctx context.Context, farmID uint64) (*domain.Farm, error)
	GetPrimaryFarmFn func(ctx context.Context, farmerID uint64) (*domain.Farm, error)
	CountFn          func(ctx context.Context) (int64, error)
}

func (m *Repo) Create(ctx context.Context, f *domain.Farmer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) CreateFarm(ctx context.Context, f *domain.Farm) error {
	if m.CreateFarmFn != nil {
		return m.CreateFarmFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Farmer, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetFarm(ctx context.Context, farmID uint64) (*domain.Farm, error) {
	if m.GetFarmFn != nil {
		return m.GetFarmFn(ctx, farmID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetPrimaryFarm(ctx context.Context, farmerID uint64) (*domain.Farm, error) {
	if m.GetPrimaryFarmFn != nil {
		return m.GetPrimaryFarmFn(ctx, farmerID)
	}
	return nil, errUnimplemented
}

func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, errUnimplemented
}
