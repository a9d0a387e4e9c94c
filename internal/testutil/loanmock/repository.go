package loanmock

import (
	"context"
	"errors"

	domain "agrocredit-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("loanmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to no-op success; reads default to errUnimplemented.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.LoanRequest) error
	SaveFn                 func(ctx context.Context, l *domain.LoanRequest) error
	DeleteFn               func(ctx context.Context, id uint64) error
	GetByIDFn              func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	GetByIDForUpdateFn     func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	ListByFarmerFn         func(ctx context.Context, farmerID uint64, statuses ...domain.Status) ([]domain.LoanRequest, error)
	ListByStatusWithFarmFn func(ctx context.Context, status domain.Status) ([]domain.LoanRequest, error)
	CountByStatusFn        func(ctx context.Context, status domain.Status) (int64, error)
	SumAmountByStatusFn    func(ctx context.Context, status domain.Status) (float64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByFarmer(ctx context.Context, farmerID uint64, statuses ...domain.Status) ([]domain.LoanRequest, error) {
	if m.ListByFarmerFn != nil {
		return m.ListByFarmerFn(ctx, farmerID, statuses...)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByStatusWithFarm(ctx context.Context, status domain.Status) ([]domain.LoanRequest, error) {
	if m.ListByStatusWithFarmFn != nil {
		return m.ListByStatusWithFarmFn(ctx, status)
	}
	return nil, errUnimplemented
}

func (m *Repo) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, status)
	}
	return 0, errUnimplemented
}

func (m *Repo) SumAmountByStatus(ctx context.Context, status domain.Status) (float64, error) {
	if m.SumAmountByStatusFn != nil {
		return m.SumAmountByStatusFn(ctx, status)
	}
	return 0, errUnimplemented
}
