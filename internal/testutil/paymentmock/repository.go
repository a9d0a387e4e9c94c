package paymentmock

import (
	"context"
	"errors"

	domain "agrocredit-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("paymentmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, p *domain.Payment) error
	SumByLoanIDFn    func(ctx context.Context, loanID uint64) (float64, error)
	SumByLoanIDsFn   func(ctx context.Context, loanIDs []uint64) (map[uint64]float64, error)
	DeleteByLoanIDFn func(ctx context.Context, loanID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) SumByLoanID(ctx context.Context, loanID uint64) (float64, error) {
	if m.SumByLoanIDFn != nil {
		return m.SumByLoanIDFn(ctx, loanID)
	}
	return 0, errUnimplemented
}

func (m *Repo) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]float64, error) {
	if m.SumByLoanIDsFn != nil {
		return m.SumByLoanIDsFn(ctx, loanIDs)
	}
	return nil, errUnimplemented
}

func (m *Repo) DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.DeleteByLoanIDFn != nil {
		return m.DeleteByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}
