package gormrepo

import (
	"context"
	"errors"
	"fmt"

	loanDomain "agrocredit-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.LoanRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

func (r *LoanRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&loanDomain.LoanRequest{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete loan %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.LoanRequest, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate locks the row (SELECT ... FOR UPDATE). sqlite has no row
// locks; there the immediate tx lock taken at BEGIN serializes writers.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.LoanRequest, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(q, id)
}

func (r *LoanRepository) first(q *gorm.DB, id uint64) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := q.Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, fmt.Errorf("get loan %d: %w", id, res.Error)
	}
	return &out, nil
}

func (r *LoanRepository) ListByFarmer(ctx context.Context, farmerID uint64, statuses ...loanDomain.Status) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	q := r.db.WithContext(ctx).
		Joins("JOIN farms ON farms.id = loan_requests.farm_id").
		Where("farms.farmer_id = ?", farmerID)
	if len(statuses) > 0 {
		q = q.Where("loan_requests.status IN ?", statuses)
	}
	if err := q.Order("loan_requests.id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list loans of farmer %d: %w", farmerID, err)
	}
	return out, nil
}

func (r *LoanRepository) ListByStatusWithFarm(ctx context.Context, status loanDomain.Status) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	err := r.db.WithContext(ctx).
		Preload("Farm.Farmer").
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list %s loans: %w", status, err)
	}
	return out, nil
}

func (r *LoanRepository) CountByStatus(ctx context.Context, status loanDomain.Status) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&loanDomain.LoanRequest{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s loans: %w", status, err)
	}
	return n, nil
}

func (r *LoanRepository) SumAmountByStatus(ctx context.Context, status loanDomain.Status) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.LoanRequest{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", status).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum %s loans: %w", status, err)
	}
	return total, nil
}
