package gormrepo

import (
	"context"
	"fmt"

	paymentDomain "agrocredit-backend/internal/domain/payment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PaymentRepository) SumByLoanID(ctx context.Context, loanID uint64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_id = ?", loanID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum payments of loan %d: %w", loanID, err)
	}
	return total, nil
}

type loanSum struct {
	LoanID uint64
	Total  float64
}

func (r *PaymentRepository) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]float64, error) {
	out := make(map[uint64]float64, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	var rows []loanSum
	err := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("loan_id, SUM(amount) AS total").
		Where("loan_id IN ?", loanIDs).
		Group("loan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	for _, row := range rows {
		out[row.LoanID] = row.Total
	}
	return out, nil
}

func (r *PaymentRepository) DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&paymentDomain.Payment{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete payments of loan %d: %w", loanID, res.Error)
	}
	return res.RowsAffected, nil
}
