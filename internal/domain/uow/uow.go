package uow

import (
	"context"

	"agrocredit-backend/internal/domain/advisory"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"
)

// Repos are bound to the same transaction.
type Repos struct {
	Farmers  farmer.Repository
	Loans    loan.Repository
	Payments payment.Repository
	Advisory advisory.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; loan.ErrNotFound if missing
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.LoanRequest) error) error
}
