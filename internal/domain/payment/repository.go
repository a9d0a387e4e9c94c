package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// SumByLoanID is the cumulative amount paid, 0 when there are no payments.
	SumByLoanID(ctx context.Context, loanID uint64) (float64, error)
	// SumByLoanIDs maps loan id to cumulative paid. Loans without payments are absent.
	SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]float64, error)

	DeleteByLoanID(ctx context.Context, loanID uint64) (int64, error)
}
