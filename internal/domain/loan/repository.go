package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	Save(ctx context.Context, l *LoanRequest) error
	Delete(ctx context.Context, id uint64) error

	// GetByID returns ErrNotFound when the row does not exist (or was purged).
	GetByID(ctx context.Context, id uint64) (*LoanRequest, error)
	// GetByIDForUpdate is GetByID holding a row lock until the tx ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*LoanRequest, error)

	// ListByFarmer returns the farmer's loans in the given statuses, oldest first.
	ListByFarmer(ctx context.Context, farmerID uint64, statuses ...Status) ([]LoanRequest, error)
	// ListByStatusWithFarm preloads Farm and Farm.Farmer, newest first.
	ListByStatusWithFarm(ctx context.Context, status Status) ([]LoanRequest, error)

	CountByStatus(ctx context.Context, status Status) (int64, error)
	SumAmountByStatus(ctx context.Context, status Status) (float64, error)
}
