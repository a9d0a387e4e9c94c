package farmer

import "context"

type Repository interface {
	Create(ctx context.Context, f *Farmer) error
	CreateFarm(ctx context.Context, f *Farm) error

	// GetByID returns ErrNotFound when no farmer has the id.
	GetByID(ctx context.Context, id uint64) (*Farmer, error)
	// GetFarm returns ErrFarmNotFound when no farm has the id.
	GetFarm(ctx context.Context, farmID uint64) (*Farm, error)
	// GetPrimaryFarm is the farmer's oldest farm, ErrFarmNotFound if none.
	GetPrimaryFarm(ctx context.Context, farmerID uint64) (*Farm, error)

	Count(ctx context.Context) (int64, error)
}
