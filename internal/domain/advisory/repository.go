package advisory

import "context"

// Repository is read-mostly reference data; writes only happen when seeding.
type Repository interface {
	CreateReading(ctx context.Context, r *UtilityReading) error
	CreateRecommendation(ctx context.Context, r *Recommendation) error

	// ListReadingsByFarmer returns readings of all the farmer's farms, oldest first.
	ListReadingsByFarmer(ctx context.Context, farmerID uint64) ([]UtilityReading, error)
	// LatestRecommendation returns nil, nil when the farmer has none.
	LatestRecommendation(ctx context.Context, farmerID uint64) (*Recommendation, error)
}
