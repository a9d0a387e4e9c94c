package loan

import "time"

type SubmitInput struct {
	FarmerID uint64
	// FarmID 0 means the farmer's primary farm.
	FarmID     uint64
	Amount     float64
	TermMonths int
	Purpose    string
}

type SignDTO struct {
	LoanID      uint64    `json:"loan_id"`
	Status      string    `json:"status"`
	ActivatedAt time.Time `json:"activated_at"`
}

type PaymentDTO struct {
	LoanID    uint64  `json:"loan_id"`
	Amount    float64 `json:"amount"`
	TotalPaid float64 `json:"total_paid"`
	Remaining float64 `json:"remaining"`
	// Settled means the loan and its payments were purged.
	Settled bool `json:"settled"`
}
