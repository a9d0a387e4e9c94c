package approval

import "time"

type ReviewDTO struct {
	LoanID uint64 `json:"loan_id"`
	Status string `json:"status"`
}

// ApplicationDTO is a pending request joined with its farm and farmer.
type ApplicationDTO struct {
	ID          uint64    `json:"id"`
	Reference   string    `json:"reference"`
	FarmerName  string    `json:"farmer_name"`
	FarmName    string    `json:"farm_name"`
	Amount      float64   `json:"amount"`
	TermMonths  int       `json:"term_months"`
	Purpose     string    `json:"purpose"`
	CreditScore int       `json:"credit_score"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
