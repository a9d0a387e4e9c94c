package projection

import (
	"time"

	"agrocredit-backend/internal/domain/amortization"
	"agrocredit-backend/internal/domain/loan"
)

// DateLayout is the DD.MM.YYYY format used by every view.
const DateLayout = "02.01.2006"

// NoDueDate marks a loan without a scheduled installment.
const NoDueDate = "-"

type LoanView struct {
	ID          uint64    `json:"id"`
	Reference   string    `json:"reference"`
	Amount      float64   `json:"amount"`
	Remaining   float64   `json:"remaining"`
	Rate        float64   `json:"rate"`
	TermMonths  int       `json:"term_months"`
	Purpose     string    `json:"purpose"`
	Status      string    `json:"status"`
	Paid        float64   `json:"paid"`
	Progress    int       `json:"progress"`
	NextPayment float64   `json:"next_payment"`
	DueDate     string    `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLoanView derives the repayment columns for l given the cumulative paid.
func NewLoanView(l *loan.LoanRequest, paid float64) (*LoanView, error) {
	s, err := l.Schedule(paid)
	if err != nil {
		return nil, err
	}
	due := NoDueDate
	if l.ActivatedAt != nil {
		if d, ok := s.NextDueDate(*l.ActivatedAt); ok {
			due = d.UTC().Format(DateLayout)
		}
	}
	return &LoanView{
		ID:          l.ID,
		Reference:   l.Reference,
		Amount:      l.Amount,
		Remaining:   s.Remaining,
		Rate:        amortization.AnnualRate * 100,
		TermMonths:  l.TermMonths,
		Purpose:     l.Purpose,
		Status:      string(l.Status),
		Paid:        s.Paid,
		Progress:    s.ProgressPercent,
		NextPayment: s.MonthlyInstallment,
		DueDate:     due,
		CreatedAt:   l.CreatedAt,
	}, nil
}

type DashboardStats struct {
	TotalPortfolio      float64 `json:"total_portfolio"`
	ActiveLoans         int64   `json:"active_loans"`
	PendingApplications int64   `json:"pending_applications"`
	RiskLevel           string  `json:"risk_level"`
}

type FarmerSummary struct {
	TotalDebt     float64 `json:"total_debt"`
	ActiveCredits int     `json:"active_credits"`
	CreditScore   int     `json:"credit_score"`
	TotalPaid     float64 `json:"total_paid"`
}

type NotificationType string

const (
	NotificationAlert NotificationType = "alert"
	NotificationInfo  NotificationType = "info"
)

type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Link    string           `json:"link"`
}

type Profile struct {
	ID          uint64  `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	CreditScore int     `json:"credit_score"`
	FarmName    string  `json:"farm_name"`
	FarmSize    float64 `json:"farm_size"`
	JoinedDate  string  `json:"joined_date"`
}

type UtilityView struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Diff  float64 `json:"diff"`
}

type RecommendationView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}
