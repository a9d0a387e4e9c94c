package loan

import (
	"time"

	"agrocredit-backend/internal/domain/amortization"
	"agrocredit-backend/internal/domain/farmer"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusWaitingSignature Status = "waiting_signature"
	StatusRejected         Status = "rejected"
	StatusActive           Status = "active"
)

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWaitingSignature, StatusRejected, StatusActive:
		return true
	}
	return false
}

// Open statuses are the ones a farmer still sees in their loan list.
var OpenStatuses = []Status{StatusActive, StatusPending, StatusWaitingSignature}

// Table: loan_requests
type LoanRequest struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Reference   string     `gorm:"column:reference;type:char(32);not null;uniqueIndex:ux_loan_requests_reference" json:"reference"`
	FarmID      uint64     `gorm:"column:farm_id;not null;index:idx_loan_requests_farm_status" json:"farm_id"`
	Amount      float64    `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	TermMonths  int        `gorm:"column:term_months;not null" json:"term_months"`
	Purpose     string     `gorm:"column:purpose;type:text" json:"purpose"`
	Status      Status     `gorm:"column:status;size:32;not null;default:'pending';index:idx_loan_requests_farm_status;index:idx_loan_requests_status" json:"status"`
	ActivatedAt *time.Time `gorm:"column:activated_at" json:"activated_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Farm *farmer.Farm `gorm:"foreignKey:FarmID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// NewRequest builds a pending loan request after checking the preconditions
// every amount and term must satisfy.
func NewRequest(farmID uint64, reference string, amount float64, termMonths int, purpose string) (*LoanRequest, error) {
	if _, err := amortization.TotalRepayment(amount, termMonths); err != nil {
		return nil, mapCalcErr(err)
	}
	return &LoanRequest{
		Reference:  reference,
		FarmID:     farmID,
		Amount:     amount,
		TermMonths: termMonths,
		Purpose:    purpose,
		Status:     StatusPending,
	}, nil
}

// Review moves a pending request to waiting_signature or rejected.
func (l *LoanRequest) Review(approved bool) error {
	if l.Status != StatusPending {
		return ErrInvalidState
	}
	if approved {
		l.Status = StatusWaitingSignature
	} else {
		l.Status = StatusRejected
	}
	return nil
}

// Sign activates an approved request. The activation time anchors due dates.
func (l *LoanRequest) Sign(at time.Time) error {
	if l.Status != StatusWaitingSignature {
		return ErrInvalidState
	}
	at = at.UTC()
	l.Status = StatusActive
	l.ActivatedAt = &at
	return nil
}

// CanAcceptPayment reports whether a payment of amount may be recorded.
// Amount is checked before state so bad input never depends on storage.
func (l *LoanRequest) CanAcceptPayment(amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if l.Status != StatusActive {
		return ErrInvalidState
	}
	return nil
}

// Schedule derives the repayment state. Pending requests use the unsigned branch.
func (l *LoanRequest) Schedule(paid float64) (amortization.Schedule, error) {
	var (
		s   amortization.Schedule
		err error
	)
	if l.Status == StatusPending {
		s, err = amortization.ComputePending(l.Amount, l.TermMonths)
	} else {
		s, err = amortization.Compute(l.Amount, l.TermMonths, paid)
	}
	return s, mapCalcErr(err)
}
