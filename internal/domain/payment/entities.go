package payment

import (
	"time"

	"agrocredit-backend/internal/domain/loan"
)

// Table: payments. Rows are append-only and are removed only together with
// their parent loan when it is paid off.
type Payment struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanID      uint64    `gorm:"column:loan_id;not null;index:idx_payments_loan" json:"loan_id"`
	Amount      float64   `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	PaymentDate time.Time `gorm:"column:payment_date;not null" json:"payment_date"`

	Loan *loan.LoanRequest `gorm:"foreignKey:LoanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Payment) TableName() string { return "payments" }
