// Package amortization holds the flat-rate repayment math for loan requests.
//
// Interest is simple and pro-rated by term: principal * 12% * (term / 12).
// All arithmetic runs in decimal and is handed back as float64 so callers
// keep the same money representation as the storage layer.
package amortization

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AnnualRate is the flat yearly interest rate applied to every loan.
	AnnualRate = 0.12
	// Epsilon is the tolerance used when deciding a loan is fully paid.
	Epsilon = 0.01
)

var (
	ErrInvalidTerm   = errors.New("term must be a positive number of months")
	ErrInvalidAmount = errors.New("amount must be positive with at most 2 decimal places")
)

var (
	rate    = decimal.NewFromFloat(AnnualRate)
	epsilon = decimal.NewFromFloat(Epsilon)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Schedule is the derived repayment state of a single loan.
type Schedule struct {
	Principal          float64
	TermMonths         int
	Interest           float64
	TotalRepayment     float64
	Paid               float64
	Remaining          float64
	MonthlyInstallment float64
	ProgressPercent    int
	// Pending is set for unsigned loans: nothing is owed yet and no due date exists.
	Pending bool

	// exactTotal is TotalRepayment before rounding to cents; payoff is
	// decided against it.
	exactTotal decimal.Decimal
}

// Compute derives the schedule for a signed loan given the cumulative amount paid.
func Compute(principal float64, termMonths int, paid float64) (Schedule, error) {
	p, total, err := totals(principal, termMonths)
	if err != nil {
		return Schedule{}, err
	}
	paidD := decimal.NewFromFloat(paid)

	s := Schedule{
		Principal:          principal,
		TermMonths:         termMonths,
		Interest:           total.Sub(p).Round(2).InexactFloat64(),
		TotalRepayment:     total.Round(2).InexactFloat64(),
		Paid:               paid,
		Remaining:          total.Sub(paidD).Round(2).InexactFloat64(),
		MonthlyInstallment: total.Div(decimal.NewFromInt(int64(termMonths))).Round(2).InexactFloat64(),
		ProgressPercent:    progress(paidD, total),
		exactTotal:         total,
	}
	return s, nil
}

// ComputePending is the branch for loans that were never signed. The amounts
// reflect what would be owed, nothing counts as paid and there is no due date.
func ComputePending(principal float64, termMonths int) (Schedule, error) {
	s, err := Compute(principal, termMonths, 0)
	if err != nil {
		return Schedule{}, err
	}
	s.Paid = 0
	s.Remaining = s.TotalRepayment
	s.ProgressPercent = 0
	s.Pending = true
	return s, nil
}

// TotalRepayment returns principal plus flat interest for the term.
func TotalRepayment(principal float64, termMonths int) (float64, error) {
	_, total, err := totals(principal, termMonths)
	if err != nil {
		return 0, err
	}
	return total.Round(2).InexactFloat64(), nil
}

// IsFullyPaid reports whether paid covers total within Epsilon. total must
// be the unrounded repayment.
func IsFullyPaid(paid, total float64) bool {
	return fullyPaid(decimal.NewFromFloat(paid), decimal.NewFromFloat(total))
}

// IsFullyPaid reports whether the schedule's paid amount retires the loan.
func (s Schedule) IsFullyPaid() bool {
	if s.Pending {
		return false
	}
	total := s.exactTotal
	if total.IsZero() {
		total = decimal.NewFromFloat(s.TotalRepayment)
	}
	return fullyPaid(decimal.NewFromFloat(s.Paid), total)
}

func fullyPaid(paid, total decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total.Sub(epsilon))
}

// InstallmentsCovered is the number of whole monthly installments the paid
// amount covers, capped at the term.
func (s Schedule) InstallmentsCovered() int {
	if s.Pending || s.MonthlyInstallment <= 0 {
		return 0
	}
	n := decimal.NewFromFloat(s.Paid).
		Add(epsilon).
		Div(decimal.NewFromFloat(s.MonthlyInstallment)).
		Floor().
		IntPart()
	if n > int64(s.TermMonths) {
		n = int64(s.TermMonths)
	}
	return int(n)
}

// NextDueDate returns the date of the next unpaid installment counted from
// activation. ok is false for pending schedules and for fully covered terms.
func (s Schedule) NextDueDate(activatedAt time.Time) (due time.Time, ok bool) {
	if s.Pending || activatedAt.IsZero() {
		return time.Time{}, false
	}
	k := s.InstallmentsCovered()
	if k >= s.TermMonths {
		return time.Time{}, false
	}
	return activatedAt.AddDate(0, k+1, 0), true
}

// ValidAmount reports whether v is a finite positive money value in whole
// cents. Storage keeps two decimals, so a finer amount would be truncated.
func ValidAmount(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return false
	}
	d := decimal.NewFromFloat(v)
	return d.Equal(d.Round(2))
}

func totals(principal float64, termMonths int) (decimal.Decimal, decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, decimal.Zero, ErrInvalidTerm
	}
	if !ValidAmount(principal) {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount
	}
	p := decimal.NewFromFloat(principal)
	interest := p.Mul(rate).Mul(decimal.NewFromInt(int64(termMonths))).Div(twelve)
	return p, p.Add(interest), nil
}

func progress(paid, total decimal.Decimal) int {
	if !total.IsPositive() || !paid.IsPositive() {
		return 0
	}
	pct := paid.Div(total).Mul(hundred).Floor().IntPart()
	if pct > 100 {
		return 100
	}
	return int(pct)
}
