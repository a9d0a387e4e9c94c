// Package projection derives read-only views from ledger state. Nothing here
// writes; every call recomputes from storage.
package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrocredit-backend/internal/domain/advisory"
	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"
	"agrocredit-backend/internal/domain/uow"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	riskLevelLow = "Low"
	loansLink    = "/farmer/loans"
	noFarmName   = "No Farm"
)

var placeholderRecommendation = RecommendationView{
	Title:   "No Recommendations",
	Message: "Everything looks great!",
	Type:    "general",
}

type Usecase struct {
	tx    uow.UnitOfWork
	money *message.Printer
}

func NewUsecase(tx uow.UnitOfWork) *Usecase {
	return &Usecase{tx: tx, money: message.NewPrinter(language.English)}
}

// snapshot runs fn in one transaction so a view never mixes a loan list with
// payment sums taken after a concurrent payoff.
func snapshot[T any](ctx context.Context, tx uow.UnitOfWork, fn func(r uow.Repos) (T, error)) (T, error) {
	var out T
	err := tx.WithinTx(ctx, func(r uow.Repos) error {
		v, err := fn(r)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func (u *Usecase) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) (*DashboardStats, error) {
		total, err := r.Loans.SumAmountByStatus(ctx, loan.StatusActive)
		if err != nil {
			return nil, err
		}
		active, err := r.Loans.CountByStatus(ctx, loan.StatusActive)
		if err != nil {
			return nil, err
		}
		pending, err := r.Loans.CountByStatus(ctx, loan.StatusPending)
		if err != nil {
			return nil, err
		}
		return &DashboardStats{
			TotalPortfolio:      total,
			ActiveLoans:         active,
			PendingApplications: pending,
			RiskLevel:           riskLevelLow,
		}, nil
	})
}

func (u *Usecase) FarmerSummary(ctx context.Context, farmerID uint64) (*FarmerSummary, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) (*FarmerSummary, error) {
		f, err := r.Farmers.GetByID(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		active, err := r.Loans.ListByFarmer(ctx, farmerID, loan.StatusActive)
		if err != nil {
			return nil, err
		}
		paid, err := paidByLoan(ctx, r.Payments, active)
		if err != nil {
			return nil, err
		}

		debt, totalPaid := decimal.Zero, decimal.Zero
		for _, l := range active {
			debt = debt.Add(decimal.NewFromFloat(l.Amount))
			totalPaid = totalPaid.Add(decimal.NewFromFloat(paid[l.ID]))
		}
		return &FarmerSummary{
			TotalDebt:     debt.Round(2).InexactFloat64(),
			ActiveCredits: len(active),
			CreditScore:   f.CreditScore,
			TotalPaid:     totalPaid.Round(2).InexactFloat64(),
		}, nil
	})
}

// ListFarmerLoans returns the caller's open loans, oldest first.
func (u *Usecase) ListFarmerLoans(ctx context.Context, farmerID uint64) ([]LoanView, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) ([]LoanView, error) {
		loans, err := r.Loans.ListByFarmer(ctx, farmerID, loan.OpenStatuses...)
		if err != nil {
			return nil, err
		}
		paid, err := paidByLoan(ctx, r.Payments, loans)
		if err != nil {
			return nil, err
		}
		out := make([]LoanView, 0, len(loans))
		for i := range loans {
			v, err := NewLoanView(&loans[i], paid[loans[i].ID])
			if err != nil {
				return nil, fmt.Errorf("loan %d: %w", loans[i].ID, err)
			}
			out = append(out, *v)
		}
		return out, nil
	})
}

// Notifications lists one sign alert per approved loan, then a single
// summary entry when the farmer has active loans.
func (u *Usecase) Notifications(ctx context.Context, farmerID uint64) ([]Notification, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) ([]Notification, error) {
		waiting, err := r.Loans.ListByFarmer(ctx, farmerID, loan.StatusWaitingSignature)
		if err != nil {
			return nil, err
		}
		out := make([]Notification, 0, len(waiting)+1)
		for _, l := range waiting {
			out = append(out, Notification{
				ID:      fmt.Sprintf("sign_%d", l.ID),
				Title:   "Action Required",
				Message: u.money.Sprintf("Loan application for $%.0f approved! Please sign the contract.", l.Amount),
				Type:    NotificationAlert,
				Link:    loansLink,
			})
		}

		active, err := r.Loans.ListByFarmer(ctx, farmerID, loan.StatusActive)
		if err != nil {
			return nil, err
		}
		if len(active) == 0 {
			return out, nil
		}
		msg := fmt.Sprintf("You have %d active credits.", len(active))
		next, err := nearestDue(ctx, r.Payments, active)
		if err != nil {
			return nil, err
		}
		if !next.IsZero() {
			msg += " Next payment due on " + next.UTC().Format(DateLayout) + "."
		}
		out = append(out, Notification{
			ID:      "active_summary",
			Title:   "Monthly Update",
			Message: msg,
			Type:    NotificationInfo,
			Link:    loansLink,
		})
		return out, nil
	})
}

func (u *Usecase) Profile(ctx context.Context, farmerID uint64) (*Profile, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) (*Profile, error) {
		f, err := r.Farmers.GetByID(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		p := &Profile{
			ID:          f.ID,
			Email:       f.Email,
			FullName:    f.FullName,
			CreditScore: f.CreditScore,
			FarmName:    noFarmName,
			JoinedDate:  f.CreatedAt.UTC().Format(DateLayout),
		}
		farm, err := r.Farmers.GetPrimaryFarm(ctx, farmerID)
		switch {
		case err == nil:
			p.FarmName = farm.Name
			p.FarmSize = farm.SizeAcres
		case !errors.Is(err, farmer.ErrFarmNotFound):
			return nil, err
		}
		return p, nil
	})
}

// Utilities reports each reading with its change from the previous reading
// of the same type on the same farm.
func (u *Usecase) Utilities(ctx context.Context, farmerID uint64) ([]UtilityView, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) ([]UtilityView, error) {
		rows, err := r.Advisory.ListReadingsByFarmer(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		type key struct {
			farm uint64
			kind advisory.UtilityType
		}
		prev := make(map[key]float64, len(rows))
		out := make([]UtilityView, 0, len(rows))
		for _, rd := range rows {
			k := key{rd.FarmID, rd.UtilityType}
			diff := 0.0
			if p, ok := prev[k]; ok {
				diff = decimal.NewFromFloat(rd.ReadingValue).Sub(decimal.NewFromFloat(p)).Round(2).InexactFloat64()
			}
			prev[k] = rd.ReadingValue
			out = append(out, UtilityView{
				Type:  string(rd.UtilityType),
				Value: rd.ReadingValue,
				Unit:  rd.Unit,
				Diff:  diff,
			})
		}
		return out, nil
	})
}

func (u *Usecase) LatestRecommendation(ctx context.Context, farmerID uint64) (*RecommendationView, error) {
	return snapshot(ctx, u.tx, func(r uow.Repos) (*RecommendationView, error) {
		rec, err := r.Advisory.LatestRecommendation(ctx, farmerID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			v := placeholderRecommendation
			return &v, nil
		}
		v := &RecommendationView{Title: rec.Title, Message: rec.Message, Type: rec.Type}
		if v.Type == "" {
			v.Type = placeholderRecommendation.Type
		}
		return v, nil
	})
}

func paidByLoan(ctx context.Context, payments payment.Repository, loans []loan.LoanRequest) (map[uint64]float64, error) {
	ids := make([]uint64, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	return payments.SumByLoanIDs(ctx, ids)
}

// nearestDue is the earliest upcoming installment across loans, zero if none.
func nearestDue(ctx context.Context, payments payment.Repository, active []loan.LoanRequest) (time.Time, error) {
	paid, err := paidByLoan(ctx, payments, active)
	if err != nil {
		return time.Time{}, err
	}
	var best time.Time
	for i := range active {
		l := &active[i]
		if l.ActivatedAt == nil {
			continue
		}
		s, err := l.Schedule(paid[l.ID])
		if err != nil {
			return time.Time{}, fmt.Errorf("loan %d: %w", l.ID, err)
		}
		if d, ok := s.NextDueDate(*l.ActivatedAt); ok && (best.IsZero() || d.Before(best)) {
			best = d
		}
	}
	return best, nil
}
