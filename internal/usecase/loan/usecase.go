package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrocredit-backend/internal/domain/farmer"
	"agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/payment"
	"agrocredit-backend/internal/domain/uow"
	"agrocredit-backend/internal/usecase/projection"
	"agrocredit-backend/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Usecase struct {
	uow    uow.UnitOfWork
	log    *zap.Logger
	now    func() time.Time
	newRef func() string
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, log: log, now: time.Now, newRef: id.NewReference}
}

// Submit files a pending loan request on one of the caller's farms.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*projection.LoanView, error) {
	// amount and term are checked before touching storage
	l, err := loan.NewRequest(in.FarmID, u.newRef(), in.Amount, in.TermMonths, in.Purpose)
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		farm, err := resolveFarm(ctx, r.Farmers, in.FarmerID, in.FarmID)
		if err != nil {
			return err
		}
		l.FarmID = farm.ID
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan submitted",
		zap.Uint64("loan_id", l.ID),
		zap.Uint64("farm_id", l.FarmID),
		zap.Float64("amount", l.Amount),
		zap.Int("term_months", l.TermMonths),
	)
	return projection.NewLoanView(l, 0)
}

func (u *Usecase) Sign(ctx context.Context, farmerID, loanID uint64) (*SignDTO, error) {
	var dto *SignDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.LoanRequest) error {
		if err := ensureOwner(ctx, r.Farmers, l, farmerID); err != nil {
			return err
		}
		from := l.Status
		if err := l.Sign(u.now()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.logTransition(l.ID, from, l.Status)
		dto = &SignDTO{LoanID: l.ID, Status: string(l.Status), ActivatedAt: *l.ActivatedAt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RecordPayment appends a payment to an active loan. When the cumulative paid
// reaches the total repayment the loan and all its payments are deleted in
// the same transaction.
func (u *Usecase) RecordPayment(ctx context.Context, farmerID, loanID uint64, amount float64) (*PaymentDTO, error) {
	if err := loan.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var dto *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.LoanRequest) error {
		if err := ensureOwner(ctx, r.Farmers, l, farmerID); err != nil {
			return err
		}
		if err := l.CanAcceptPayment(amount); err != nil {
			return err
		}

		p := &payment.Payment{LoanID: l.ID, Amount: amount, PaymentDate: u.now().UTC()}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		paid, err := r.Payments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		s, err := l.Schedule(paid)
		if err != nil {
			return err
		}

		dto = &PaymentDTO{
			LoanID:    l.ID,
			Amount:    amount,
			TotalPaid: decimal.NewFromFloat(s.Paid).Round(2).InexactFloat64(),
			Remaining: s.Remaining,
		}
		if !s.IsFullyPaid() {
			return nil
		}

		// payments first, the FK forbids the reverse
		n, err := r.Payments.DeleteByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if err := r.Loans.Delete(ctx, l.ID); err != nil {
			return fmt.Errorf("purge loan %d: %w", l.ID, err)
		}
		// anything within epsilon or overpaid counts as nothing owed
		dto.Settled = true
		dto.Remaining = 0
		u.log.Info("loan paid off and purged",
			zap.Uint64("loan_id", l.ID),
			zap.Float64("total_paid", s.Paid),
			zap.Int64("payments_removed", n),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) logTransition(loanID uint64, from, to loan.Status) {
	u.log.Info("loan transition",
		zap.Uint64("loan_id", loanID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
}

func resolveFarm(ctx context.Context, farms farmer.Repository, farmerID, farmID uint64) (*farmer.Farm, error) {
	if farmID == 0 {
		return farms.GetPrimaryFarm(ctx, farmerID)
	}
	f, err := farms.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if f.FarmerID != farmerID {
		return nil, farmer.ErrFarmNotFound
	}
	return f, nil
}

// ensureOwner hides other farmers' loans behind ErrNotFound.
func ensureOwner(ctx context.Context, farms farmer.Repository, l *loan.LoanRequest, farmerID uint64) error {
	f, err := farms.GetFarm(ctx, l.FarmID)
	switch {
	case errors.Is(err, farmer.ErrFarmNotFound):
		return loan.ErrNotFound
	case err != nil:
		return err
	case f.FarmerID != farmerID:
		return loan.ErrNotFound
	}
	return nil
}
