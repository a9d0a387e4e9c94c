package approval

import (
	"context"

	domainLoan "agrocredit-backend/internal/domain/loan"
	"agrocredit-backend/internal/domain/uow"

	"go.uber.org/zap"
)

type Usecase struct {
	loanRepo domainLoan.Repository
	uow      uow.UnitOfWork
	log      *zap.Logger
}

// NewUsecase: loans serves the read-only listing, tx the review flow.
func NewUsecase(loans domainLoan.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	return &Usecase{loanRepo: loans, uow: tx, log: log}
}

// Review approves or rejects a pending request. Anything not pending fails
// with ErrInvalidState and is left untouched.
func (u *Usecase) Review(ctx context.Context, loanID uint64, approved bool) (*ReviewDTO, error) {
	var dto *ReviewDTO

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.LoanRequest) error {
		from := l.Status
		if err := l.Review(approved); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.log.Info("loan transition",
			zap.Uint64("loan_id", l.ID),
			zap.String("from", string(from)),
			zap.String("to", string(l.Status)),
		)
		dto = &ReviewDTO{LoanID: l.ID, Status: string(l.Status)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListPending returns pending requests, newest first.
func (u *Usecase) ListPending(ctx context.Context) ([]ApplicationDTO, error) {
	rows, err := u.loanRepo.ListByStatusWithFarm(ctx, domainLoan.StatusPending)
	if err != nil {
		return nil, err
	}
	out := make([]ApplicationDTO, 0, len(rows))
	for _, l := range rows {
		a := ApplicationDTO{
			ID:         l.ID,
			Reference:  l.Reference,
			Amount:     l.Amount,
			TermMonths: l.TermMonths,
			Purpose:    l.Purpose,
			Status:     string(l.Status),
			CreatedAt:  l.CreatedAt,
		}
		if l.Farm != nil {
			a.FarmName = l.Farm.Name
			if l.Farm.Farmer != nil {
				a.FarmerName = l.Farm.Farmer.FullName
				a.CreditScore = l.Farm.Farmer.CreditScore
			}
		}
		out = append(out, a)
	}
	return out, nil
}
