package loan

import (
	"errors"

	"agrocredit-backend/internal/domain/amortization"
)

var (
	ErrNotFound      = errors.New("loan not found")
	ErrInvalidState  = errors.New("loan is not in a state that allows this operation")
	ErrUnknownStatus = errors.New("unknown loan status")
	ErrInvalidAmount = amortization.ErrInvalidAmount
	ErrInvalidTerm   = amortization.ErrInvalidTerm
)

// ValidateAmount rejects non-positive, non-finite and sub-cent money values.
func ValidateAmount(amount float64) error {
	if !amortization.ValidAmount(amount) {
		return ErrInvalidAmount
	}
	return nil
}

func mapCalcErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, amortization.ErrInvalidTerm):
		return ErrInvalidTerm
	case errors.Is(err, amortization.ErrInvalidAmount):
		return ErrInvalidAmount
	}
	return err
}
