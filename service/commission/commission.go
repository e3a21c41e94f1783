package commission

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNegativeAmount = errors.New("amount must not be negative")

// Calculator splits a booking price into the platform fee and the caregiver's
// earnings. The fee percentage is fixed at construction; the calculator holds
// no other state and Split has no side effects.
type Calculator struct {
	feePercent decimal.Decimal
}

func NewCalculator(feePercent decimal.Decimal) Calculator {
	return Calculator{feePercent: feePercent}
}

// Split returns (platform fee, caregiver earnings). The fee is
// amount * feePercent rounded half-up to 2 places; earnings are the exact
// remainder, so fee + earnings == amount always holds.
func (c Calculator) Split(amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrNegativeAmount
	}
	fee := amount.Mul(c.feePercent).Round(2)
	earnings := amount.Sub(fee)
	return fee, earnings, nil
}
