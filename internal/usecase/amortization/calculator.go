// Package amortization prices equal-installment loans.
package amortization

import (
	"github.com/shopspring/decimal"

	"loan-origination/internal/domain/apperr"
)

const (
	MaxTermMonths = 1200
	// digits kept after the decimal point in chained arithmetic
	precision = 28
)

var (
	// MaxAnnualRate is the largest value the annual_rate column holds.
	MaxAnnualRate = decimal.RequireFromString("999.99")

	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Quote is the full-precision result of a payment computation.
type Quote struct {
	MonthlyPayment decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalInterest  decimal.Decimal
}

// Rounded returns the quote rounded to cents for presentation.
func (q Quote) Rounded() Quote {
	return Quote{
		MonthlyPayment: q.MonthlyPayment.Round(2),
		TotalAmount:    q.TotalAmount.Round(2),
		TotalInterest:  q.TotalInterest.Round(2),
	}
}

// Validate checks the calculator's input constraints and reports every
// offending field.
func Validate(principal decimal.Decimal, termMonths int, annualRatePercent decimal.Decimal) error {
	var errs apperr.ValidationErrors
	if !principal.IsPositive() {
		errs.Add("principal", "must be greater than 0")
	}
	switch {
	case termMonths < 1:
		errs.Add("term_months", "must be at least 1")
	case termMonths > MaxTermMonths:
		errs.Add("term_months", "must be at most 1200")
	}
	switch {
	case annualRatePercent.IsNegative():
		errs.Add("annual_rate", "must be greater than or equal to 0")
	case annualRatePercent.GreaterThan(MaxAnnualRate):
		errs.Add("annual_rate", "must be at most "+MaxAnnualRate.String())
	}
	return errs.Err()
}

// Compute returns the monthly installment, total repayment and total interest
// of an amortizing loan. Intermediate values keep full precision; round with
// Quote.Rounded only for display.
func Compute(principal decimal.Decimal, termMonths int, annualRatePercent decimal.Decimal) (Quote, error) {
	if err := Validate(principal, termMonths, annualRatePercent); err != nil {
		return Quote{}, err
	}
	term := decimal.NewFromInt(int64(termMonths))

	var monthly decimal.Decimal
	if annualRatePercent.IsZero() {
		monthly = principal.DivRound(term, precision)
	} else {
		r := annualRatePercent.DivRound(hundred, precision).DivRound(twelve, precision)
		factor, err := decimal.NewFromInt(1).Add(r).PowWithPrecision(term, precision)
		if err != nil {
			return Quote{}, err
		}
		monthly = principal.Mul(r).Mul(factor).DivRound(factor.Sub(decimal.NewFromInt(1)), precision)
	}

	total := monthly.Mul(term)
	return Quote{
		MonthlyPayment: monthly,
		TotalAmount:    total,
		TotalInterest:  total.Sub(principal),
	}, nil
}
