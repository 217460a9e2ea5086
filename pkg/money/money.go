package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an amount of money in minor currency units.
// Amounts are never held as floating point.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDecimal finalizes a computed amount, rounding half away from zero.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(0).IntPart())
}

// FromDollars converts a major-unit decimal string such as "1234.56" to cents.
func FromDollars(value string) (Cents, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return FromDecimal(d.Mul(hundred)), nil
}

// Decimal returns the amount as an exact decimal number of cents.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c))
}

// MulDecimal multiplies by an exact factor and rounds once.
func (c Cents) MulDecimal(factor decimal.Decimal) Cents {
	return FromDecimal(c.Decimal().Mul(factor))
}

// DivInt divides by n and rounds once. n must be non-zero.
func (c Cents) DivInt(n int64) Cents {
	return FromDecimal(c.Decimal().Div(decimal.NewFromInt(n)))
}

// Abs returns the absolute amount.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Dollars returns the amount in major units.
func (c Cents) Dollars() decimal.Decimal {
	return c.Decimal().Div(hundred)
}

// String returns the amount in major units with two decimals, e.g. "1234.56".
func (c Cents) String() string {
	return c.Dollars().StringFixed(2)
}

// Min returns the smaller of two amounts.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

// Sum adds a list of amounts.
func Sum(values ...Cents) Cents {
	var total Cents
	for _, v := range values {
		total += v
	}
	return total
}

// Rate is an annual percentage, e.g. 6.5 means 6.5%.
type Rate struct {
	decimal.Decimal
}

// NewRate creates a Rate from a percentage value.
func NewRate(percent float64) Rate {
	return Rate{decimal.NewFromFloat(percent)}
}

// NewRateFromDecimal creates a Rate from a decimal percentage.
func NewRateFromDecimal(percent decimal.Decimal) Rate {
	return Rate{percent}
}

// ParseRate parses a percentage such as "6.5".
func ParseRate(value string) (Rate, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid rate %q: %w", value, err)
	}
	return Rate{d}, nil
}

// RatePtr is a convenience for optional rates.
func RatePtr(percent float64) *Rate {
	r := NewRate(percent)
	return &r
}

// Fraction converts the percentage to a fraction (6.5 -> 0.065).
func (r Rate) Fraction() decimal.Decimal {
	return r.Decimal.Div(hundred)
}

// PeriodRate converts the annual percentage to a per-period fractional rate.
func (r Rate) PeriodRate(periodsPerYear int) decimal.Decimal {
	return r.Fraction().Div(decimal.NewFromInt(int64(periodsPerYear)))
}

// String returns the percentage without a trailing sign, e.g. "6.5".
func (r Rate) String() string {
	return r.Decimal.String()
}

// MarshalJSON encodes the rate as a bare JSON number.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers and quoted numbers.
func (r *Rate) UnmarshalJSON(data []byte) error {
	return r.Decimal.UnmarshalJSON(data)
}

// Percent formats the rate for display with the given number of decimals.
func (r Rate) Percent(places int32) string {
	return r.Decimal.StringFixed(places) + "%"
}
