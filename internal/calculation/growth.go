package calculation

import (
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// GrowthStep compounds value by one period of annualRate. A nil rate means no
// deterministic growth is assumed and the value is returned unchanged.
func GrowthStep(value money.Cents, annualRate *money.Rate, periodsPerYear int) money.Cents {
	if annualRate == nil || periodsPerYear <= 0 {
		return value
	}
	factor := decimal.NewFromInt(1).Add(annualRate.PeriodRate(periodsPerYear))
	return value.MulDecimal(factor)
}

// GrowBalance returns the value at every period boundary, index 0 being the
// starting value. Each period is rounded to whole cents before the next one
// compounds.
func GrowBalance(start money.Cents, annualRate *money.Rate, periods, periodsPerYear int) ([]money.Cents, error) {
	if periods < 0 {
		return nil, domain.NewInvalidInput("periods", "cannot be negative, got %d", periods)
	}
	if periodsPerYear <= 0 {
		return nil, domain.NewInvalidInput("periods_per_year", "must be positive, got %d", periodsPerYear)
	}
	values := make([]money.Cents, periods+1)
	values[0] = start
	for t := 1; t <= periods; t++ {
		values[t] = GrowthStep(values[t-1], annualRate, periodsPerYear)
	}
	return values, nil
}
