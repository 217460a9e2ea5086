package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// BisectOptions bounds a break-even search.
type BisectOptions struct {
	// Tolerance is the largest |advantage| accepted as break-even (default $1).
	Tolerance money.Cents

	// MaxIterations caps the number of midpoint evaluations (default 100).
	MaxIterations int

	// MinWidth stops the search once the bracket is narrower than this many
	// percentage points (default 1e-9).
	MinWidth decimal.Decimal

	Logger Logger
}

// DefaultBisectOptions returns the search bounds used by the comparators.
func DefaultBisectOptions() BisectOptions {
	return BisectOptions{
		Tolerance:     100,
		MaxIterations: 100,
		MinWidth:      decimal.New(1, -9),
		Logger:        NopLogger{},
	}
}

func (o BisectOptions) withDefaults() BisectOptions {
	d := DefaultBisectOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if !o.MinWidth.IsPositive() {
		o.MinWidth = d.MinWidth
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// AdvantageFunc evaluates the net advantage of one strategy over another when
// the free variable is set to rate.
type AdvantageFunc func(rate money.Rate) (money.Cents, error)

// Bisect searches [lo, hi] for the rate where f crosses zero. The function is
// assumed monotonic over the range.
//
// The search is bounded by MaxIterations. When both endpoints have the same
// sign there is no root to find and the endpoint closest to zero is returned
// with Bracketed=false. When the budget runs out the best midpoint seen so far
// is returned with Converged=false. Errors from f abort the search.
func Bisect(f AdvantageFunc, lo, hi money.Rate, opts BisectOptions) (domain.BreakEvenRate, error) {
	opts = opts.withDefaults()
	if lo.GreaterThan(hi.Decimal) {
		lo, hi = hi, lo
	}
	result := domain.BreakEvenRate{Low: lo, High: hi}

	fLo, err := f(lo)
	if err != nil {
		return result, fmt.Errorf("break-even search at %s%%: %w", lo, err)
	}
	fHi, err := f(hi)
	if err != nil {
		return result, fmt.Errorf("break-even search at %s%%: %w", hi, err)
	}

	best, bestValue := lo, fLo
	if fHi.Abs() < fLo.Abs() {
		best, bestValue = hi, fHi
	}
	if bestValue.Abs() <= opts.Tolerance {
		result.Rate = best
		result.Residual = bestValue
		result.Converged = true
		result.Bracketed = true
		return result, nil
	}
	if (fLo < 0) == (fHi < 0) {
		opts.Logger.Debugf("break-even not bracketed: f(%s)=%s f(%s)=%s", lo, fLo, hi, fHi)
		result.Rate = best
		result.Residual = bestValue
		return result, nil
	}
	result.Bracketed = true

	two := decimal.NewFromInt(2)
	low, high := lo.Decimal, hi.Decimal
	for i := 0; i < opts.MaxIterations; i++ {
		mid := money.NewRateFromDecimal(low.Add(high).Div(two))
		fMid, err := f(mid)
		if err != nil {
			return result, fmt.Errorf("break-even search at %s%%: %w", mid, err)
		}
		result.Iterations = i + 1
		opts.Logger.Debugf("bisect iteration %d: rate=%s advantage=%s", i+1, mid, fMid)

		// Ties go to the newer midpoint, which sits in a narrower bracket.
		if fMid.Abs() <= bestValue.Abs() {
			best, bestValue = mid, fMid
		}
		if fMid.Abs() <= opts.Tolerance {
			result.Converged = true
			break
		}

		// Keep the half whose endpoints still straddle zero.
		if (fMid < 0) == (fLo < 0) {
			low, fLo = mid.Decimal, fMid
		} else {
			high = mid.Decimal
		}

		if high.Sub(low).LessThan(opts.MinWidth) {
			result.Converged = bestValue.Abs() <= opts.Tolerance
			break
		}
	}

	result.Rate = best
	result.Residual = bestValue
	return result, nil
}

// CalculateBreakEvenCrossover finds the first moment track a's net position
// crosses track b's. Points must be aligned by index with a shared Year 0
// starting point. A tie at the starting point is ignored as trivial. Within a
// year the crossover is placed by linear interpolation of the difference. When
// the tracks never cross it returns nil, nil.
func CalculateBreakEvenCrossover(a, b []domain.TrackPoint) (*domain.Crossover, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("one or both tracks are empty")
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	one := decimal.NewFromInt(1)
	var prevDiff money.Cents
	for i := 0; i < n; i++ {
		currDiff := a[i].Net - b[i].Net

		if i == 0 {
			prevDiff = currDiff
			continue
		}

		// Exact equality at a year end. A run of ties that started at the
		// starting point is not a crossover.
		if currDiff == 0 {
			if prevDiff == 0 {
				continue
			}
			return newCrossover(a[i-1], a[i], one), nil
		}

		if prevDiff != 0 && (prevDiff < 0) != (currDiff < 0) {
			// diff(t) = prev + t*(curr-prev); solve diff(t) = 0.
			t := prevDiff.Decimal().Neg().Div(currDiff.Decimal().Sub(prevDiff.Decimal()))
			if t.IsNegative() {
				t = decimal.Zero
			} else if t.GreaterThan(one) {
				t = one
			}
			return newCrossover(a[i-1], a[i], t), nil
		}
		prevDiff = currDiff
	}

	return nil, nil
}

func newCrossover(prev, curr domain.TrackPoint, t decimal.Decimal) *domain.Crossover {
	var at time.Time
	if t.Equal(decimal.NewFromInt(1)) {
		// An exact tie at a year end lands on the last day of that year.
		at = curr.Date.AddDate(0, 0, -1)
	} else {
		span := decimal.NewFromInt(int64(curr.Date.Sub(prev.Date)))
		at = dateutil.Normalize(prev.Date.Add(time.Duration(t.Mul(span).IntPart())))
	}

	from, to := fractionalYear(prev.Date), fractionalYear(curr.Date)
	calendarYear := from.Add(to.Sub(from).Mul(t))

	return &domain.Crossover{
		YearIndex:    curr.Year,
		Fraction:     t.Round(6),
		CalendarYear: calendarYear.Round(4).InexactFloat64(),
		Month:        int(at.Month()),
		Year:         at.Year(),
	}
}

// fractionalYear maps a date to its calendar year plus the elapsed fraction of
// that year, so Jan 1 2030 is 2030.0.
func fractionalYear(d time.Time) decimal.Decimal {
	daysInYear := int64(365)
	if dateutil.IsLeapYear(d.Year()) {
		daysInYear = 366
	}
	days := int64(d.Sub(dateutil.BeginningOfYear(d)) / (24 * time.Hour))
	elapsed := decimal.NewFromInt(days).Div(decimal.NewFromInt(daysInYear))
	return decimal.NewFromInt(int64(d.Year())).Add(elapsed)
}
