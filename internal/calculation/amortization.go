package calculation

import (
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// LumpSum is a one-time extra principal payment made in a given period.
type LumpSum struct {
	Period int
	Amount money.Cents
}

// LoanTerms describes a fixed-payment loan to amortize.
type LoanTerms struct {
	Principal   money.Cents
	AnnualRate  money.Rate
	TermPeriods int

	// PeriodsPerYear defaults to 12.
	PeriodsPerYear int

	ExtraPayment money.Cents
	LumpSum      *LumpSum

	// Biweekly halves the monthly payment and pays it every 14 days. TermPeriods
	// is then the nominal term in months.
	Biweekly bool

	// StartDate anchors entry dates; the first payment falls one period later.
	StartDate time.Time

	// Payment replaces the computed PMT when positive.
	Payment money.Cents

	// MaxPeriods stops the schedule early when positive.
	MaxPeriods int
}

func (t LoanTerms) validate() error {
	if t.Principal < 0 {
		return domain.NewInvalidInput("principal", "cannot be negative")
	}
	if t.AnnualRate.IsNegative() {
		return domain.NewInvalidInput("annual_rate", "cannot be negative")
	}
	if t.TermPeriods <= 0 {
		return domain.NewInvalidInput("term_periods", "must be positive, got %d", t.TermPeriods)
	}
	if t.PeriodsPerYear < 0 {
		return domain.NewInvalidInput("periods_per_year", "must be positive, got %d", t.PeriodsPerYear)
	}
	if t.Biweekly && t.PeriodsPerYear != 0 && t.PeriodsPerYear != 12 {
		return domain.NewInvalidInput("periods_per_year", "biweekly mode converts a monthly loan, got %d periods per year", t.PeriodsPerYear)
	}
	if t.ExtraPayment < 0 {
		return domain.NewInvalidInput("extra_payment", "cannot be negative")
	}
	if t.Payment < 0 {
		return domain.NewInvalidInput("payment", "cannot be negative")
	}
	if t.MaxPeriods < 0 {
		return domain.NewInvalidInput("max_periods", "cannot be negative")
	}
	if t.LumpSum != nil {
		if t.LumpSum.Period < 1 {
			return domain.NewInvalidInput("lump_sum.period", "must be at least 1, got %d", t.LumpSum.Period)
		}
		if t.LumpSum.Amount < 0 {
			return domain.NewInvalidInput("lump_sum.amount", "cannot be negative")
		}
	}
	return nil
}

// CalculatePayment returns the fixed periodic payment that retires principal
// over n periods at periodRate: P*r*(1+r)^n / ((1+r)^n - 1), or P/n when the
// rate is zero.
func CalculatePayment(principal money.Cents, periodRate decimal.Decimal, n int) money.Cents {
	if n <= 0 || principal <= 0 {
		return 0
	}
	if periodRate.IsZero() {
		return principal.DivInt(int64(n))
	}
	growth := decimal.NewFromInt(1).Add(periodRate).Pow(decimal.NewFromInt(int64(n)))
	numerator := principal.Decimal().Mul(periodRate).Mul(growth)
	return money.FromDecimal(numerator.Div(growth.Sub(decimal.NewFromInt(1))))
}

// Amortize builds the payment schedule of a loan. Interest is rounded once per
// period; the principal portion is clamped to the outstanding balance and in
// the nominal final period it takes the whole balance, so the schedule always
// closes at exactly zero.
func Amortize(terms LoanTerms) (*domain.AmortizationSchedule, error) {
	if err := terms.validate(); err != nil {
		return nil, err
	}

	periodsPerYear := terms.PeriodsPerYear
	if periodsPerYear == 0 {
		periodsPerYear = 12
	}
	nominal := terms.TermPeriods
	rate := terms.AnnualRate.PeriodRate(periodsPerYear)
	payment := terms.Payment
	if payment == 0 {
		payment = CalculatePayment(terms.Principal, rate, nominal)
	}

	if terms.Biweekly {
		payment = payment.DivInt(2)
		periodsPerYear = 26
		rate = terms.AnnualRate.PeriodRate(periodsPerYear)
		nominal = (terms.TermPeriods*26 + 11) / 12
	}

	schedule := &domain.AmortizationSchedule{
		Principal:        terms.Principal,
		AnnualRate:       terms.AnnualRate,
		PeriodsPerYear:   periodsPerYear,
		ScheduledPayment: payment,
		Biweekly:         terms.Biweekly,
		Entries:          []domain.AmortizationEntry{},
	}

	balance := terms.Principal
	for period := 1; balance > 0; period++ {
		if terms.MaxPeriods > 0 && period > terms.MaxPeriods {
			schedule.Truncated = true
			break
		}

		interest := balance.MulDecimal(rate)
		scheduled := payment - interest
		extra := terms.ExtraPayment
		if terms.LumpSum != nil && terms.LumpSum.Period == period {
			extra += terms.LumpSum.Amount
		}

		principal := scheduled + extra
		if principal > balance || period >= nominal {
			principal = balance
		}
		applied := principal - money.Max(scheduled, 0)
		applied = money.Min(money.Max(applied, 0), extra)

		entry := domain.AmortizationEntry{
			Period:           period,
			BeginningBalance: balance,
			Payment:          principal + interest,
			Principal:        principal,
			Interest:         interest,
			Extra:            applied,
			EndingBalance:    balance - principal,
		}
		if !terms.StartDate.IsZero() {
			entry.Date = dateutil.AddPeriods(terms.StartDate, period, periodsPerYear)
		}
		schedule.Entries = append(schedule.Entries, entry)

		schedule.TotalPayments += entry.Payment
		schedule.TotalInterest += entry.Interest
		schedule.TotalPrincipal += entry.Principal
		schedule.TotalExtra += entry.Extra
		balance = entry.EndingBalance
	}

	schedule.Periods = len(schedule.Entries)
	if balance == 0 && schedule.Periods > 0 && !terms.StartDate.IsZero() {
		payoff := schedule.Entries[schedule.Periods-1].Date
		schedule.PayoffDate = &payoff
	}
	return schedule, nil
}

// ComparePayoff reports what an accelerated schedule saves against a base one.
func ComparePayoff(base, accelerated *domain.AmortizationSchedule) domain.PayoffComparison {
	return domain.PayoffComparison{
		InterestSaved: base.TotalInterest - accelerated.TotalInterest,
		PeriodsSaved:  base.Periods - accelerated.Periods,
		MonthsSaved:   base.MonthsToPayoff() - accelerated.MonthsToPayoff(),
	}
}
