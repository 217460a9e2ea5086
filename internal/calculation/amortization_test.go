package calculation

import (
	"errors"
	"testing"
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertScheduleConsistent(t *testing.T, s *domain.AmortizationSchedule) {
	t.Helper()
	var principal, interest, payments money.Cents
	for i, e := range s.Entries {
		assert.Equal(t, i+1, e.Period)
		assert.Equal(t, e.BeginningBalance-e.Principal, e.EndingBalance, "period %d balance identity", e.Period)
		assert.Equal(t, e.Principal+e.Interest, e.Payment, "period %d payment identity", e.Period)
		assert.GreaterOrEqual(t, int64(e.EndingBalance), int64(0))
		principal += e.Principal
		interest += e.Interest
		payments += e.Payment
	}
	assert.Equal(t, principal, s.TotalPrincipal)
	assert.Equal(t, interest, s.TotalInterest)
	assert.Equal(t, payments, s.TotalPayments)
	assert.Equal(t, len(s.Entries), s.Periods)
}

func TestCalculatePayment(t *testing.T) {
	tests := []struct {
		name      string
		principal money.Cents
		annual    float64
		periods   int
		expected  money.Cents
	}{
		{"30 year 200k at 6%", 20000000, 6, 360, 119910},
		{"30 year 300k at 6%", 30000000, 6, 360, 179865},
		{"1 year 1k at 5%", 100000, 5, 12, 8561},
		{"Zero rate is straight line", 1200000, 0, 12, 100000},
		{"Zero principal", 0, 6, 360, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePayment(tt.principal, money.NewRate(tt.annual).PeriodRate(12), tt.periods)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAmortize_ZeroRateStraightLine(t *testing.T) {
	s, err := Amortize(LoanTerms{Principal: 1200000, AnnualRate: money.NewRate(0), TermPeriods: 12})
	require.NoError(t, err)

	require.Len(t, s.Entries, 12)
	for _, e := range s.Entries {
		assert.Equal(t, money.Cents(100000), e.Payment)
		assert.Equal(t, money.Cents(0), e.Interest)
	}
	assert.Equal(t, money.Cents(0), s.EndingBalance())
	assert.Equal(t, money.Cents(1200000), s.TotalPayments)
	assertScheduleConsistent(t, s)
}

// TestAmortize_Closure checks that with no extra payments the schedule always
// ends at exactly zero and the principal portions sum to the loan amount.
func TestAmortize_Closure(t *testing.T) {
	tests := []struct {
		name      string
		principal money.Cents
		annual    float64
		periods   int
	}{
		{"Mortgage", 20000000, 6, 360},
		{"Odd rate mortgage", 31234567, 6.875, 360},
		{"Car loan", 3500000, 7.49, 60},
		{"Short high rate", 12345, 19.99, 7},
		{"One cent", 1, 3, 12},
		{"Single period", 500000, 12, 1},
		{"Zero rate uneven split", 1000000, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Amortize(LoanTerms{Principal: tt.principal, AnnualRate: money.NewRate(tt.annual), TermPeriods: tt.periods})
			require.NoError(t, err)
			assert.Equal(t, money.Cents(0), s.EndingBalance())
			assert.Equal(t, tt.principal, s.TotalPrincipal)
			assert.LessOrEqual(t, s.Periods, tt.periods)
			assert.False(t, s.Truncated)
			assertScheduleConsistent(t, s)
		})
	}
}

func TestAmortize_KnownMortgage(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360, StartDate: start})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(119910), s.ScheduledPayment)
	assert.Equal(t, 360, s.Periods)
	assert.Equal(t, money.Cents(23167704), s.TotalInterest)
	assert.Equal(t, money.Cents(100000), s.Entries[0].Interest)
	assert.Equal(t, money.Cents(19910), s.Entries[0].Principal)
	require.NotNil(t, s.PayoffDate)
	assert.Equal(t, time.Date(2055, 1, 1, 0, 0, 0, 0, time.UTC), *s.PayoffDate)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), s.Entries[0].Date)
}

func TestAmortize_ExtraPaymentPaysOffInOnePeriod(t *testing.T) {
	s, err := Amortize(LoanTerms{Principal: 100000, AnnualRate: money.NewRate(5), TermPeriods: 12, ExtraPayment: 200000})
	require.NoError(t, err)

	require.Len(t, s.Entries, 1)
	e := s.Entries[0]
	assert.Equal(t, money.Cents(100000), e.Principal)
	assert.Equal(t, money.Cents(417), e.Interest)
	assert.Equal(t, money.Cents(100417), e.Payment)
	assert.Equal(t, money.Cents(0), e.EndingBalance)
}

// TestAmortize_MonotonicExtraPayments verifies that paying more each month
// never increases total interest or the time to payoff.
func TestAmortize_MonotonicExtraPayments(t *testing.T) {
	extras := []money.Cents{0, 1000, 5000, 10000, 25000, 50000, 100000, 20000000}
	prevInterest := money.Cents(1 << 62)
	prevPeriods := 1 << 30
	for _, extra := range extras {
		s, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360, ExtraPayment: extra})
		require.NoError(t, err)
		assert.LessOrEqual(t, int64(s.TotalInterest), int64(prevInterest), "extra %d", extra)
		assert.LessOrEqual(t, s.Periods, prevPeriods, "extra %d", extra)
		assert.Equal(t, money.Cents(0), s.EndingBalance())
		prevInterest, prevPeriods = s.TotalInterest, s.Periods
	}
}

func TestAmortize_LumpSum(t *testing.T) {
	base, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360})
	require.NoError(t, err)
	accelerated, err := Amortize(LoanTerms{
		Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360,
		LumpSum: &LumpSum{Period: 12, Amount: 2000000},
	})
	require.NoError(t, err)

	assert.Equal(t, money.Cents(2000000), accelerated.Entries[11].Extra)
	assert.Equal(t, money.Cents(0), accelerated.Entries[10].Extra)
	assert.Less(t, accelerated.Periods, base.Periods)
	assertScheduleConsistent(t, accelerated)

	cmp := ComparePayoff(base, accelerated)
	assert.Equal(t, base.TotalInterest-accelerated.TotalInterest, cmp.InterestSaved)
	assert.Positive(t, int64(cmp.InterestSaved))
	assert.Equal(t, base.Periods-accelerated.Periods, cmp.PeriodsSaved)
	assert.Equal(t, cmp.PeriodsSaved, cmp.MonthsSaved)
}

func TestAmortize_Biweekly(t *testing.T) {
	start := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	monthly, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360, StartDate: start})
	require.NoError(t, err)
	biweekly, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360, Biweekly: true, StartDate: start})
	require.NoError(t, err)

	assert.Equal(t, 26, biweekly.PeriodsPerYear)
	assert.Equal(t, money.Cents(59955), biweekly.ScheduledPayment)
	assert.Equal(t, money.Cents(46154), biweekly.Entries[0].Interest)
	assert.Equal(t, start.AddDate(0, 0, 14), biweekly.Entries[0].Date)
	assert.Equal(t, start.AddDate(0, 0, 28), biweekly.Entries[1].Date)
	assert.Equal(t, money.Cents(0), biweekly.EndingBalance())
	assertScheduleConsistent(t, biweekly)

	// Thirteen monthly-equivalent payments a year retire the loan years early.
	assert.Less(t, biweekly.MonthsToPayoff(), 310)
	assert.Less(t, int64(biweekly.TotalInterest), int64(monthly.TotalInterest))

	cmp := ComparePayoff(monthly, biweekly)
	assert.Positive(t, cmp.MonthsSaved)
	assert.Positive(t, int64(cmp.InterestSaved))
}

func TestAmortize_MaxPeriodsTruncates(t *testing.T) {
	s, err := Amortize(LoanTerms{Principal: 20000000, AnnualRate: money.NewRate(6), TermPeriods: 360, MaxPeriods: 24})
	require.NoError(t, err)
	assert.Len(t, s.Entries, 24)
	assert.True(t, s.Truncated)
	assert.Nil(t, s.PayoffDate)
	assert.Positive(t, int64(s.EndingBalance()))
}

func TestAmortize_FixedPayment(t *testing.T) {
	s, err := Amortize(LoanTerms{Principal: 1000000, AnnualRate: money.NewRate(12), TermPeriods: 600, Payment: 50000})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(50000), s.ScheduledPayment)
	assert.Equal(t, money.Cents(10000), s.Entries[0].Interest)
	assert.Equal(t, money.Cents(40000), s.Entries[0].Principal)
	assert.Equal(t, money.Cents(0), s.EndingBalance())
	assert.Less(t, s.Periods, 600)
}

func TestAmortize_ZeroPrincipal(t *testing.T) {
	s, err := Amortize(LoanTerms{Principal: 0, AnnualRate: money.NewRate(5), TermPeriods: 12})
	require.NoError(t, err)
	assert.Empty(t, s.Entries)
	assert.Equal(t, money.Cents(0), s.TotalPayments)
	assert.Equal(t, money.Cents(0), s.TotalInterest)
	assert.Equal(t, 0, s.Periods)
}

func TestAmortize_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		terms LoanTerms
		field string
	}{
		{"Zero term", LoanTerms{Principal: 100, TermPeriods: 0}, "term_periods"},
		{"Negative term", LoanTerms{Principal: 100, TermPeriods: -5}, "term_periods"},
		{"Negative principal", LoanTerms{Principal: -1, TermPeriods: 12}, "principal"},
		{"Negative rate", LoanTerms{Principal: 100, AnnualRate: money.NewRate(-1), TermPeriods: 12}, "annual_rate"},
		{"Negative extra", LoanTerms{Principal: 100, TermPeriods: 12, ExtraPayment: -1}, "extra_payment"},
		{"Lump sum period zero", LoanTerms{Principal: 100, TermPeriods: 12, LumpSum: &LumpSum{Period: 0, Amount: 5}}, "lump_sum.period"},
		{"Biweekly on a quarterly loan", LoanTerms{Principal: 100, TermPeriods: 12, PeriodsPerYear: 4, Biweekly: true}, "periods_per_year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Amortize(tt.terms)
			assert.Nil(t, s)
			var invalid *domain.InvalidInputError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestAmortize_Deterministic(t *testing.T) {
	terms := LoanTerms{Principal: 31234567, AnnualRate: money.NewRateFromDecimal(decimal.RequireFromString("6.875")), TermPeriods: 360, ExtraPayment: 12345}
	a, err := Amortize(terms)
	require.NoError(t, err)
	b, err := Amortize(terms)
	require.NoError(t, err)
	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, a.TotalInterest, b.TotalInterest)
}
