package calculation

import (
	"testing"
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mortgageInput(expectedReturn float64) domain.MortgageInvestInput {
	return domain.MortgageInvestInput{
		Balance:         20000000,
		AnnualRate:      money.NewRate(6),
		RemainingMonths: 360,
		ExtraMonthly:    20000,
		ExpectedReturn:  money.NewRate(expectedReturn),
		StartDate:       date(2025, time.January, 1),
	}
}

func assertTrackIdentity(t *testing.T, track domain.Track) {
	t.Helper()
	for _, p := range track.Points {
		assert.Equal(t, p.Assets-p.Liabilities, p.Net, "%s year %d", track.Name, p.Year)
	}
}

func TestCompareMortgageVsInvest_HigherReturnFavoursInvesting(t *testing.T) {
	ce := NewCalculationEngine()
	res, err := ce.CompareMortgageVsInvest(mortgageInput(8))
	require.NoError(t, err)

	assert.Equal(t, domain.ComparisonMortgageVsInvest, res.Kind)
	assert.Equal(t, 360, res.HorizonMonths)
	require.Len(t, res.Tracks, 2)
	assert.Equal(t, TrackPayExtra, res.Tracks[0].Name)
	assert.Equal(t, TrackInvest, res.Tracks[1].Name)
	for _, track := range res.Tracks {
		require.Len(t, track.Points, 31)
		assert.Equal(t, date(2025, time.January, 1), track.Points[0].Date)
		assert.Equal(t, money.Cents(-20000000), track.Points[0].Net)
		assert.Equal(t, date(2055, time.January, 1), track.Final().Date)
		assertTrackIdentity(t, track)
	}

	payExtra, invest := res.Tracks[0].Final(), res.Tracks[1].Final()
	assert.Zero(t, payExtra.Liabilities)
	assert.Zero(t, invest.Liabilities)
	assert.Equal(t, payExtra.Net-invest.Net, res.Advantage)
	assert.Negative(t, int64(res.Advantage))
	assert.Equal(t, domain.RecommendInvest, res.Recommendation)
	assert.Nil(t, res.BreakEvenYear)

	assert.Positive(t, int64(res.InterestSaved))
	assert.Positive(t, res.MonthsSaved)
	assert.Equal(t, invest.Interest-payExtra.Interest, res.InterestSaved)

	// Prepaying earns the mortgage rate, so the returns break even near it.
	assert.True(t, res.BreakEvenRate.Bracketed)
	assert.True(t, res.BreakEvenRate.Converged)
	assert.InDelta(t, 6, res.BreakEvenRate.Rate.InexactFloat64(), 0.1)
}

func TestCompareMortgageVsInvest_LowerReturnFavoursPrepaying(t *testing.T) {
	res, err := NewCalculationEngine().CompareMortgageVsInvest(mortgageInput(3))
	require.NoError(t, err)
	assert.Positive(t, int64(res.Advantage))
	assert.Equal(t, domain.RecommendPayExtra, res.Recommendation)
}

func TestCompareMortgageVsInvest_EqualRatesAreNeutral(t *testing.T) {
	res, err := NewCalculationEngine().CompareMortgageVsInvest(mortgageInput(6))
	require.NoError(t, err)
	assert.Less(t, res.Advantage.Abs(), DefaultNeutralThreshold)
	assert.Equal(t, domain.RecommendNeutral, res.Recommendation)
}

func TestCompareMortgageVsInvest_NoExtraPayment(t *testing.T) {
	in := mortgageInput(8)
	in.ExtraMonthly = 0
	res, err := NewCalculationEngine().CompareMortgageVsInvest(in)
	require.NoError(t, err)
	assert.Zero(t, res.Advantage)
	assert.Zero(t, res.InterestSaved)
	assert.Zero(t, res.MonthsSaved)
	assert.Equal(t, domain.RecommendNeutral, res.Recommendation)
	assert.Equal(t, res.Tracks[0].Points, res.Tracks[1].Points)
	assert.True(t, res.BreakEvenRate.Converged)
	assert.Zero(t, res.BreakEvenRate.Iterations)
}

func TestCompareMortgageVsInvest_Horizon(t *testing.T) {
	tests := []struct {
		name    string
		horizon int
		points  int
		last    time.Time
	}{
		{"five years", 60, 6, date(2030, time.January, 1)},
		{"partial final year", 30, 4, date(2027, time.July, 1)},
		{"past payoff", 480, 41, date(2065, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mortgageInput(7)
			in.HorizonMonths = tt.horizon
			res, err := NewCalculationEngine().CompareMortgageVsInvest(in)
			require.NoError(t, err)
			assert.Equal(t, tt.horizon, res.HorizonMonths)
			for _, track := range res.Tracks {
				require.Len(t, track.Points, tt.points)
				assert.Equal(t, tt.last, track.Final().Date)
				assertTrackIdentity(t, track)
			}
		})
	}
}

func TestCompareMortgageVsInvest_Threshold(t *testing.T) {
	ce := NewCalculationEngine()
	ce.NeutralThreshold = 1
	res, err := ce.CompareMortgageVsInvest(mortgageInput(6.5))
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendInvest, res.Recommendation)

	ce.NeutralThreshold = money.Cents(1) << 40
	res, err = ce.CompareMortgageVsInvest(mortgageInput(6.5))
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendNeutral, res.Recommendation)
}

func TestCompareMortgageVsInvest_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.MortgageInvestInput)
		field  string
	}{
		{"negative balance", func(in *domain.MortgageInvestInput) { in.Balance = -1 }, "balance"},
		{"negative rate", func(in *domain.MortgageInvestInput) { in.AnnualRate = money.NewRate(-1) }, "annual_rate"},
		{"zero term", func(in *domain.MortgageInvestInput) { in.RemainingMonths = 0 }, "remaining_months"},
		{"negative extra", func(in *domain.MortgageInvestInput) { in.ExtraMonthly = -5 }, "extra_monthly"},
		{"total loss return", func(in *domain.MortgageInvestInput) { in.ExpectedReturn = money.NewRate(-100) }, "expected_return"},
		{"negative horizon", func(in *domain.MortgageInvestInput) { in.HorizonMonths = -12 }, "horizon_months"},
		{"missing start", func(in *domain.MortgageInvestInput) { in.StartDate = time.Time{} }, "start_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mortgageInput(7)
			tt.mutate(&in)
			_, err := NewCalculationEngine().CompareMortgageVsInvest(in)
			var invalid *domain.InvalidInputError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}
