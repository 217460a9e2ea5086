package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/rpgo/finplan/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHousehold() Household {
	term := 360
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return Household{
		Assets: []Asset{
			{ID: "brokerage", Value: 5000000, GrowthRate: money.RatePtr(7)},
		},
		Liabilities: []Liability{
			{ID: "mortgage", Balance: 30000000, InterestRate: money.NewRate(6), MinimumPayment: 179865,
				PaymentFrequency: FrequencyMonthly, TermPeriods: &term},
		},
		CashFlows: []CashFlowItem{
			{ID: "salary", Type: CashFlowIncome, Amount: 500000, Frequency: FrequencyMonthly, StartDate: &start},
		},
	}
}

func TestFrequency_PeriodsPerYear(t *testing.T) {
	assert.Equal(t, 52, FrequencyWeekly.PeriodsPerYear())
	assert.Equal(t, 26, FrequencyBiweekly.PeriodsPerYear())
	assert.Equal(t, 24, FrequencySemimonthly.PeriodsPerYear())
	assert.Equal(t, 12, FrequencyMonthly.PeriodsPerYear())
	assert.Equal(t, 4, FrequencyQuarterly.PeriodsPerYear())
	assert.Equal(t, 1, FrequencyAnnually.PeriodsPerYear())
	assert.Equal(t, 0, FrequencyOnce.PeriodsPerYear())
	assert.True(t, FrequencyOnce.Valid())
	assert.False(t, Frequency("fortnightly").Valid())
}

func TestHousehold_Validate(t *testing.T) {
	require.NoError(t, sampleHousehold().Validate())

	testCases := []struct {
		desc   string
		mutate func(h *Household)
		field  string
	}{
		{"negative asset", func(h *Household) { h.Assets[0].Value = -1 }, "assets[brokerage].current_value"},
		{"negative balance", func(h *Household) { h.Liabilities[0].Balance = -1 }, "liabilities[mortgage].current_balance"},
		{"negative interest", func(h *Household) { h.Liabilities[0].InterestRate = money.NewRate(-1) }, "liabilities[mortgage].interest_rate"},
		{"zero term", func(h *Household) { zero := 0; h.Liabilities[0].TermPeriods = &zero }, "liabilities[mortgage].term_periods"},
		{"one-time liability", func(h *Household) { h.Liabilities[0].PaymentFrequency = FrequencyOnce }, "liabilities[mortgage].payment_frequency"},
		{"bad cash flow type", func(h *Household) { h.CashFlows[0].Type = "gift" }, "cash_flows[salary].type"},
		{"end before start", func(h *Household) {
			end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			h.CashFlows[0].EndDate = &end
		}, "cash_flows[salary].end_date"},
		{"duplicate asset", func(h *Household) { h.Assets = append(h.Assets, h.Assets[0]) }, "assets[brokerage].id"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			h := sampleHousehold()
			tc.mutate(&h)
			err := h.Validate()
			require.Error(t, err)
			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestHousehold_CloneIsDeep(t *testing.T) {
	h := sampleHousehold()
	c := h.Clone()

	*c.Assets[0].GrowthRate = money.NewRate(1)
	*c.Liabilities[0].TermPeriods = 12
	*c.CashFlows[0].StartDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "7", h.Assets[0].GrowthRate.String())
	assert.Equal(t, 360, *h.Liabilities[0].TermPeriods)
	assert.Equal(t, 2025, h.CashFlows[0].StartDate.Year())
}

func TestProjectionOptions_Validate(t *testing.T) {
	opts := ProjectionOptions{StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), HorizonYears: 10, Granularity: GranularityYearly}
	require.NoError(t, opts.Validate())

	bad := opts
	bad.HorizonYears = 0
	assert.True(t, IsInvalidInput(bad.Validate()))

	bad = opts
	bad.Granularity = "weekly"
	assert.True(t, IsInvalidInput(bad.Validate()))

	assert.NotEmpty(t, opts.GenerateAssumptions())
}

func TestParseFilingStatus(t *testing.T) {
	s, err := ParseFilingStatus("MFJ")
	require.NoError(t, err)
	assert.Equal(t, FilingMarriedJointly, s)

	_, err = ParseFilingStatus("widowed")
	assert.True(t, IsInvalidInput(err))
}

func TestItemizedDeductions_Total(t *testing.T) {
	d := ItemizedDeductions{MortgageInterest: 100, PropertyTax: 200, StateTax: 300, Charitable: 400}
	assert.Equal(t, money.Cents(1000), d.Total())
}
