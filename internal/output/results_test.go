package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedule(t *testing.T) *domain.AmortizationSchedule {
	t.Helper()
	s, err := calculation.Amortize(calculation.LoanTerms{
		Principal:   120000,
		AnnualRate:  money.NewRate(0),
		TermPeriods: 12,
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return s
}

func TestFormatSchedule(t *testing.T) {
	s := testSchedule(t)

	console, err := FormatSchedule(s, "console")
	require.NoError(t, err)
	assert.Contains(t, string(console), "AMORTIZATION SCHEDULE")
	assert.Contains(t, string(console), "$100.00")
	assert.Contains(t, string(console), "2025-12-01")

	lite, err := FormatSchedule(s, "console-lite")
	require.NoError(t, err)
	assert.NotContains(t, string(lite), "2025-12-01", "the lite view omits the table")

	csvOut, err := FormatSchedule(s, "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Period,Date,Beginning,Payment,Principal,Interest,Extra,Ending", lines[0])
	assert.Equal(t, "12,2026-01-01,100.00,100.00,100.00,0.00,0.00,0.00", lines[12])

	jsonOut, err := FormatSchedule(s, "json")
	require.NoError(t, err)
	var decoded domain.AmortizationSchedule
	require.NoError(t, json.Unmarshal(jsonOut, &decoded))
	assert.Equal(t, s.TotalPayments, decoded.TotalPayments)

	md, err := FormatSchedule(s, "markdown")
	require.NoError(t, err)
	assert.Contains(t, string(md), "- **Scheduled payment:** $100.00")

	_, err = FormatSchedule(s, "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatTax(t *testing.T) {
	top := money.Cents(1000000)
	r := &domain.TaxResult{
		RequestedYear: 2031, TableYear: 2025, FellBack: true,
		FilingStatus: domain.FilingSingle, GrossIncome: 3000000,
		Deduction: 1500000, DeductionType: domain.DeductionStandard, TaxableIncome: 1500000,
		Brackets: []domain.BracketTax{
			{Min: 0, Max: &top, Rate: money.NewRate(10), TaxableAmount: 1000000, Tax: 100000},
			{Min: top, Rate: money.NewRate(12), TaxableAmount: 500000, Tax: 60000},
		},
		TotalTax: 160000, EffectiveRate: money.NewRateFromDecimal(decimal.RequireFromString("5.33")), MarginalRate: money.NewRate(12),
	}

	console, err := FormatTax(r, "console")
	require.NoError(t, err)
	assert.Contains(t, string(console), "2025 (no table for 2031)")
	assert.Contains(t, string(console), "and up")

	csvOut, err := FormatTax(r, "csv")
	require.NoError(t, err)
	assert.Equal(t, "From,To,Rate,Taxed amount,Tax\n0.00,10000.00,10,10000.00,1000.00\n10000.00,,12,5000.00,600.00\n", string(csvOut))

	html, err := FormatTax(r, "html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Federal Income Tax</title>")
}

func TestFormatComparison(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &domain.ComparisonResult{
		Kind:          domain.ComparisonMortgageVsInvest,
		HorizonMonths: 12,
		Tracks: []domain.Track{
			{Name: "pay_extra", Points: []domain.TrackPoint{
				{Year: 0, Date: start, Liabilities: 1000000, Net: -1000000},
				{Year: 1, Date: start.AddDate(1, 0, 0), Assets: 10000, Liabilities: 900000, Net: -890000},
			}},
			{Name: "invest", Points: []domain.TrackPoint{
				{Year: 0, Date: start, Liabilities: 1000000, Net: -1000000},
				{Year: 1, Date: start.AddDate(1, 0, 0), Assets: 60000, Liabilities: 950000, Net: -890000},
			}},
		},
		Recommendation: domain.RecommendNeutral,
		BreakEvenRate:  domain.BreakEvenRate{Low: money.NewRate(0), High: money.NewRate(30)},
		InterestSaved:  1234,
		MonthsSaved:    3,
	}

	console, err := FormatComparison(r, "console")
	require.NoError(t, err)
	content := string(console)
	assert.Contains(t, content, "MORTGAGE VS INVEST")
	assert.Contains(t, content, "none between 0.00% and 30.00%")
	assert.Contains(t, content, "no crossover within the horizon")
	assert.Contains(t, content, "Months saved:")

	csvOut, err := FormatComparison(r, "detailed-csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvOut)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Year,Date,pay_extra assets,pay_extra liabilities,pay_extra net,invest assets,invest liabilities,invest net", lines[0])
	assert.Equal(t, "1,2026-01-01,100.00,9000.00,-8900.00,600.00,9500.00,-8900.00", lines[2])

	r.Kind = domain.ComparisonRentVsBuy
	r.RentBuy = &domain.RentBuyTotals{UpfrontCash: 5000000}
	r.BreakEvenYear = &domain.Crossover{YearIndex: 4, Year: 2028, Month: 7}
	md, err := FormatComparison(r, "markdown")
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Rent vs Buy")
	assert.Contains(t, string(md), "- **Upfront cash:** $50,000.00")
	assert.Contains(t, string(md), "year 4 (2028-07)")
}
