package domain

import (
	"time"

	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// ComparisonKind identifies which comparator produced a result.
type ComparisonKind string

const (
	ComparisonMortgageVsInvest ComparisonKind = "mortgage_vs_invest"
	ComparisonRentVsBuy        ComparisonKind = "rent_vs_buy"
)

// Recommendation is the strategy a comparator favours.
type Recommendation string

const (
	RecommendPayExtra Recommendation = "pay_extra"
	RecommendInvest   Recommendation = "invest"
	RecommendBuy      Recommendation = "buy"
	RecommendRent     Recommendation = "rent"
	RecommendNeutral  Recommendation = "neutral"
)

// TrackPoint is a strategy's position at the end of one comparison year.
// Net is always Assets minus Liabilities.
type TrackPoint struct {
	Year        int         `json:"year"`
	Date        time.Time   `json:"date"`
	Assets      money.Cents `json:"assets"`
	Liabilities money.Cents `json:"liabilities"`
	Net         money.Cents `json:"net"`
	Outlay      money.Cents `json:"cumulative_outlay"`
	Interest    money.Cents `json:"cumulative_interest"`
}

// Track is one strategy simulated over the shared horizon.
type Track struct {
	Name   string       `json:"name"`
	Points []TrackPoint `json:"points"`
}

// Final returns the last point of the track.
func (t Track) Final() TrackPoint {
	if len(t.Points) == 0 {
		return TrackPoint{}
	}
	return t.Points[len(t.Points)-1]
}

// Crossover is the interpolated moment one track's net position overtakes the
// other's.
type Crossover struct {
	// YearIndex is the comparison year (1-based) in which the crossover falls.
	YearIndex int `json:"year_index"`

	// Fraction (0..1) of that year elapsed at the crossover.
	Fraction decimal.Decimal `json:"fraction_of_year"`

	// CalendarYear is the fractional calendar year, e.g. 2031.25.
	CalendarYear float64 `json:"calendar_year"`

	Month int `json:"break_even_month"`
	Year  int `json:"break_even_year"`
}

// BreakEvenRate is the outcome of a bounded bisection search.
type BreakEvenRate struct {
	Rate       money.Rate  `json:"rate"`
	Converged  bool        `json:"converged"`
	Bracketed  bool        `json:"bracketed"`
	Iterations int         `json:"iterations"`
	Residual   money.Cents `json:"residual"`
	Low        money.Rate  `json:"search_low"`
	High       money.Rate  `json:"search_high"`
}

// ComparisonResult holds the parallel tracks of a comparator and the derived
// summary. Advantage is the first track's final net minus the second's.
type ComparisonResult struct {
	Kind           ComparisonKind `json:"kind"`
	HorizonMonths  int            `json:"horizon_months"`
	Tracks         []Track        `json:"tracks"`
	Advantage      money.Cents    `json:"advantage"`
	Recommendation Recommendation `json:"recommendation"`
	BreakEvenYear  *Crossover     `json:"break_even_year,omitempty"`
	BreakEvenRate  BreakEvenRate  `json:"break_even_rate"`

	InterestSaved money.Cents `json:"interest_saved,omitempty"`
	MonthsSaved   int         `json:"months_saved,omitempty"`

	RentBuy *RentBuyTotals `json:"rent_buy,omitempty"`
}

// MortgageInvestInput describes a mortgage and an extra monthly amount that
// could either prepay it or be invested.
type MortgageInvestInput struct {
	Balance         money.Cents `json:"balance"`
	AnnualRate      money.Rate  `json:"annual_rate"`
	RemainingMonths int         `json:"remaining_months"`
	ExtraMonthly    money.Cents `json:"extra_monthly"`
	ExpectedReturn  money.Rate  `json:"expected_return"`

	// HorizonMonths defaults to RemainingMonths when zero.
	HorizonMonths int       `json:"horizon_months,omitempty"`
	StartDate     time.Time `json:"start_date"`
}

// RentBuyInput describes a home purchase and the rental alternative.
type RentBuyInput struct {
	HomePrice          money.Cents `json:"home_price"`
	DownPayment        money.Cents `json:"down_payment"`
	ClosingCostPercent money.Rate  `json:"closing_cost_percent"`
	SellingCostPercent money.Rate  `json:"selling_cost_percent"`
	MortgageRate       money.Rate  `json:"mortgage_rate"`
	MortgageTermMonths int         `json:"mortgage_term_months"`
	PropertyTaxPercent money.Rate  `json:"property_tax_percent"`
	MaintenancePercent money.Rate  `json:"maintenance_percent"`
	InsuranceAnnual    money.Cents `json:"insurance_annual"`
	HOAMonthly         money.Cents `json:"hoa_monthly"`
	Appreciation       money.Rate  `json:"appreciation"`

	MonthlyRent            money.Cents `json:"monthly_rent"`
	RentIncrease           money.Rate  `json:"rent_increase"`
	RentersInsuranceAnnual money.Cents `json:"renters_insurance_annual"`

	InvestmentReturn money.Rate `json:"investment_return"`
	HorizonYears     int        `json:"horizon_years"`
	StartDate        time.Time  `json:"start_date"`

	// Tax, when set, credits the buyer with the yearly saving from itemizing
	// mortgage interest and property tax.
	Tax *TaxProfile `json:"tax,omitempty"`
}

// TaxProfile is the household tax situation used by the rent-vs-buy tax credit.
type TaxProfile struct {
	FilingStatus FilingStatus `json:"filing_status"`
	GrossIncome  money.Cents  `json:"gross_income"`
	Year         int          `json:"year"`
	StateTax     money.Cents  `json:"state_tax"`
	Charitable   money.Cents  `json:"charitable"`
}

// RentBuyTotals summarizes the money spent on each side of a rent-vs-buy run.
type RentBuyTotals struct {
	UpfrontCash        money.Cents `json:"upfront_cash"`
	TotalRent          money.Cents `json:"total_rent"`
	TotalOwnershipCost money.Cents `json:"total_ownership_cost"`
	TotalInterest      money.Cents `json:"total_interest"`
	TaxSavings         money.Cents `json:"tax_savings"`
	FinalHomeValue     money.Cents `json:"final_home_value"`
	SellingCosts       money.Cents `json:"selling_costs"`
}
