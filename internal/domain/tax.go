package domain

import (
	"strings"

	"github.com/rpgo/finplan/pkg/money"
)

// FilingStatus is a federal income tax filing status.
type FilingStatus string

const (
	FilingSingle            FilingStatus = "single"
	FilingMarriedJointly    FilingStatus = "married_filing_jointly"
	FilingMarriedSeparately FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold   FilingStatus = "head_of_household"
)

// FilingStatuses lists every supported status in display order.
var FilingStatuses = []FilingStatus{FilingSingle, FilingMarriedJointly, FilingMarriedSeparately, FilingHeadOfHousehold}

// ParseFilingStatus accepts the canonical names and the common abbreviations.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "s":
		return FilingSingle, nil
	case "married_filing_jointly", "mfj", "joint":
		return FilingMarriedJointly, nil
	case "married_filing_separately", "mfs":
		return FilingMarriedSeparately, nil
	case "head_of_household", "hoh":
		return FilingHeadOfHousehold, nil
	}
	return "", NewInvalidInput("filing_status", "unknown filing status %q", s)
}

// TaxBracket is one band of a progressive schedule. Max is nil for the open
// top bracket.
type TaxBracket struct {
	Min  money.Cents  `json:"min"`
	Max  *money.Cents `json:"max,omitempty"`
	Rate money.Rate   `json:"rate"`
}

// TaxTable holds one tax year's standard deductions and bracket schedules.
type TaxTable struct {
	Year               int                           `json:"year"`
	StandardDeductions map[FilingStatus]money.Cents  `json:"standard_deductions"`
	Brackets           map[FilingStatus][]TaxBracket `json:"brackets"`
}

// ItemizedDeductions are the deduction components the engine knows about.
type ItemizedDeductions struct {
	MortgageInterest money.Cents `json:"mortgage_interest"`
	PropertyTax      money.Cents `json:"property_tax"`
	StateTax         money.Cents `json:"state_tax"`
	Charitable       money.Cents `json:"charitable"`
}

// Total sums the itemized components.
func (d ItemizedDeductions) Total() money.Cents {
	return money.Sum(d.MortgageInterest, d.PropertyTax, d.StateTax, d.Charitable)
}

// TaxInput is a single federal income tax computation request.
type TaxInput struct {
	GrossIncome  money.Cents         `json:"gross_income"`
	FilingStatus FilingStatus        `json:"filing_status"`
	Year         int                 `json:"year"`
	Itemized     *ItemizedDeductions `json:"itemized,omitempty"`
}

// DeductionType records which deduction the engine applied.
type DeductionType string

const (
	DeductionStandard DeductionType = "standard"
	DeductionItemized DeductionType = "itemized"
)

// BracketTax is the tax owed within one bracket.
type BracketTax struct {
	Min           money.Cents  `json:"min"`
	Max           *money.Cents `json:"max,omitempty"`
	Rate          money.Rate   `json:"rate"`
	TaxableAmount money.Cents  `json:"taxable_amount"`
	Tax           money.Cents  `json:"tax"`
}

// TaxResult is the outcome of a tax computation.
type TaxResult struct {
	RequestedYear     int           `json:"requested_year"`
	TableYear         int           `json:"table_year"`
	FellBack          bool          `json:"fell_back"`
	FilingStatus      FilingStatus  `json:"filing_status"`
	GrossIncome       money.Cents   `json:"gross_income"`
	StandardDeduction money.Cents   `json:"standard_deduction"`
	ItemizedTotal     money.Cents   `json:"itemized_total"`
	DeductionType     DeductionType `json:"deduction_type"`
	Deduction         money.Cents   `json:"deduction"`
	TaxableIncome     money.Cents   `json:"taxable_income"`
	Brackets          []BracketTax  `json:"brackets"`
	TotalTax          money.Cents   `json:"total_tax"`
	EffectiveRate     money.Rate    `json:"effective_rate"`
	MarginalRate      money.Rate    `json:"marginal_rate"`
}
