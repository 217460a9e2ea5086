package domain

import (
	"fmt"
	"time"

	"github.com/rpgo/finplan/pkg/money"
)

// Frequency is how often a cash flow occurs or a liability is paid.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyBiweekly    Frequency = "biweekly"
	FrequencySemimonthly Frequency = "semimonthly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencyAnnually    Frequency = "annually"
	FrequencyOnce        Frequency = "once"
)

// PeriodsPerYear returns the number of occurrences per year (0 for once).
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 26
	case FrequencySemimonthly:
		return 24
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencyAnnually:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyOnce || f.PeriodsPerYear() > 0
}

// CashFlowType distinguishes money coming in from money going out.
type CashFlowType string

const (
	CashFlowIncome  CashFlowType = "income"
	CashFlowExpense CashFlowType = "expense"
)

// Granularity selects the snapshot step of a projection.
type Granularity string

const (
	GranularityYearly  Granularity = "yearly"
	GranularityMonthly Granularity = "monthly"
)

// PeriodsPerYear returns 1 for yearly and 12 for monthly snapshots.
func (g Granularity) PeriodsPerYear() int {
	switch g {
	case GranularityYearly:
		return 1
	case GranularityMonthly:
		return 12
	default:
		return 0
	}
}

// Asset is anything the household owns that has a market value.
type Asset struct {
	ID    string      `json:"id"`
	Name  string      `json:"name,omitempty"`
	Value money.Cents `json:"current_value"`

	// GrowthRate is the expected annual appreciation in percent. A nil rate
	// means no deterministic growth is assumed and the value is held flat.
	GrowthRate *money.Rate `json:"growth_rate"`

	// DividendYield is an annual percentage paid out as income.
	DividendYield *money.Rate `json:"dividend_yield,omitempty"`
}

// Liability is a debt that is paid down on a schedule.
type Liability struct {
	ID                string      `json:"id"`
	Name              string      `json:"name,omitempty"`
	OriginalPrincipal money.Cents `json:"original_principal"`
	Balance           money.Cents `json:"current_balance"`
	InterestRate      money.Rate  `json:"interest_rate"`
	MinimumPayment    money.Cents `json:"minimum_payment"`
	PaymentFrequency  Frequency   `json:"payment_frequency"`
	TermPeriods       *int        `json:"term_periods,omitempty"`
	OriginationDate   *time.Time  `json:"origination_date,omitempty"`
	ExtraPayment      money.Cents `json:"extra_payment,omitempty"`
}

// CashFlowItem is a recurring (or one-off) income or expense.
type CashFlowItem struct {
	ID         string       `json:"id"`
	Name       string       `json:"name,omitempty"`
	Type       CashFlowType `json:"type"`
	Amount     money.Cents  `json:"amount"`
	Frequency  Frequency    `json:"frequency"`
	GrowthRate *money.Rate  `json:"growth_rate,omitempty"`
	StartDate  *time.Time   `json:"start_date,omitempty"`
	EndDate    *time.Time   `json:"end_date,omitempty"`
}

// Household is the complete entity state handed to the projection engine.
type Household struct {
	Assets      []Asset        `json:"assets"`
	Liabilities []Liability    `json:"liabilities"`
	CashFlows   []CashFlowItem `json:"cash_flows"`
}

// ProjectionOptions controls the horizon and step of a projection.
type ProjectionOptions struct {
	StartDate    time.Time   `json:"start_date"`
	HorizonYears int         `json:"horizon_years"`
	Granularity  Granularity `json:"granularity"`

	// SweepAssetID, when set, names the asset that receives each period's net
	// cash flow.
	SweepAssetID string `json:"sweep_asset_id,omitempty"`
}

// Validate checks the options for values the engine cannot project with.
func (o ProjectionOptions) Validate() error {
	if o.HorizonYears <= 0 {
		return NewInvalidInput("horizon_years", "must be a positive integer, got %d", o.HorizonYears)
	}
	if o.Granularity.PeriodsPerYear() == 0 {
		return NewInvalidInput("granularity", "must be 'yearly' or 'monthly', got %q", o.Granularity)
	}
	if o.StartDate.IsZero() {
		return NewInvalidInput("start_date", "is required")
	}
	return nil
}

// Validate checks an asset's fields.
func (a Asset) Validate() error {
	field := fmt.Sprintf("assets[%s]", a.ID)
	if a.ID == "" {
		return NewInvalidInput("assets[].id", "is required")
	}
	if a.Value < 0 {
		return NewInvalidInput(field+".current_value", "cannot be negative")
	}
	if a.DividendYield != nil && a.DividendYield.IsNegative() {
		return NewInvalidInput(field+".dividend_yield", "cannot be negative")
	}
	if a.GrowthRate != nil && a.GrowthRate.LessThanOrEqual(money.NewRate(-100).Decimal) {
		return NewInvalidInput(field+".growth_rate", "must be greater than -100")
	}
	return nil
}

// Validate checks a liability's fields.
func (l Liability) Validate() error {
	field := fmt.Sprintf("liabilities[%s]", l.ID)
	if l.ID == "" {
		return NewInvalidInput("liabilities[].id", "is required")
	}
	if l.Balance < 0 {
		return NewInvalidInput(field+".current_balance", "cannot be negative")
	}
	if l.OriginalPrincipal < 0 {
		return NewInvalidInput(field+".original_principal", "cannot be negative")
	}
	if l.InterestRate.IsNegative() {
		return NewInvalidInput(field+".interest_rate", "cannot be negative")
	}
	if l.MinimumPayment < 0 {
		return NewInvalidInput(field+".minimum_payment", "cannot be negative")
	}
	if l.ExtraPayment < 0 {
		return NewInvalidInput(field+".extra_payment", "cannot be negative")
	}
	if l.PaymentFrequency.PeriodsPerYear() == 0 {
		return NewInvalidInput(field+".payment_frequency", "must be a recurring frequency, got %q", l.PaymentFrequency)
	}
	if l.TermPeriods != nil && *l.TermPeriods <= 0 {
		return NewInvalidInput(field+".term_periods", "must be positive, got %d", *l.TermPeriods)
	}
	return nil
}

// Validate checks a cash flow's fields.
func (c CashFlowItem) Validate() error {
	field := fmt.Sprintf("cash_flows[%s]", c.ID)
	if c.ID == "" {
		return NewInvalidInput("cash_flows[].id", "is required")
	}
	if c.Type != CashFlowIncome && c.Type != CashFlowExpense {
		return NewInvalidInput(field+".type", "must be 'income' or 'expense', got %q", c.Type)
	}
	if c.Amount < 0 {
		return NewInvalidInput(field+".amount", "cannot be negative")
	}
	if !c.Frequency.Valid() {
		return NewInvalidInput(field+".frequency", "unknown frequency %q", c.Frequency)
	}
	if c.Frequency == FrequencyOnce && c.StartDate == nil {
		return NewInvalidInput(field+".start_date", "is required for one-time cash flows")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return NewInvalidInput(field+".end_date", "is before start_date")
	}
	return nil
}

// Validate checks every entity and rejects duplicate ids within a kind.
func (h Household) Validate() error {
	seen := make(map[string]bool)
	for _, a := range h.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
		if seen[a.ID] {
			return NewInvalidInput(fmt.Sprintf("assets[%s].id", a.ID), "duplicate id")
		}
		seen[a.ID] = true
	}
	seen = make(map[string]bool)
	for _, l := range h.Liabilities {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return NewInvalidInput(fmt.Sprintf("liabilities[%s].id", l.ID), "duplicate id")
		}
		seen[l.ID] = true
	}
	seen = make(map[string]bool)
	for _, c := range h.CashFlows {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.ID] {
			return NewInvalidInput(fmt.Sprintf("cash_flows[%s].id", c.ID), "duplicate id")
		}
		seen[c.ID] = true
	}
	return nil
}

// FindAsset returns the index of the asset with the given id, or -1.
func (h Household) FindAsset(id string) int {
	for i := range h.Assets {
		if h.Assets[i].ID == id {
			return i
		}
	}
	return -1
}

// FindLiability returns the index of the liability with the given id, or -1.
func (h Household) FindLiability(id string) int {
	for i := range h.Liabilities {
		if h.Liabilities[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCashFlow returns the index of the cash flow with the given id, or -1.
func (h Household) FindCashFlow(id string) int {
	for i := range h.CashFlows {
		if h.CashFlows[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so overrides can be applied without touching the
// caller's entities.
func (h Household) Clone() Household {
	out := Household{
		Assets:      make([]Asset, len(h.Assets)),
		Liabilities: make([]Liability, len(h.Liabilities)),
		CashFlows:   make([]CashFlowItem, len(h.CashFlows)),
	}
	for i, a := range h.Assets {
		a.GrowthRate = cloneRate(a.GrowthRate)
		a.DividendYield = cloneRate(a.DividendYield)
		out.Assets[i] = a
	}
	for i, l := range h.Liabilities {
		if l.TermPeriods != nil {
			n := *l.TermPeriods
			l.TermPeriods = &n
		}
		l.OriginationDate = cloneTime(l.OriginationDate)
		out.Liabilities[i] = l
	}
	for i, c := range h.CashFlows {
		c.GrowthRate = cloneRate(c.GrowthRate)
		c.StartDate = cloneTime(c.StartDate)
		c.EndDate = cloneTime(c.EndDate)
		out.CashFlows[i] = c
	}
	return out
}

func cloneRate(r *money.Rate) *money.Rate {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
