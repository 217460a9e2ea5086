package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// rateValue is a percentage parsed from the literal YAML text so that values
// such as 6.15 keep their exact decimal digits.
type rateValue struct {
	money.Rate
}

func (r *rateValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a percentage", node.Line)
	}
	rate, err := money.ParseRate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	r.Rate = rate
	return nil
}

func (r *rateValue) ptr() *money.Rate {
	if r == nil {
		return nil
	}
	v := r.Rate
	return &v
}

func (r *rateValue) value() money.Rate {
	if r == nil {
		return money.Rate{}
	}
	return r.Rate
}

// centsValue is a money amount in integer cents. Fractional or non-numeric
// amounts are rejected rather than truncated.
type centsValue int64

func (c *centsValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected an amount in cents", node.Line)
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(node.Value, "_", ""), 10, 64)
	if err != nil {
		return domain.NewInvalidInput(fmt.Sprintf("line %d", node.Line), "amount %q must be whole cents", node.Value)
	}
	*c = centsValue(v)
	return nil
}

// dateValue is a calendar date written as YYYY-MM-DD (RFC3339 also accepted).
type dateValue struct {
	time.Time
}

func (d *dateValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a date", node.Line)
	}
	t, err := dateutil.ParseDate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Time = t
	return nil
}

func (d *dateValue) ptr() *time.Time {
	if d == nil {
		return nil
	}
	v := d.Time
	return &v
}

func (d *dateValue) value() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

type fileConfig struct {
	Projection fileProjection `yaml:"projection"`
	Household  fileHousehold  `yaml:"household"`
	Scenarios  []fileScenario `yaml:"scenarios"`
}

type fileProjection struct {
	StartDate    *dateValue `yaml:"start_date"`
	HorizonYears int        `yaml:"horizon_years"`
	Granularity  string     `yaml:"granularity"`
	SweepAssetID string     `yaml:"sweep_asset_id,omitempty"`
}

type fileHousehold struct {
	Assets      []fileAsset     `yaml:"assets"`
	Liabilities []fileLiability `yaml:"liabilities,omitempty"`
	CashFlows   []fileCashFlow  `yaml:"cash_flows,omitempty"`
}

type fileAsset struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name,omitempty"`
	CurrentValue  centsValue `yaml:"current_value"`
	GrowthRate    *rateValue `yaml:"growth_rate,omitempty"`
	DividendYield *rateValue `yaml:"dividend_yield,omitempty"`
}

type fileLiability struct {
	ID                string     `yaml:"id"`
	Name              string     `yaml:"name,omitempty"`
	OriginalPrincipal centsValue `yaml:"original_principal,omitempty"`
	CurrentBalance    centsValue `yaml:"current_balance"`
	InterestRate      *rateValue `yaml:"interest_rate"`
	MinimumPayment    centsValue `yaml:"minimum_payment,omitempty"`
	PaymentFrequency  string     `yaml:"payment_frequency,omitempty"`
	TermPeriods       *int       `yaml:"term_periods,omitempty"`
	OriginationDate   *dateValue `yaml:"origination_date,omitempty"`
	ExtraPayment      centsValue `yaml:"extra_payment,omitempty"`
}

type fileCashFlow struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name,omitempty"`
	Type       string     `yaml:"type"`
	Amount     centsValue `yaml:"amount"`
	Frequency  string     `yaml:"frequency"`
	GrowthRate *rateValue `yaml:"growth_rate,omitempty"`
	StartDate  *dateValue `yaml:"start_date,omitempty"`
	EndDate    *dateValue `yaml:"end_date,omitempty"`
}

type fileScenario struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name,omitempty"`
	Baseline  bool           `yaml:"baseline,omitempty"`
	Overrides []fileOverride `yaml:"overrides,omitempty"`
}

type fileOverride struct {
	Kind  string    `yaml:"kind"`
	ID    string    `yaml:"id"`
	Field string    `yaml:"field"`
	Value yaml.Node `yaml:"value"`
}

// raw returns the override value for domain.NewOverride: nil for an explicit
// or missing null, otherwise the literal scalar text.
func (o fileOverride) raw() (any, error) {
	switch {
	case o.Value.Kind == 0:
		return nil, nil
	case o.Value.Kind != yaml.ScalarNode:
		return nil, fmt.Errorf("line %d: override value must be a scalar", o.Value.Line)
	case o.Value.Tag == "!!null":
		return nil, nil
	}
	return o.Value.Value, nil
}

// LoadFromFile loads a household, its scenarios and the projection options
// from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse converts a YAML document into a validated configuration.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config, err := ip.convert(file)
	if err != nil {
		return nil, err
	}

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (ip *InputParser) convert(file fileConfig) (*domain.Configuration, error) {
	config := &domain.Configuration{
		Projection: domain.ProjectionOptions{
			StartDate:    file.Projection.StartDate.value(),
			HorizonYears: file.Projection.HorizonYears,
			Granularity:  domain.Granularity(strings.ToLower(file.Projection.Granularity)),
			SweepAssetID: file.Projection.SweepAssetID,
		},
	}
	if config.Projection.StartDate.IsZero() {
		config.Projection.StartDate = calculation.DefaultStartDate()
	}
	if config.Projection.Granularity == "" {
		config.Projection.Granularity = domain.GranularityYearly
	}

	for _, a := range file.Household.Assets {
		config.Household.Assets = append(config.Household.Assets, domain.Asset{
			ID:            a.ID,
			Name:          a.Name,
			Value:         money.Cents(a.CurrentValue),
			GrowthRate:    a.GrowthRate.ptr(),
			DividendYield: a.DividendYield.ptr(),
		})
	}
	for _, l := range file.Household.Liabilities {
		frequency := domain.Frequency(strings.ToLower(l.PaymentFrequency))
		if frequency == "" {
			frequency = domain.FrequencyMonthly
		}
		if l.InterestRate == nil {
			return nil, domain.NewInvalidInput(fmt.Sprintf("liabilities[%s].interest_rate", l.ID), "is required")
		}
		config.Household.Liabilities = append(config.Household.Liabilities, domain.Liability{
			ID:                l.ID,
			Name:              l.Name,
			OriginalPrincipal: money.Cents(l.OriginalPrincipal),
			Balance:           money.Cents(l.CurrentBalance),
			InterestRate:      l.InterestRate.value(),
			MinimumPayment:    money.Cents(l.MinimumPayment),
			PaymentFrequency:  frequency,
			TermPeriods:       l.TermPeriods,
			OriginationDate:   l.OriginationDate.ptr(),
			ExtraPayment:      money.Cents(l.ExtraPayment),
		})
	}
	for _, c := range file.Household.CashFlows {
		config.Household.CashFlows = append(config.Household.CashFlows, domain.CashFlowItem{
			ID:         c.ID,
			Name:       c.Name,
			Type:       domain.CashFlowType(strings.ToLower(c.Type)),
			Amount:     money.Cents(c.Amount),
			Frequency:  domain.Frequency(strings.ToLower(c.Frequency)),
			GrowthRate: c.GrowthRate.ptr(),
			StartDate:  c.StartDate.ptr(),
			EndDate:    c.EndDate.ptr(),
		})
	}

	for i, s := range file.Scenarios {
		scenario := domain.Scenario{ID: s.ID, Name: s.Name, Baseline: s.Baseline}
		if scenario.ID == "" {
			scenario.ID = fmt.Sprintf("scenario-%d", i+1)
		}
		if scenario.Name == "" {
			scenario.Name = scenario.ID
		}
		for j, fo := range s.Overrides {
			kind, err := domain.ParseEntityKind(fo.Kind)
			if err != nil {
				return nil, fmt.Errorf("scenario %q override %d: %w", scenario.Name, j+1, err)
			}
			raw, err := fo.raw()
			if err != nil {
				return nil, fmt.Errorf("scenario %q override %d: %w", scenario.Name, j+1, err)
			}
			override, err := domain.NewOverride(kind, fo.ID, fo.Field, raw)
			if errors.Is(err, domain.ErrUnknownOverrideField) {
				config.IgnoredOverrides = append(config.IgnoredOverrides, domain.IgnoredOverride{
					Scenario: scenario.Name,
					Target:   fmt.Sprintf("%s[%s].%s", kind, fo.ID, fo.Field),
					Reason:   "unknown field",
				})
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("scenario %q override %d: %w", scenario.Name, j+1, err)
			}
			scenario.Overrides = append(scenario.Overrides, override)
		}
		config.Scenarios = append(config.Scenarios, scenario)
	}

	return config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := config.Projection.Validate(); err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	if err := config.Household.Validate(); err != nil {
		return fmt.Errorf("household: %w", err)
	}
	if id := config.Projection.SweepAssetID; id != "" && config.Household.FindAsset(id) < 0 {
		return fmt.Errorf("projection: %w", domain.NewInvalidInput("sweep_asset_id", "no asset with id %q", id))
	}

	ids := make(map[string]bool)
	baselines := 0
	for i, scenario := range config.Scenarios {
		if err := ip.validateScenario(&scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i+1, err)
		}
		if ids[scenario.ID] {
			return fmt.Errorf("scenario %d validation failed: %w", i+1,
				domain.NewInvalidInput("scenarios[].id", "duplicate id %q", scenario.ID))
		}
		ids[scenario.ID] = true
		if scenario.Baseline {
			baselines++
		}
	}
	if baselines > 1 {
		return domain.NewInvalidInput("scenarios[].baseline", "only one scenario can be the baseline, got %d", baselines)
	}
	return nil
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if scenario.ID == "" {
		return domain.NewInvalidInput("scenarios[].id", "is required")
	}
	if scenario.Name == "" {
		return domain.NewInvalidInput(fmt.Sprintf("scenarios[%s].name", scenario.ID), "is required")
	}
	return nil
}

// LoadTaxTables reads replacement bracket tables in the same YAML layout as
// the built-in ones.
func (ip *InputParser) LoadTaxTables(filename string) (*calculation.TaxTables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("tax tables: failed to read file %s: %w", filename, err)
	}
	tables, err := calculation.ParseTaxTables(data)
	if err != nil {
		return nil, fmt.Errorf("tax tables %s: %w", filename, err)
	}
	return tables, nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	origination := time.Date(2021, time.June, 1, 0, 0, 0, 0, time.UTC)
	term := 360
	carTerm := 60
	carOrigination := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	tuitionStart := time.Date(2031, time.September, 1, 0, 0, 0, 0, time.UTC)
	tuitionEnd := time.Date(2035, time.June, 1, 0, 0, 0, 0, time.UTC)

	mustOverride := func(kind domain.EntityKind, id, field string, raw any) domain.Override {
		o, err := domain.NewOverride(kind, id, field, raw)
		if err != nil {
			panic(err)
		}
		return o
	}

	return &domain.Configuration{
		Household: domain.Household{
			Assets: []domain.Asset{
				{ID: "checking", Name: "Checking", Value: 1200000},
				{ID: "brokerage", Name: "Brokerage", Value: 8500000, GrowthRate: money.RatePtr(6.5), DividendYield: money.RatePtr(1.5)},
				{ID: "retirement", Name: "401(k)", Value: 21000000, GrowthRate: money.RatePtr(7)},
				{ID: "home", Name: "Home", Value: 52000000, GrowthRate: money.RatePtr(3)},
				{ID: "crypto", Name: "Crypto", Value: 500000},
			},
			Liabilities: []domain.Liability{
				{
					ID: "mortgage", Name: "Mortgage",
					OriginalPrincipal: 40000000, Balance: 37200000,
					InterestRate: money.NewRate(3.25), PaymentFrequency: domain.FrequencyMonthly,
					TermPeriods: &term, OriginationDate: &origination,
				},
				{
					ID: "car", Name: "Car loan",
					OriginalPrincipal: 3200000, Balance: 1850000,
					InterestRate: money.NewRate(5.9), PaymentFrequency: domain.FrequencyMonthly,
					TermPeriods: &carTerm, OriginationDate: &carOrigination,
				},
				{
					ID: "card", Name: "Credit card",
					Balance: 240000, InterestRate: money.NewRate(22.9),
					MinimumPayment: 10000, PaymentFrequency: domain.FrequencyMonthly,
				},
			},
			CashFlows: []domain.CashFlowItem{
				{ID: "salary", Name: "Salary", Type: domain.CashFlowIncome, Amount: 420000, Frequency: domain.FrequencyBiweekly, GrowthRate: money.RatePtr(3)},
				{ID: "living", Name: "Living expenses", Type: domain.CashFlowExpense, Amount: 450000, Frequency: domain.FrequencyMonthly, GrowthRate: money.RatePtr(2.5)},
				{ID: "insurance", Name: "Insurance", Type: domain.CashFlowExpense, Amount: 180000, Frequency: domain.FrequencyAnnually, GrowthRate: money.RatePtr(4)},
				{ID: "tuition", Name: "Tuition", Type: domain.CashFlowExpense, Amount: 1500000, Frequency: domain.FrequencyAnnually, StartDate: &tuitionStart, EndDate: &tuitionEnd},
			},
		},
		Scenarios: []domain.Scenario{
			{ID: "current", Name: "Current plan", Baseline: true},
			{
				ID:   "prepay",
				Name: "Prepay mortgage",
				Overrides: []domain.Override{
					mustOverride(domain.KindLiability, "mortgage", "extra_payment", 50000),
				},
			},
			{
				ID:   "bear",
				Name: "Bear market",
				Overrides: []domain.Override{
					mustOverride(domain.KindAsset, "brokerage", "growth_rate", 2),
					mustOverride(domain.KindAsset, "retirement", "growth_rate", 3),
				},
			},
		},
		Projection: domain.ProjectionOptions{
			StartDate:    start,
			HorizonYears: 30,
			Granularity:  domain.GranularityYearly,
			SweepAssetID: "checking",
		},
	}
}
