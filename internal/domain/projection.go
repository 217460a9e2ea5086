package domain

import (
	"fmt"
	"time"

	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// Snapshot is the household position at one period boundary. Period 0 is the
// current state.
type Snapshot struct {
	Period           int         `json:"period"`
	Date             time.Time   `json:"date"`
	TotalAssets      money.Cents `json:"total_assets"`
	TotalLiabilities money.Cents `json:"total_liabilities"`
	NetWorth         money.Cents `json:"net_worth"`

	// Flows over the window ending at Date. All zero for period 0.
	NetCashFlow  money.Cents `json:"net_cash_flow"`
	Income       money.Cents `json:"income"`
	Dividends    money.Cents `json:"dividends"`
	Expenses     money.Cents `json:"expenses"`
	DebtPaid     money.Cents `json:"debt_paid"`
	InterestPaid money.Cents `json:"interest_paid"`

	AssetBalances     map[string]money.Cents `json:"asset_balances,omitempty"`
	LiabilityBalances map[string]money.Cents `json:"liability_balances,omitempty"`
}

// ProjectionSummary aggregates a projection over its horizon.
type ProjectionSummary struct {
	StartingNetWorth money.Cents     `json:"starting_net_worth"`
	EndingNetWorth   money.Cents     `json:"ending_net_worth"`
	NetWorthChange   money.Cents     `json:"net_worth_change"`
	PercentChange    decimal.Decimal `json:"percent_change"`
	TotalIncome      money.Cents     `json:"total_income"`
	TotalDividends   money.Cents     `json:"total_dividends"`
	TotalExpenses    money.Cents     `json:"total_expenses"`
	TotalDebtPaid    money.Cents     `json:"total_debt_paid"`
	TotalInterest    money.Cents     `json:"total_interest_paid"`

	// DebtFreeDate is the first snapshot date with no liabilities remaining,
	// nil if debt remains at the horizon.
	DebtFreeDate *time.Time `json:"debt_free_date,omitempty"`
}

// Projection is the result of projecting a household under one scenario.
type Projection struct {
	ScenarioID   string            `json:"scenario_id,omitempty"`
	ScenarioName string            `json:"scenario_name"`
	Baseline     bool              `json:"baseline"`
	Options      ProjectionOptions `json:"options"`
	Snapshots    []Snapshot        `json:"snapshots"`
	Summary      ProjectionSummary `json:"summary"`
}

// Final returns the last snapshot of the projection.
func (p *Projection) Final() Snapshot {
	if len(p.Snapshots) == 0 {
		return Snapshot{}
	}
	return p.Snapshots[len(p.Snapshots)-1]
}

// ScenarioDelta compares one scenario's outcome with the baseline scenario.
type ScenarioDelta struct {
	ScenarioName    string      `json:"scenario_name"`
	EndingNetWorth  money.Cents `json:"ending_net_worth"`
	DeltaVsBaseline money.Cents `json:"delta_vs_baseline"`
	InterestDelta   money.Cents `json:"interest_delta"`
}

// ScenarioAnalysis ranks the scenarios of a batch.
type ScenarioAnalysis struct {
	BaselineScenario   string          `json:"baseline_scenario"`
	BestScenario       string          `json:"best_scenario"`
	BestEndingNetWorth money.Cents     `json:"best_ending_net_worth"`
	Deltas             []ScenarioDelta `json:"deltas"`
}

// ScenarioComparison is the result of projecting every scenario of a
// configuration, in input order.
type ScenarioComparison struct {
	Projections      []Projection      `json:"projections"`
	Analysis         ScenarioAnalysis  `json:"analysis"`
	IgnoredOverrides []IgnoredOverride `json:"ignored_overrides,omitempty"`
	Assumptions      []string          `json:"assumptions"`
}

// Configuration is the complete input for a projection run.
type Configuration struct {
	Household        Household         `json:"household"`
	Scenarios        []Scenario        `json:"scenarios"`
	Projection       ProjectionOptions `json:"projection"`
	IgnoredOverrides []IgnoredOverride `json:"ignored_overrides,omitempty"`
}

// GenerateAssumptions lists the modelling assumptions behind a projection run.
func (o ProjectionOptions) GenerateAssumptions() []string {
	step := "yearly"
	if o.Granularity == GranularityMonthly {
		step = "monthly"
	}
	out := []string{
		fmt.Sprintf("Horizon: %d years of %s snapshots starting %s", o.HorizonYears, step, o.StartDate.Format("2006-01-02")),
		"Assets without a growth rate are held flat",
		"Dividends are paid out as income and not reinvested",
		"Cash flows grow once a year by their own rate",
		"Liabilities follow their amortization schedule at their own payment frequency",
	}
	if o.SweepAssetID != "" {
		out = append(out, fmt.Sprintf("Net cash flow is swept into asset %q each period", o.SweepAssetID))
	} else {
		out = append(out, "Net cash flow is reported but not accumulated into any asset")
	}
	return out
}
