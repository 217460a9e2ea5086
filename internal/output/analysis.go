package output

import (
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	EndingNetWorth   money.Cents
	NetWorthChange   money.Cents
	PercentageChange decimal.Decimal
}

// AnalyzeScenarios reports the scenario with the highest ending net worth and
// how far it is ahead of the baseline.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	a := results.Analysis
	if a.BestScenario == "" {
		return Recommendation{}
	}
	var baseline money.Cents
	for _, d := range a.Deltas {
		if d.ScenarioName == a.BaselineScenario {
			baseline = d.EndingNetWorth
			break
		}
	}
	delta := a.BestEndingNetWorth - baseline
	pct := decimal.Zero
	if baseline != 0 {
		pct = delta.Decimal().Div(baseline.Abs().Decimal()).Mul(decimalHundred)
	}
	return Recommendation{
		ScenarioName:     a.BestScenario,
		EndingNetWorth:   a.BestEndingNetWorth,
		NetWorthChange:   delta,
		PercentageChange: pct,
	}
}
