package calculation

import (
	"github.com/rpgo/finplan/internal/domain"
)

// generateScenarioAnalysis ranks projections by ending net worth and reports
// each one's difference from the baseline. The baseline is the scenario
// flagged as such, else the first. Ties for best go to the earlier scenario.
func (ce *CalculationEngine) generateScenarioAnalysis(projections []domain.Projection) domain.ScenarioAnalysis {
	var analysis domain.ScenarioAnalysis
	if len(projections) == 0 {
		return analysis
	}

	baseline := 0
	for i, p := range projections {
		if p.Baseline {
			baseline = i
			break
		}
	}
	base := projections[baseline]
	analysis.BaselineScenario = base.ScenarioName

	best := 0
	for i, p := range projections {
		if p.Summary.EndingNetWorth > projections[best].Summary.EndingNetWorth {
			best = i
		}
	}
	analysis.BestScenario = projections[best].ScenarioName
	analysis.BestEndingNetWorth = projections[best].Summary.EndingNetWorth

	analysis.Deltas = make([]domain.ScenarioDelta, len(projections))
	for i, p := range projections {
		analysis.Deltas[i] = domain.ScenarioDelta{
			ScenarioName:    p.ScenarioName,
			EndingNetWorth:  p.Summary.EndingNetWorth,
			DeltaVsBaseline: p.Summary.EndingNetWorth - base.Summary.EndingNetWorth,
			InterestDelta:   p.Summary.TotalInterest - base.Summary.TotalInterest,
		}
	}
	return analysis
}
