package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/finplan/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "NET WORTH SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for _, p := range results.Projections {
		s := p.Summary
		fmt.Fprintf(&buf, "%s: Start=%s End=%s Change=%s (%s) DebtFree=%s\n",
			p.ScenarioName,
			FormatCurrency(s.StartingNetWorth),
			FormatCurrency(s.EndingNetWorth),
			FormatCurrency(s.NetWorthChange),
			FormatPercentage(s.PercentChange),
			FormatDate(s.DebtFreeDate),
		)
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s vs %s)\n", rec.ScenarioName,
			FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange), results.Analysis.BaselineScenario)
	}
	return buf.Bytes(), nil
}
