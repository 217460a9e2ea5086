package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/finplan/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Baseline", "StartingNetWorth", "EndingNetWorth", "NetWorthChange", "PercentChange",
		"TotalIncome", "TotalDividends", "TotalExpenses", "TotalDebtPaid", "TotalInterest", "DebtFreeDate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range results.Projections {
		s := p.Summary
		row := []string{
			p.ScenarioName,
			boolToString(p.Baseline),
			plain(s.StartingNetWorth),
			plain(s.EndingNetWorth),
			plain(s.NetWorthChange),
			s.PercentChange.StringFixed(2),
			plain(s.TotalIncome),
			plain(s.TotalDividends),
			plain(s.TotalExpenses),
			plain(s.TotalDebtPaid),
			plain(s.TotalInterest),
			FormatDate(s.DebtFreeDate),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
