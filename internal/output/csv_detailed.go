package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// CSVDetailedExporter provides raw per-period projection detail per scenario.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Period", "Date", "TotalAssets", "TotalLiabilities", "NetWorth",
		"Income", "Dividends", "Expenses", "DebtPaid", "InterestPaid", "NetCashFlow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range results.Projections {
		for _, s := range p.Snapshots {
			row := []string{
				p.ScenarioName,
				intToString(s.Period),
				dateutil.Format(s.Date),
				plain(s.TotalAssets),
				plain(s.TotalLiabilities),
				plain(s.NetWorth),
				plain(s.Income),
				plain(s.Dividends),
				plain(s.Expenses),
				plain(s.DebtPaid),
				plain(s.InterestPaid),
				plain(s.NetCashFlow),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
