package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// MarkdownFormatter renders the scenario comparison as a GitHub-flavoured
// markdown document. The HTML report and the terminal renderer both start
// from this document.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# Net Worth Projection")
	fmt.Fprintln(&buf)

	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" {
		fmt.Fprintf(&buf, "**Best scenario:** %s, ending at %s (%s / %s vs %s).\n\n",
			mdEscape(rec.ScenarioName), FormatCurrency(rec.EndingNetWorth),
			FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange),
			mdEscape(results.Analysis.BaselineScenario))
	}

	fmt.Fprintln(&buf, "## Scenario Summary")
	fmt.Fprintln(&buf)
	rows := make([][]string, 0, len(results.Projections))
	for _, p := range results.Projections {
		s := p.Summary
		name := p.ScenarioName
		if p.Baseline {
			name += " (baseline)"
		}
		rows = append(rows, []string{
			name,
			FormatCurrency(s.StartingNetWorth),
			FormatCurrency(s.EndingNetWorth),
			FormatCurrency(s.NetWorthChange),
			FormatPercentage(s.PercentChange),
			FormatCurrency(s.TotalInterest),
			FormatDate(s.DebtFreeDate),
		})
	}
	mdTable(&buf, []string{"Scenario", "Start", "End", "Change", "Change %", "Interest", "Debt-free"}, rows)

	if len(results.Analysis.Deltas) > 1 {
		fmt.Fprintln(&buf, "## Versus Baseline")
		fmt.Fprintln(&buf)
		rows = rows[:0]
		for _, d := range results.Analysis.Deltas {
			rows = append(rows, []string{d.ScenarioName, FormatCurrency(d.DeltaVsBaseline), FormatCurrency(d.InterestDelta)})
		}
		mdTable(&buf, []string{"Scenario", "Net worth delta", "Interest delta"}, rows)
	}

	for _, p := range results.Projections {
		fmt.Fprintf(&buf, "## %s\n\n", mdEscape(p.ScenarioName))
		rows = rows[:0]
		for _, s := range p.Snapshots {
			rows = append(rows, []string{
				intToString(s.Period),
				dateutil.Format(s.Date),
				FormatCurrency(s.TotalAssets),
				FormatCurrency(s.TotalLiabilities),
				FormatCurrency(s.NetWorth),
				FormatCurrency(s.NetCashFlow),
			})
		}
		mdTable(&buf, []string{"Period", "Date", "Assets", "Liabilities", "Net worth", "Net cash flow"}, rows)
	}

	fmt.Fprintln(&buf, "## Key Assumptions")
	fmt.Fprintln(&buf)
	for _, a := range assumptionsOf(results.Assumptions) {
		fmt.Fprintf(&buf, "- %s\n", mdEscape(a))
	}
	if len(results.IgnoredOverrides) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "## Ignored Overrides")
		fmt.Fprintln(&buf)
		for _, o := range results.IgnoredOverrides {
			fmt.Fprintf(&buf, "- %s: `%s` (%s)\n", mdEscape(o.Scenario), o.Target, o.Reason)
		}
	}
	return buf.Bytes(), nil
}

// mdTable writes a pipe table followed by a blank line.
func mdTable(buf *bytes.Buffer, header []string, rows [][]string) {
	fmt.Fprintf(buf, "| %s |\n", strings.Join(header, " | "))
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
		if i > 0 {
			sep[i] = "---:"
		}
	}
	fmt.Fprintf(buf, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = mdEscape(c)
		}
		fmt.Fprintf(buf, "| %s |\n", strings.Join(cells, " | "))
	}
	fmt.Fprintln(buf)
}

var mdReplacer = strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`")

func mdEscape(s string) string { return mdReplacer.Replace(s) }
