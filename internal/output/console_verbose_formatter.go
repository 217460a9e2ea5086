package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
)

// ConsoleVerboseFormatter renders the detailed console report: assumptions,
// a per-period table for every scenario and the comparison against the
// baseline.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintln(&buf, "NET WORTH PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range assumptionsOf(results.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, p := range results.Projections {
		title := fmt.Sprintf("SCENARIO %d: %s", i+1, p.ScenarioName)
		if p.Baseline {
			title += " (baseline)"
		}
		fmt.Fprintln(&buf, title)
		fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
		writeSnapshotTable(&buf, p.Snapshots)
		fmt.Fprintln(&buf)
		writeSummary(&buf, p.Summary)
		if final := p.Final(); len(final.AssetBalances)+len(final.LiabilityBalances) > 0 {
			fmt.Fprintln(&buf, "ENDING BALANCES:")
			writeBalances(&buf, "  asset", final.AssetBalances)
			writeBalances(&buf, "  liability", final.LiabilityBalances)
		}
		fmt.Fprintln(&buf)
	}

	if len(results.Projections) > 1 {
		fmt.Fprintln(&buf, "SCENARIO COMPARISON")
		fmt.Fprintln(&buf, "===================")
		fmt.Fprintf(&buf, "%-30s %18s %18s %18s\n", "SCENARIO", "ENDING NET WORTH", "VS BASELINE", "INTEREST DELTA")
		fmt.Fprintln(&buf, strings.Repeat("-", 87))
		for _, d := range results.Analysis.Deltas {
			fmt.Fprintf(&buf, "%-30s %18s %18s %18s\n", d.ScenarioName,
				FormatCurrency(d.EndingNetWorth), FormatCurrency(d.DeltaVsBaseline), FormatCurrency(d.InterestDelta))
		}
		fmt.Fprintln(&buf)
	}

	if len(results.IgnoredOverrides) > 0 {
		fmt.Fprintln(&buf, "IGNORED OVERRIDES:")
		for _, o := range results.IgnoredOverrides {
			fmt.Fprintf(&buf, "  %s: %s (%s)\n", o.Scenario, o.Target, o.Reason)
		}
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
		fmt.Fprintf(&buf, "Ending net worth: %s\n", FormatCurrency(rec.EndingNetWorth))
		fmt.Fprintf(&buf, "Change vs %s: %s (%s)\n", results.Analysis.BaselineScenario,
			FormatCurrency(rec.NetWorthChange), FormatPercentage(rec.PercentageChange))
	}

	return buf.Bytes(), nil
}

func writeSnapshotTable(buf *bytes.Buffer, snapshots []domain.Snapshot) {
	fmt.Fprintf(buf, "%-6s %-10s %16s %16s %16s %14s %14s %14s\n",
		"PERIOD", "DATE", "ASSETS", "LIABILITIES", "NET WORTH", "INCOME", "EXPENSES", "NET FLOW")
	fmt.Fprintln(buf, strings.Repeat("-", 113))
	for _, s := range snapshots {
		fmt.Fprintf(buf, "%-6d %-10s %16s %16s %16s %14s %14s %14s\n",
			s.Period, dateutil.Format(s.Date),
			FormatCurrency(s.TotalAssets), FormatCurrency(s.TotalLiabilities), FormatCurrency(s.NetWorth),
			FormatCurrency(s.Income+s.Dividends), FormatCurrency(s.Expenses), FormatCurrency(s.NetCashFlow))
	}
}

func writeSummary(buf *bytes.Buffer, s domain.ProjectionSummary) {
	fmt.Fprintln(buf, "SUMMARY:")
	fmt.Fprintf(buf, "  Starting Net Worth:  %s\n", FormatCurrency(s.StartingNetWorth))
	fmt.Fprintf(buf, "  Ending Net Worth:    %s\n", FormatCurrency(s.EndingNetWorth))
	fmt.Fprintf(buf, "  Change:              %s (%s)\n", FormatCurrency(s.NetWorthChange), FormatPercentage(s.PercentChange))
	fmt.Fprintf(buf, "  Total Income:        %s\n", FormatCurrency(s.TotalIncome))
	fmt.Fprintf(buf, "  Total Dividends:     %s\n", FormatCurrency(s.TotalDividends))
	fmt.Fprintf(buf, "  Total Expenses:      %s\n", FormatCurrency(s.TotalExpenses))
	fmt.Fprintf(buf, "  Total Debt Paid:     %s\n", FormatCurrency(s.TotalDebtPaid))
	fmt.Fprintf(buf, "  Total Interest Paid: %s\n", FormatCurrency(s.TotalInterest))
	fmt.Fprintf(buf, "  Debt-Free Date:      %s\n", FormatDate(s.DebtFreeDate))
}

func writeBalances(buf *bytes.Buffer, label string, balances map[string]money.Cents) {
	for _, id := range sortedKeys(balances) {
		fmt.Fprintf(buf, "%s %-20s %16s\n", label, id, FormatCurrency(balances[id]))
	}
}

func sortedKeys(m map[string]money.Cents) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
