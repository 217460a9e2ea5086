package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
)

// resultView is the format-neutral shape of a single engine result: a title,
// labelled summary lines and one table. Display cells carry currency symbols,
// machine cells do not.
type resultView struct {
	title   string
	summary [][2]string
	header  []string
	rows    [][]string
	machine [][]string
	value   any
}

func (v resultView) render(format string) ([]byte, error) {
	switch n := NormalizeFormatName(format); n {
	case "console", "console-lite":
		return v.console(n == "console"), nil
	case "csv", "detailed-csv":
		return v.csv()
	case "json":
		return json.MarshalIndent(v.value, "", "  ")
	case "markdown":
		return v.markdown(), nil
	case "html":
		return MarkdownToHTML(v.title, v.markdown())
	default:
		return nil, unsupported(format)
	}
}

func (v resultView) console(withTable bool) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.ToUpper(v.title))
	fmt.Fprintln(&buf, strings.Repeat("=", len(v.title)))
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, line := range v.summary {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}
	tw.Flush()
	if withTable && len(v.rows) > 0 {
		fmt.Fprintln(&buf)
		tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, strings.Join(v.header, "\t")+"\t")
		for _, row := range v.rows {
			fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
		}
		tw.Flush()
	}
	return buf.Bytes()
}

func (v resultView) csv() ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(v.header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(v.machine); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v resultView) markdown() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", v.title)
	for _, line := range v.summary {
		fmt.Fprintf(&buf, "- **%s:** %s\n", line[0], mdEscape(line[1]))
	}
	fmt.Fprintln(&buf)
	if len(v.rows) > 0 {
		mdTable(&buf, v.header, v.rows)
	}
	return buf.Bytes()
}

// FormatSchedule renders an amortization schedule.
func FormatSchedule(s *domain.AmortizationSchedule, format string) ([]byte, error) {
	v := resultView{
		title: "Amortization Schedule",
		summary: [][2]string{
			{"Principal", FormatCurrency(s.Principal)},
			{"Annual rate", FormatRate(s.AnnualRate)},
			{"Scheduled payment", FormatCurrency(s.ScheduledPayment)},
			{"Payments per year", intToString(s.PeriodsPerYear)},
			{"Periods", intToString(s.Periods)},
			{"Total paid", FormatCurrency(s.TotalPayments)},
			{"Total interest", FormatCurrency(s.TotalInterest)},
			{"Total extra", FormatCurrency(s.TotalExtra)},
			{"Payoff date", FormatDate(s.PayoffDate)},
		},
		header: []string{"Period", "Date", "Beginning", "Payment", "Principal", "Interest", "Extra", "Ending"},
		value:  s,
	}
	if s.Biweekly {
		v.summary = append(v.summary, [2]string{"Mode", "biweekly (26 half payments a year)"})
	}
	if s.Truncated {
		v.summary = append(v.summary, [2]string{"Note", "schedule stopped at the period cap before payoff"})
	}
	for _, e := range s.Entries {
		amounts := []money.Cents{e.BeginningBalance, e.Payment, e.Principal, e.Interest, e.Extra, e.EndingBalance}
		display := []string{intToString(e.Period), dateutil.Format(e.Date)}
		machine := []string{intToString(e.Period), dateutil.Format(e.Date)}
		for _, a := range amounts {
			display = append(display, FormatCurrency(a))
			machine = append(machine, plain(a))
		}
		v.rows = append(v.rows, display)
		v.machine = append(v.machine, machine)
	}
	return v.render(format)
}

// FormatTax renders a tax computation with its per-bracket breakdown.
func FormatTax(r *domain.TaxResult, format string) ([]byte, error) {
	table := intToString(r.TableYear)
	if r.FellBack {
		table += fmt.Sprintf(" (no table for %d)", r.RequestedYear)
	}
	v := resultView{
		title: "Federal Income Tax",
		summary: [][2]string{
			{"Tax year", table},
			{"Filing status", string(r.FilingStatus)},
			{"Gross income", FormatCurrency(r.GrossIncome)},
			{"Deduction", fmt.Sprintf("%s (%s)", FormatCurrency(r.Deduction), r.DeductionType)},
			{"Taxable income", FormatCurrency(r.TaxableIncome)},
			{"Total tax", FormatCurrency(r.TotalTax)},
			{"Effective rate", FormatRate(r.EffectiveRate)},
			{"Marginal rate", FormatRate(r.MarginalRate)},
		},
		header: []string{"From", "To", "Rate", "Taxed amount", "Tax"},
		value:  r,
	}
	for _, b := range r.Brackets {
		upper, upperPlain := "and up", ""
		if b.Max != nil {
			upper, upperPlain = FormatCurrency(*b.Max), plain(*b.Max)
		}
		v.rows = append(v.rows, []string{FormatCurrency(b.Min), upper, FormatRate(b.Rate), FormatCurrency(b.TaxableAmount), FormatCurrency(b.Tax)})
		v.machine = append(v.machine, []string{plain(b.Min), upperPlain, b.Rate.String(), plain(b.TaxableAmount), plain(b.Tax)})
	}
	return v.render(format)
}

// FormatComparison renders a mortgage-vs-invest or rent-vs-buy result, with
// one row per comparison year and the net position of each track.
func FormatComparison(r *domain.ComparisonResult, format string) ([]byte, error) {
	title := "Mortgage vs Invest"
	if r.Kind == domain.ComparisonRentVsBuy {
		title = "Rent vs Buy"
	}
	v := resultView{
		title: title,
		summary: [][2]string{
			{"Horizon", fmt.Sprintf("%d months", r.HorizonMonths)},
			{"Recommendation", string(r.Recommendation)},
			{"Advantage", FormatCurrency(r.Advantage)},
			{"Break-even rate", describeBreakEvenRate(r.BreakEvenRate)},
			{"Break-even year", describeCrossover(r.BreakEvenYear)},
		},
		header: []string{"Year", "Date"},
		value:  r,
	}
	if r.Kind == domain.ComparisonMortgageVsInvest {
		v.summary = append(v.summary,
			[2]string{"Interest saved", FormatCurrency(r.InterestSaved)},
			[2]string{"Months saved", intToString(r.MonthsSaved)})
	}
	if t := r.RentBuy; t != nil {
		v.summary = append(v.summary,
			[2]string{"Upfront cash", FormatCurrency(t.UpfrontCash)},
			[2]string{"Total rent", FormatCurrency(t.TotalRent)},
			[2]string{"Total ownership cost", FormatCurrency(t.TotalOwnershipCost)},
			[2]string{"Total interest", FormatCurrency(t.TotalInterest)},
			[2]string{"Tax savings", FormatCurrency(t.TaxSavings)},
			[2]string{"Final home value", FormatCurrency(t.FinalHomeValue)},
			[2]string{"Selling costs", FormatCurrency(t.SellingCosts)})
	}
	for _, t := range r.Tracks {
		v.header = append(v.header, t.Name+" assets", t.Name+" liabilities", t.Name+" net")
	}
	if len(r.Tracks) == 0 {
		return v.render(format)
	}
	for i, p := range r.Tracks[0].Points {
		display := []string{intToString(p.Year), dateutil.Format(p.Date)}
		machine := []string{intToString(p.Year), dateutil.Format(p.Date)}
		for _, t := range r.Tracks {
			if i >= len(t.Points) {
				display = append(display, "", "", "")
				machine = append(machine, "", "", "")
				continue
			}
			q := t.Points[i]
			display = append(display, FormatCurrency(q.Assets), FormatCurrency(q.Liabilities), FormatCurrency(q.Net))
			machine = append(machine, plain(q.Assets), plain(q.Liabilities), plain(q.Net))
		}
		v.rows = append(v.rows, display)
		v.machine = append(v.machine, machine)
	}
	return v.render(format)
}

func describeBreakEvenRate(b domain.BreakEvenRate) string {
	switch {
	case !b.Bracketed:
		return fmt.Sprintf("none between %s and %s", FormatRate(b.Low), FormatRate(b.High))
	case !b.Converged:
		return fmt.Sprintf("~%s (not converged after %d iterations)", FormatRate(b.Rate), b.Iterations)
	default:
		return fmt.Sprintf("%s (%d iterations)", FormatRate(b.Rate), b.Iterations)
	}
}

func describeCrossover(c *domain.Crossover) string {
	if c == nil {
		return "no crossover within the horizon"
	}
	return fmt.Sprintf("year %d (%04d-%02d)", c.YearIndex, c.Year, c.Month)
}
