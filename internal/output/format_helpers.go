package output

import (
	"strconv"
	"time"

	gomoney "github.com/Rhymond/go-money"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// displayCurrency is the currency every amount is rendered in.
const displayCurrency = gomoney.USD

// FormatCurrency formats cents with the currency symbol and thousands
// separators, e.g. "$1,234.56".
func FormatCurrency(amount money.Cents) string {
	return gomoney.New(int64(amount), displayCurrency).Display()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats an annual percentage rate with 2 decimals.
func FormatRate(r money.Rate) string { return r.Percent(2) }

// FormatDate renders a date as YYYY-MM-DD, or "-" when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return dateutil.Format(*t)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

// plain renders cents without symbols for machine-readable outputs.
func plain(amount money.Cents) string { return amount.String() }
