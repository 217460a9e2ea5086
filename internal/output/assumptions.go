package output

import (
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists key modeling assumptions rendered when a result
// carries none of its own.
var DefaultAssumptions = []string{
	"Amounts are nominal; no inflation adjustment is applied",
	"Assets without a growth rate are held flat",
	"Dividends are paid out as income and not reinvested",
	"Liabilities follow their amortization schedule",
}

func assumptionsOf(list []string) []string {
	if len(list) == 0 {
		return DefaultAssumptions
	}
	return list
}

var decimalHundred = decimal.NewFromInt(100)
