package calculation

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets only. No state, local or payroll taxes.
// 2. Tables are published per year; a year without a table uses the nearest
//    published one (ties go to the later year) and the result says so.
// 3. No inflation indexing is applied when falling back to another year.
// 4. Itemizing wins only when it strictly exceeds the standard deduction.

//go:embed data/tax_tables.yaml
var defaultTaxTablesYAML []byte

var loadDefaultTaxTables = sync.OnceValues(func() (*TaxTables, error) {
	return ParseTaxTables(defaultTaxTablesYAML)
})

// DefaultTaxTables returns the compiled-in federal tables. They are parsed once
// per process and shared read-only.
func DefaultTaxTables() (*TaxTables, error) {
	return loadDefaultTaxTables()
}

// TaxTables is an immutable, validated set of tax tables keyed by year.
type TaxTables struct {
	byYear map[int]domain.TaxTable
	years  []int
}

// NewTaxTables validates the given tables and indexes them by year.
func NewTaxTables(tables ...domain.TaxTable) (*TaxTables, error) {
	if len(tables) == 0 {
		return nil, domain.NewInvalidInput("tax_tables", "at least one table is required")
	}
	tt := &TaxTables{byYear: make(map[int]domain.TaxTable, len(tables))}
	for _, table := range tables {
		if _, dup := tt.byYear[table.Year]; dup {
			return nil, domain.NewInvalidInput(fmt.Sprintf("tax_tables[%d]", table.Year), "duplicate year")
		}
		if err := validateTaxTable(table); err != nil {
			return nil, err
		}
		tt.byYear[table.Year] = table
		tt.years = append(tt.years, table.Year)
	}
	sort.Ints(tt.years)
	return tt, nil
}

func validateTaxTable(table domain.TaxTable) error {
	prefix := fmt.Sprintf("tax_tables[%d]", table.Year)
	if len(table.Brackets) == 0 {
		return domain.NewInvalidInput(prefix+".brackets", "no filing statuses defined")
	}
	for status, brackets := range table.Brackets {
		field := fmt.Sprintf("%s.brackets.%s", prefix, status)
		if _, ok := table.StandardDeductions[status]; !ok {
			return domain.NewInvalidInput(fmt.Sprintf("%s.standard_deductions.%s", prefix, status), "missing")
		}
		if len(brackets) == 0 {
			return domain.NewInvalidInput(field, "no brackets")
		}
		var floor money.Cents
		for i, b := range brackets {
			switch {
			case b.Min != floor:
				return domain.NewInvalidInput(field, "bracket %d starts at %d, expected %d", i, b.Min, floor)
			case b.Rate.IsNegative():
				return domain.NewInvalidInput(field, "bracket %d has a negative rate", i)
			case b.Max == nil && i != len(brackets)-1:
				return domain.NewInvalidInput(field, "only the top bracket may be open-ended")
			case b.Max != nil && *b.Max <= b.Min:
				return domain.NewInvalidInput(field, "bracket %d max must exceed its min", i)
			}
			if b.Max != nil {
				floor = *b.Max
			}
		}
		if brackets[len(brackets)-1].Max != nil {
			return domain.NewInvalidInput(field, "top bracket must be open-ended")
		}
	}
	for status, amount := range table.StandardDeductions {
		if amount < 0 {
			return domain.NewInvalidInput(fmt.Sprintf("%s.standard_deductions.%s", prefix, status), "cannot be negative")
		}
	}
	return nil
}

// Years returns the published years in ascending order.
func (tt *TaxTables) Years() []int {
	out := make([]int, len(tt.years))
	copy(out, tt.years)
	return out
}

// Lookup returns the table for year, or the nearest published year's table
// with fellBack set. Equidistant years resolve to the later one.
func (tt *TaxTables) Lookup(year int) (table domain.TaxTable, fellBack bool) {
	if t, ok := tt.byYear[year]; ok {
		return t, false
	}
	best := tt.years[0]
	for _, y := range tt.years[1:] {
		if abs(y-year) <= abs(best-year) {
			best = y
		}
	}
	return tt.byYear[best], true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type taxTablesFile struct {
	Tables []struct {
		Year               int                       `yaml:"year"`
		StandardDeductions map[string]int64          `yaml:"standard_deductions"`
		Brackets           map[string][]bracketEntry `yaml:"brackets"`
	} `yaml:"tables"`
}

type bracketEntry struct {
	Min  int64   `yaml:"min"`
	Max  *int64  `yaml:"max"`
	Rate float64 `yaml:"rate"`
}

// ParseTaxTables decodes a YAML tax table document (amounts in cents, rates in
// percent) and validates it.
func ParseTaxTables(data []byte) (*TaxTables, error) {
	var file taxTablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tax tables: %w", err)
	}
	tables := make([]domain.TaxTable, 0, len(file.Tables))
	for _, ft := range file.Tables {
		table := domain.TaxTable{
			Year:               ft.Year,
			StandardDeductions: make(map[domain.FilingStatus]money.Cents),
			Brackets:           make(map[domain.FilingStatus][]domain.TaxBracket),
		}
		for name, amount := range ft.StandardDeductions {
			status, err := domain.ParseFilingStatus(name)
			if err != nil {
				return nil, fmt.Errorf("tax table %d: %w", ft.Year, err)
			}
			table.StandardDeductions[status] = money.Cents(amount)
		}
		for name, entries := range ft.Brackets {
			status, err := domain.ParseFilingStatus(name)
			if err != nil {
				return nil, fmt.Errorf("tax table %d: %w", ft.Year, err)
			}
			brackets := make([]domain.TaxBracket, len(entries))
			for i, e := range entries {
				brackets[i] = domain.TaxBracket{Min: money.Cents(e.Min), Rate: money.NewRate(e.Rate)}
				if e.Max != nil {
					upper := money.Cents(*e.Max)
					brackets[i].Max = &upper
				}
			}
			table.Brackets[status] = brackets
		}
		tables = append(tables, table)
	}
	return NewTaxTables(tables...)
}

// TaxEngine computes federal income tax against an injected table set.
type TaxEngine struct {
	Tables *TaxTables
}

// NewTaxEngine creates a tax engine over the given tables.
func NewTaxEngine(tables *TaxTables) *TaxEngine {
	return &TaxEngine{Tables: tables}
}

// Calculate computes taxable income, the per-bracket breakdown, the total
// liability and the effective and marginal rates.
func (te *TaxEngine) Calculate(in domain.TaxInput) (*domain.TaxResult, error) {
	if in.GrossIncome < 0 {
		return nil, domain.NewInvalidInput("gross_income", "cannot be negative")
	}
	var itemized money.Cents
	if d := in.Itemized; d != nil {
		components := []struct {
			field string
			value money.Cents
		}{
			{"itemized.mortgage_interest", d.MortgageInterest},
			{"itemized.property_tax", d.PropertyTax},
			{"itemized.state_tax", d.StateTax},
			{"itemized.charitable", d.Charitable},
		}
		for _, c := range components {
			if c.value < 0 {
				return nil, domain.NewInvalidInput(c.field, "cannot be negative")
			}
		}
		itemized = d.Total()
	}

	table, fellBack := te.Tables.Lookup(in.Year)
	brackets, ok := table.Brackets[in.FilingStatus]
	if !ok {
		return nil, domain.NewInvalidInput("filing_status", "no %d brackets for filing status %q", table.Year, in.FilingStatus)
	}
	standard := table.StandardDeductions[in.FilingStatus]

	result := &domain.TaxResult{
		RequestedYear:     in.Year,
		TableYear:         table.Year,
		FellBack:          fellBack,
		FilingStatus:      in.FilingStatus,
		GrossIncome:       in.GrossIncome,
		StandardDeduction: standard,
		ItemizedTotal:     itemized,
		DeductionType:     domain.DeductionStandard,
		Deduction:         standard,
		Brackets:          make([]domain.BracketTax, 0, len(brackets)),
	}
	if itemized > standard {
		result.DeductionType = domain.DeductionItemized
		result.Deduction = itemized
	}
	result.TaxableIncome = money.Max(in.GrossIncome-result.Deduction, 0)

	for _, b := range brackets {
		line := domain.BracketTax{Min: b.Min, Max: b.Max, Rate: b.Rate}
		if result.TaxableIncome > b.Min {
			top := result.TaxableIncome
			if b.Max != nil && *b.Max < top {
				top = *b.Max
			}
			line.TaxableAmount = top - b.Min
			line.Tax = line.TaxableAmount.MulDecimal(b.Rate.Fraction())
			result.MarginalRate = b.Rate
		}
		result.TotalTax += line.Tax
		result.Brackets = append(result.Brackets, line)
	}

	if in.GrossIncome > 0 {
		effective := result.TotalTax.Decimal().Div(in.GrossIncome.Decimal()).Mul(decimal.NewFromInt(100)).Round(4)
		result.EffectiveRate = money.NewRateFromDecimal(effective)
	}
	return result, nil
}
