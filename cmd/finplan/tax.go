package main

import (
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/spf13/cobra"
)

type taxOptions struct {
	income           string
	status           string
	year             int
	mortgageInterest string
	propertyTax      string
	stateTax         string
	charitable       string
}

func newTaxCommand(a *app) *cobra.Command {
	var opts taxOptions
	cmd := &cobra.Command{
		Use:     "tax",
		Short:   "Compute federal income tax with a per-bracket breakdown",
		Example: "  finplan tax --income 150000 --status married_filing_jointly --year 2025 --mortgage-interest 18000",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTax(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.income, "income", "", "gross income in dollars")
	flags.StringVar(&opts.status, "status", "single", "filing status (single, married_filing_jointly, married_filing_separately, head_of_household)")
	flags.IntVar(&opts.year, "year", calculation.CurrentYear(), "tax year; the nearest available table is used when missing")
	flags.StringVar(&opts.mortgageInterest, "mortgage-interest", "0", "itemized mortgage interest in dollars")
	flags.StringVar(&opts.propertyTax, "property-tax", "0", "itemized property tax in dollars")
	flags.StringVar(&opts.stateTax, "state-tax", "0", "itemized state and local tax in dollars")
	flags.StringVar(&opts.charitable, "charitable", "0", "itemized charitable giving in dollars")
	cmd.MarkFlagRequired("income")
	return cmd
}

func (o taxOptions) input() (domain.TaxInput, error) {
	status, err := domain.ParseFilingStatus(o.status)
	if err != nil {
		return domain.TaxInput{}, err
	}
	amounts := make([]money.Cents, 5)
	for i, s := range []string{o.income, o.mortgageInterest, o.propertyTax, o.stateTax, o.charitable} {
		if amounts[i], err = money.FromDollars(s); err != nil {
			return domain.TaxInput{}, err
		}
	}

	in := domain.TaxInput{GrossIncome: amounts[0], FilingStatus: status, Year: o.year}
	itemized := domain.ItemizedDeductions{
		MortgageInterest: amounts[1],
		PropertyTax:      amounts[2],
		StateTax:         amounts[3],
		Charitable:       amounts[4],
	}
	if itemized != (domain.ItemizedDeductions{}) {
		in.Itemized = &itemized
	}
	return in, nil
}

func (a *app) runTax(opts taxOptions) error {
	in, err := opts.input()
	if err != nil {
		return err
	}
	engine, err := a.engine()
	if err != nil {
		return err
	}
	result, err := engine.Taxes.Calculate(in)
	if err != nil {
		return err
	}
	if result.FellBack {
		a.logger.Warnf("no tax table for %d, used %d", result.RequestedYear, result.TableYear)
	}
	return a.emit(result, func(format string) ([]byte, error) {
		return output.FormatTax(result, format)
	})
}
