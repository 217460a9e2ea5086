package main

import (
	"fmt"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/output"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/spf13/cobra"
)

type amortizeOptions struct {
	principal      string
	rate           string
	term           int
	periodsPerYear int
	extra          string
	lumpSum        string
	lumpSumPeriod  int
	biweekly       bool
	start          string
	compare        bool
}

func newAmortizeCommand(a *app) *cobra.Command {
	var opts amortizeOptions
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print the amortization schedule of a fixed-payment loan",
		Example: `  finplan amortize --principal 300000 --rate 6.5 --term 360
  finplan amortize --principal 300000 --rate 6.5 --term 360 --extra 200 --compare`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAmortize(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.principal, "principal", "", "loan principal in dollars, e.g. 300000 or 1234.56")
	flags.StringVar(&opts.rate, "rate", "", "annual interest rate in percent, e.g. 6.5")
	flags.IntVar(&opts.term, "term", 360, "term in payment periods")
	flags.IntVar(&opts.periodsPerYear, "periods-per-year", 12, "payments per year")
	flags.StringVar(&opts.extra, "extra", "0", "extra principal paid every period, in dollars")
	flags.StringVar(&opts.lumpSum, "lump-sum", "0", "one-time extra principal payment, in dollars")
	flags.IntVar(&opts.lumpSumPeriod, "lump-sum-period", 1, "period in which the lump sum is paid")
	flags.BoolVar(&opts.biweekly, "biweekly", false, "pay half the monthly payment every two weeks")
	flags.StringVar(&opts.start, "start", "", "loan start date (YYYY-MM-DD), defaults to the first of next month")
	flags.BoolVar(&opts.compare, "compare", false, "print the interest and time saved against the plain schedule to stderr")
	cmd.MarkFlagRequired("principal")
	cmd.MarkFlagRequired("rate")
	return cmd
}

func (o amortizeOptions) terms() (calculation.LoanTerms, error) {
	principal, err := money.FromDollars(o.principal)
	if err != nil {
		return calculation.LoanTerms{}, err
	}
	rate, err := money.ParseRate(o.rate)
	if err != nil {
		return calculation.LoanTerms{}, err
	}
	extra, err := money.FromDollars(o.extra)
	if err != nil {
		return calculation.LoanTerms{}, err
	}
	lump, err := money.FromDollars(o.lumpSum)
	if err != nil {
		return calculation.LoanTerms{}, err
	}
	start := calculation.DefaultStartDate()
	if o.start != "" {
		if start, err = dateutil.ParseDate(o.start); err != nil {
			return calculation.LoanTerms{}, err
		}
	}

	terms := calculation.LoanTerms{
		Principal:      principal,
		AnnualRate:     rate,
		TermPeriods:    o.term,
		PeriodsPerYear: o.periodsPerYear,
		ExtraPayment:   extra,
		Biweekly:       o.biweekly,
		StartDate:      start,
	}
	if lump > 0 {
		terms.LumpSum = &calculation.LumpSum{Period: o.lumpSumPeriod, Amount: lump}
	}
	return terms, nil
}

func (a *app) runAmortize(opts amortizeOptions) error {
	terms, err := opts.terms()
	if err != nil {
		return err
	}
	schedule, err := calculation.Amortize(terms)
	if err != nil {
		return err
	}

	if opts.compare {
		base := terms
		base.ExtraPayment, base.LumpSum, base.Biweekly = 0, nil, false
		plain, err := calculation.Amortize(base)
		if err != nil {
			return err
		}
		saved := calculation.ComparePayoff(plain, schedule)
		fmt.Fprintf(a.stderr, "Accelerated payoff saves %s of interest and %d months\n", output.FormatCurrency(saved.InterestSaved), saved.MonthsSaved)
	}

	return a.emit(schedule, func(format string) ([]byte, error) {
		return output.FormatSchedule(schedule, format)
	})
}
