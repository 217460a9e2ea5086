package main

import (
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
	"github.com/spf13/cobra"
)

func newCompareCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two strategies and search for their break-even rate",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:     "mortgage-vs-invest <input.yaml>",
			Aliases: []string{"prepay"},
			Short:   "Prepay a mortgage or invest the same monthly amount",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				in, err := a.parser.LoadMortgageInvest(args[0])
				if err != nil {
					return err
				}
				return a.runComparison(func(engine *calculation.CalculationEngine) (*domain.ComparisonResult, error) {
					return engine.CompareMortgageVsInvest(*in)
				})
			},
		},
		&cobra.Command{
			Use:     "rent-vs-buy <input.yaml>",
			Aliases: []string{"rent-buy"},
			Short:   "Buy a home or rent and invest the difference",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				in, err := a.parser.LoadRentBuy(args[0])
				if err != nil {
					return err
				}
				return a.runComparison(func(engine *calculation.CalculationEngine) (*domain.ComparisonResult, error) {
					return engine.CompareRentVsBuy(*in)
				})
			},
		},
	)
	return cmd
}

func (a *app) runComparison(run func(*calculation.CalculationEngine) (*domain.ComparisonResult, error)) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}
	result, err := run(engine)
	if err != nil {
		return err
	}
	if b := result.BreakEvenRate; b.Bracketed && !b.Converged {
		a.logger.Warnf("break-even search stopped after %d iterations without converging", b.Iterations)
	}
	return a.emit(result, func(format string) ([]byte, error) {
		return output.FormatComparison(result, format)
	})
}
