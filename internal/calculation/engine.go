package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
)

const (
	// DefaultNeutralThreshold is the advantage below which two strategies are
	// reported as effectively equal ($1,000).
	DefaultNeutralThreshold money.Cents = 100000

	// DefaultConcurrency limits how many scenarios are projected at once.
	DefaultConcurrency = 10
)

// CalculationEngine orchestrates projections and comparisons. It holds only
// immutable configuration, so one engine may serve concurrent callers.
type CalculationEngine struct {
	Taxes            *TaxEngine
	NeutralThreshold money.Cents
	Concurrency      int
	Bisect           BisectOptions
	Logger           Logger
}

// NewCalculationEngine creates an engine backed by the embedded tax tables.
// It panics if the embedded tables are corrupt, which is a build defect.
func NewCalculationEngine() *CalculationEngine {
	tables, err := DefaultTaxTables()
	if err != nil {
		panic(fmt.Sprintf("embedded tax tables: %v", err))
	}
	return NewCalculationEngineWithTaxTables(tables)
}

// NewCalculationEngineWithTaxTables creates an engine with caller-supplied tax
// tables, e.g. loaded from a file.
func NewCalculationEngineWithTaxTables(tables *TaxTables) *CalculationEngine {
	logger := NopLogger{}
	bisect := DefaultBisectOptions()
	bisect.Logger = logger
	return &CalculationEngine{
		Taxes:            NewTaxEngine(tables),
		NeutralThreshold: DefaultNeutralThreshold,
		Concurrency:      DefaultConcurrency,
		Bisect:           bisect,
		Logger:           logger,
	}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	ce.Logger = l
	ce.Bisect.Logger = l
}

// taxEngine returns the engine's tax engine, or one backed by the embedded
// tables for an engine that was not built with NewCalculationEngine.
func (ce *CalculationEngine) taxEngine() (*TaxEngine, error) {
	if ce.Taxes != nil {
		return ce.Taxes, nil
	}
	tables, err := DefaultTaxTables()
	if err != nil {
		return nil, fmt.Errorf("embedded tax tables: %w", err)
	}
	return NewTaxEngine(tables), nil
}

// RunScenario projects the household under a single scenario. A nil scenario
// projects the household as is.
func (ce *CalculationEngine) RunScenario(ctx context.Context, household domain.Household, scenario *domain.Scenario, opts domain.ProjectionOptions) (*domain.Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	projection, skipped, err := project(household, scenario, opts)
	if err != nil {
		return nil, err
	}
	for _, o := range skipped {
		ce.log().Warnf("scenario %q: override %s skipped: %v", scenario.Name, o.Target(), domain.ErrUnknownEntity)
	}
	return projection, nil
}

// RunScenarios projects every scenario of the configuration and returns them
// in input order together with a comparison against the baseline. A
// configuration without scenarios is projected once as the baseline.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	scenarios := config.Scenarios
	if len(scenarios) == 0 {
		scenarios = []domain.Scenario{{ID: "baseline", Name: "Baseline", Baseline: true}}
	}

	concurrency := ce.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	projections := make([]domain.Projection, len(scenarios))
	skipped := make([][]domain.Override, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	for i := range scenarios {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := ctx.Err(); err != nil {
				errs[index] = err
				return
			}
			projection, ignored, err := project(config.Household, &scenarios[index], config.Projection)
			if err != nil {
				errs[index] = fmt.Errorf("scenario %q: %w", scenarios[index].Name, err)
				return
			}
			projections[index] = *projection
			skipped[index] = ignored
		}(i)
	}
	wg.Wait()

	// Report the first failure in input order so the error is deterministic.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	comparison := &domain.ScenarioComparison{
		Projections:      projections,
		IgnoredOverrides: append([]domain.IgnoredOverride(nil), config.IgnoredOverrides...),
		Assumptions:      config.Projection.GenerateAssumptions(),
	}
	for i, overrides := range skipped {
		for _, o := range overrides {
			ce.log().Warnf("scenario %q: override %s skipped: %v", scenarios[i].Name, o.Target(), domain.ErrUnknownEntity)
			comparison.IgnoredOverrides = append(comparison.IgnoredOverrides, domain.IgnoredOverride{
				Scenario: scenarios[i].Name,
				Target:   o.Target(),
				Reason:   domain.ErrUnknownEntity.Error() + " id",
			})
		}
	}
	comparison.Analysis = ce.generateScenarioAnalysis(projections)

	ce.log().Infof("projected %d scenarios over %d years", len(projections), config.Projection.HorizonYears)
	return comparison, nil
}
