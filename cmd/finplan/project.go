package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rpgo/finplan/internal/cache"
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type projectOptions struct {
	outputDir   string
	scenarios   []string
	horizon     int
	granularity string
	sweep       string
	cacheAddr   string
	cacheTTL    time.Duration
}

func newProjectCommand(a *app) *cobra.Command {
	var opts projectOptions
	cmd := &cobra.Command{
		Use:   "project <config.yaml>",
		Short: "Project household net worth under every scenario of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProject(cmd.Context(), args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "write the report to a timestamped file in this directory (format \"all\" writes every file format)")
	flags.StringSliceVar(&opts.scenarios, "scenario", nil, "only project the scenarios with these ids (repeatable)")
	flags.IntVar(&opts.horizon, "horizon", 0, "override the projection horizon in years")
	flags.StringVar(&opts.granularity, "granularity", "", "override the snapshot step (yearly or monthly)")
	flags.StringVar(&opts.sweep, "sweep", "", "override the asset that receives net cash flow")
	flags.StringVar(&opts.cacheAddr, "cache-addr", "", "Redis address used to memoize projections, e.g. localhost:6379")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", 24*time.Hour, "lifetime of cached projections")
	return cmd
}

func (a *app) runProject(ctx context.Context, filename string, opts projectOptions) error {
	cfg, err := a.parser.LoadFromFile(filename)
	if err != nil {
		return err
	}
	if err := applyProjectFlags(cfg, opts); err != nil {
		return err
	}
	if err := a.parser.ValidateConfiguration(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	engine, err := a.engine()
	if err != nil {
		return err
	}

	store, closeStore := a.openCache(ctx, opts)
	defer closeStore()

	results, err := a.projectCached(ctx, engine, store, cfg)
	if err != nil {
		return err
	}

	for _, ignored := range results.IgnoredOverrides {
		a.logger.WithFields(log.Fields{
			"scenario": ignored.Scenario,
			"target":   ignored.Target,
		}).Warn("override ignored: " + ignored.Reason)
	}

	if opts.outputDir != "" && a.query == "" {
		files, err := output.GenerateReport(results, a.format, opts.outputDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(a.stdout, "Report written to %s\n", f)
		}
		return nil
	}

	return a.emit(results, func(format string) ([]byte, error) {
		f := output.GetFormatterByName(format)
		if f == nil {
			return nil, fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
		}
		return f.Format(results)
	})
}

// applyProjectFlags narrows and adjusts a loaded configuration from the
// command line.
func applyProjectFlags(cfg *domain.Configuration, opts projectOptions) error {
	if opts.horizon > 0 {
		cfg.Projection.HorizonYears = opts.horizon
	}
	if opts.granularity != "" {
		cfg.Projection.Granularity = domain.Granularity(opts.granularity)
	}
	if opts.sweep != "" {
		cfg.Projection.SweepAssetID = opts.sweep
	}
	if len(opts.scenarios) == 0 {
		return nil
	}

	byID := make(map[string]domain.Scenario, len(cfg.Scenarios))
	for _, s := range cfg.Scenarios {
		byID[s.ID] = s
	}
	selected := make([]domain.Scenario, 0, len(opts.scenarios))
	for _, id := range opts.scenarios {
		s, ok := byID[id]
		if !ok {
			return domain.NewInvalidInput("scenario", "unknown scenario id %q", id)
		}
		selected = append(selected, s)
	}
	cfg.Scenarios = selected
	return nil
}

// openCache connects to Redis when an address is given. An unreachable server
// disables caching for the run instead of failing it.
func (a *app) openCache(ctx context.Context, opts projectOptions) (cache.Cache, func()) {
	if opts.cacheAddr == "" {
		return nil, func() {}
	}
	rc := cache.NewRedisCache(opts.cacheAddr, opts.cacheTTL)
	if err := rc.Ping(ctx); err != nil {
		a.logger.WithError(err).WithField("addr", opts.cacheAddr).Warn("projection cache unavailable, continuing without it")
		rc.Close()
		return nil, func() {}
	}
	return rc, func() { rc.Close() }
}

func (a *app) projectCached(ctx context.Context, engine *calculation.CalculationEngine, store cache.Cache, cfg *domain.Configuration) (*domain.ScenarioComparison, error) {
	if store == nil {
		return engine.RunScenarios(ctx, cfg)
	}
	key, err := cache.Key("project", cfg)
	if err != nil {
		return nil, err
	}
	results, hit, err := cache.GetOrCompute(ctx, store, key, a.logger, func() (*domain.ScenarioComparison, error) {
		return engine.RunScenarios(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(log.Fields{"key": key, "hit": hit}).Debug("projection cache")
	return results, nil
}
