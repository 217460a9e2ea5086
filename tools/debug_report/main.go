package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rpgo/finplan/internal/cache"
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
)

// Traces a projection through the report pipeline: the raw snapshots, what the
// HTML report shows for each scenario, and whether a cached copy of the
// result still matches the fresh one.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_report <config-file>")
		return
	}
	ctx := context.Background()

	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	engine := calculation.NewCalculationEngine()
	store := cache.NewMemoryCache()
	key, err := cache.Key("project", cfg)
	if err != nil {
		log.Fatal(err)
	}
	run := func() (*domain.ScenarioComparison, error) { return engine.RunScenarios(ctx, cfg) }

	result, _, err := cache.GetOrCompute(ctx, store, key, nil, run)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== PROJECTION STRUCTURE ===\n")
	fmt.Printf("Number of scenarios: %d\n", len(result.Projections))
	for i, p := range result.Projections {
		fmt.Printf("\nScenario %d: %s (baseline=%v)\n", i+1, p.ScenarioName, p.Baseline)
		fmt.Printf("  Snapshots: %d\n", len(p.Snapshots))
		for j := 0; j < min(3, len(p.Snapshots)); j++ {
			s := p.Snapshots[j]
			fmt.Printf("    Period %d (%s): assets=%s liabilities=%s net=%s\n",
				s.Period, s.Date.Format("2006-01-02"),
				output.FormatCurrency(s.TotalAssets), output.FormatCurrency(s.TotalLiabilities), output.FormatCurrency(s.NetWorth))
		}
	}

	fmt.Printf("\n=== HTML REPORT CONTENT ===\n")
	html, err := output.HTMLFormatter{}.Format(result)
	if err != nil {
		log.Fatal(err)
	}
	page := string(html)
	fmt.Printf("HTML size: %d bytes\n", len(page))
	for _, p := range result.Projections {
		ending := output.FormatCurrency(p.Summary.EndingNetWorth)
		if strings.Contains(page, ending) {
			fmt.Printf("ok      %s ending net worth %s is in the report\n", p.ScenarioName, ending)
		} else {
			fmt.Printf("MISSING %s ending net worth %s is not in the report\n", p.ScenarioName, ending)
		}
	}

	fmt.Printf("\n=== CHECKING CACHED COPY ===\n")
	cached, hit, err := cache.GetOrCompute(ctx, store, key, nil, run)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Cache hit: %v\n", hit)
	for i := range result.Projections {
		direct := result.Projections[i].Final().NetWorth
		restored := cached.Projections[i].Final().NetWorth
		fmt.Printf("%s: direct=%s cached=%s match=%v\n",
			result.Projections[i].ScenarioName, output.FormatCurrency(direct), output.FormatCurrency(restored), direct == restored)
	}
}
