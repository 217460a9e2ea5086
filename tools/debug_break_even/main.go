package main

import (
	"fmt"
	"os"

	calc "github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	log "github.com/sirupsen/logrus"
)

// Prints every bisection step of a comparison, then the yearly net position of
// both tracks side by side.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: debug_break_even <mortgage-vs-invest|rent-vs-buy> <input-file>")
		return
	}
	kind, f := os.Args[1], os.Args[2]

	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(log.DebugLevel)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	engine := calc.NewCalculationEngine()
	engine.SetLogger(logger)

	p := config.NewInputParser()
	var (
		res *domain.ComparisonResult
		err error
	)
	switch kind {
	case "mortgage-vs-invest":
		in, lerr := p.LoadMortgageInvest(f)
		if lerr != nil {
			panic(lerr)
		}
		res, err = engine.CompareMortgageVsInvest(*in)
	case "rent-vs-buy":
		in, lerr := p.LoadRentBuy(f)
		if lerr != nil {
			panic(lerr)
		}
		res, err = engine.CompareRentVsBuy(*in)
	default:
		fmt.Printf("unknown comparison %q\n", kind)
		return
	}
	if err != nil {
		panic(err)
	}
	if len(res.Tracks) < 2 {
		fmt.Println("no tracks")
		return
	}

	a, b := res.Tracks[0], res.Tracks[1]
	fmt.Printf("\nYear,Date,%s_Net,%s_Net,Diff\n", a.Name, b.Name)
	for i := 0; i < len(a.Points) && i < len(b.Points); i++ {
		pa, pb := a.Points[i], b.Points[i]
		fmt.Printf("%d,%s,%s,%s,%s\n", pa.Year, dateutil.Format(pa.Date), pa.Net, pb.Net, pa.Net-pb.Net)
	}

	be := res.BreakEvenRate
	fmt.Printf("\nBreakEvenRate: rate=%s%% residual=%s iterations=%d bracketed=%t converged=%t\n",
		be.Rate, be.Residual, be.Iterations, be.Bracketed, be.Converged)
	fmt.Printf("BreakEvenYear: %+v\n", res.BreakEvenYear)
	fmt.Printf("Advantage: %s -> %s\n", res.Advantage, res.Recommendation)
}
