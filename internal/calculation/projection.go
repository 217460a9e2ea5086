package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// liabilityTrack is a liability's precomputed payment schedule walked by the
// projection loop with a cursor.
type liabilityTrack struct {
	id      string
	balance money.Cents
	entries []domain.AmortizationEntry
	next    int
}

// advance consumes every payment dated on or before until and returns the
// principal and interest paid along with the resulting balance.
func (lt *liabilityTrack) advance(until time.Time) (paid, interest money.Cents) {
	for lt.next < len(lt.entries) && !lt.entries[lt.next].Date.After(until) {
		e := lt.entries[lt.next]
		paid += e.Payment
		interest += e.Interest
		lt.balance = e.EndingBalance
		lt.next++
	}
	return paid, interest
}

type occurrence struct {
	date   time.Time
	amount money.Cents
}

// cashFlowTrack holds every occurrence of a cash flow inside the horizon.
type cashFlowTrack struct {
	item        domain.CashFlowItem
	occurrences []occurrence
	next        int
}

func (ct *cashFlowTrack) advance(until time.Time) money.Cents {
	var total money.Cents
	for ct.next < len(ct.occurrences) && !ct.occurrences[ct.next].date.After(until) {
		total += ct.occurrences[ct.next].amount
		ct.next++
	}
	return total
}

// Project simulates the household under an optional scenario and returns one
// snapshot per period boundary, period 0 being the current state.
//
// Each period assets pay dividends from their opening value and then compound,
// liabilities follow their own amortization schedule, and every cash flow
// occurrence inside the window (previous date, current date] is counted.
// Net worth is always the exact difference of the totals.
func Project(household domain.Household, scenario *domain.Scenario, opts domain.ProjectionOptions) (*domain.Projection, error) {
	projection, _, err := project(household, scenario, opts)
	return projection, err
}

// project is Project that also returns the overrides skipped for targeting an
// unknown entity.
func project(household domain.Household, scenario *domain.Scenario, opts domain.ProjectionOptions) (*domain.Projection, []domain.Override, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	effective, skipped := ApplyOverrides(household, scenario)
	if err := effective.Validate(); err != nil {
		return nil, nil, err
	}
	sweep := -1
	if opts.SweepAssetID != "" {
		sweep = effective.FindAsset(opts.SweepAssetID)
		if sweep < 0 {
			return nil, nil, domain.NewInvalidInput("sweep_asset_id", "no asset with id %q", opts.SweepAssetID)
		}
	}

	start := dateutil.Normalize(opts.StartDate)
	periodsPerYear := opts.Granularity.PeriodsPerYear()
	totalPeriods := opts.HorizonYears * periodsPerYear
	horizonEnd := dateutil.AddPeriods(start, totalPeriods, periodsPerYear)

	liabilities := make([]*liabilityTrack, len(effective.Liabilities))
	for i, l := range effective.Liabilities {
		track, err := buildLiabilityTrack(l, start, horizonEnd)
		if err != nil {
			return nil, nil, err
		}
		liabilities[i] = track
	}
	cashFlows := make([]*cashFlowTrack, len(effective.CashFlows))
	for i, c := range effective.CashFlows {
		cashFlows[i] = buildCashFlowTrack(c, start, horizonEnd)
	}

	assetValues := make([]money.Cents, len(effective.Assets))
	for i, a := range effective.Assets {
		assetValues[i] = a.Value
	}

	projection := &domain.Projection{
		Options:   opts,
		Snapshots: make([]domain.Snapshot, 0, totalPeriods+1),
	}
	if scenario != nil {
		projection.ScenarioID = scenario.ID
		projection.ScenarioName = scenario.Name
		projection.Baseline = scenario.Baseline
	}

	projection.Snapshots = append(projection.Snapshots, buildSnapshot(0, start, effective, assetValues, liabilities))

	for period := 1; period <= totalPeriods; period++ {
		date := dateutil.AddPeriods(start, period, periodsPerYear)

		// Dividends are paid from the opening value and are not reinvested.
		var dividends money.Cents
		for i, a := range effective.Assets {
			if a.DividendYield != nil {
				dividends += assetValues[i].MulDecimal(a.DividendYield.PeriodRate(periodsPerYear))
			}
			assetValues[i] = GrowthStep(assetValues[i], a.GrowthRate, periodsPerYear)
		}

		var debtPaid, interestPaid money.Cents
		for _, lt := range liabilities {
			paid, interest := lt.advance(date)
			debtPaid += paid
			interestPaid += interest
		}

		var income, expenses money.Cents
		for _, ct := range cashFlows {
			amount := ct.advance(date)
			if ct.item.Type == domain.CashFlowIncome {
				income += amount
			} else {
				expenses += amount
			}
		}

		net := income + dividends - expenses - debtPaid
		if sweep >= 0 {
			assetValues[sweep] += net
		}

		snap := buildSnapshot(period, date, effective, assetValues, liabilities)
		snap.Income = income
		snap.Dividends = dividends
		snap.Expenses = expenses
		snap.DebtPaid = debtPaid
		snap.InterestPaid = interestPaid
		snap.NetCashFlow = net
		projection.Snapshots = append(projection.Snapshots, snap)
	}

	projection.Summary = summarize(projection.Snapshots)
	return projection, skipped, nil
}

func buildSnapshot(period int, date time.Time, h domain.Household, assetValues []money.Cents, liabilities []*liabilityTrack) domain.Snapshot {
	snap := domain.Snapshot{
		Period:            period,
		Date:              date,
		AssetBalances:     make(map[string]money.Cents, len(assetValues)),
		LiabilityBalances: make(map[string]money.Cents, len(liabilities)),
	}
	for i, a := range h.Assets {
		snap.AssetBalances[a.ID] = assetValues[i]
		snap.TotalAssets += assetValues[i]
	}
	for _, lt := range liabilities {
		snap.LiabilityBalances[lt.id] = lt.balance
		snap.TotalLiabilities += lt.balance
	}
	snap.NetWorth = snap.TotalAssets - snap.TotalLiabilities
	return snap
}

// buildLiabilityTrack amortizes a liability from the projection start in its
// own payment frequency. The remaining term is the contractual term less the
// periods already paid since origination (at least one). Without a term the
// balance divided by the minimum payment is used; without either the balance
// is held flat. The scheduled payment is the level payment over the remaining
// term, raised to the minimum payment when that is larger.
func buildLiabilityTrack(l domain.Liability, start, horizonEnd time.Time) (*liabilityTrack, error) {
	track := &liabilityTrack{id: l.ID, balance: l.Balance}
	periodsPerYear := l.PaymentFrequency.PeriodsPerYear()

	var remaining int
	switch {
	case l.TermPeriods != nil:
		remaining = *l.TermPeriods
		if l.OriginationDate != nil {
			remaining -= dateutil.PeriodsBetween(*l.OriginationDate, start, periodsPerYear)
		}
		if remaining < 1 {
			remaining = 1
		}
	case l.MinimumPayment > 0:
		remaining = int((l.Balance + l.MinimumPayment - 1) / l.MinimumPayment)
		if remaining < 1 {
			remaining = 1
		}
	default:
		return track, nil
	}

	payment := CalculatePayment(l.Balance, l.InterestRate.PeriodRate(periodsPerYear), remaining)
	if l.MinimumPayment > payment {
		payment = l.MinimumPayment
	}

	schedule, err := Amortize(LoanTerms{
		Principal:      l.Balance,
		AnnualRate:     l.InterestRate,
		TermPeriods:    remaining,
		PeriodsPerYear: periodsPerYear,
		ExtraPayment:   l.ExtraPayment,
		StartDate:      start,
		Payment:        payment,
		MaxPeriods:     dateutil.PeriodsBetween(start, horizonEnd, periodsPerYear) + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("liabilities[%s]: %w", l.ID, err)
	}
	track.entries = schedule.Entries
	return track, nil
}

// buildCashFlowTrack lists the occurrences of a cash flow that fall after the
// projection start and no later than the horizon. Occurrences are anchored at
// the item's start date (or the projection start) and their amount compounds
// once per whole year elapsed since the projection start.
func buildCashFlowTrack(c domain.CashFlowItem, start, horizonEnd time.Time) *cashFlowTrack {
	track := &cashFlowTrack{item: c}
	anchor := start
	if c.StartDate != nil {
		anchor = dateutil.Normalize(*c.StartDate)
	}
	last := horizonEnd
	if c.EndDate != nil && c.EndDate.Before(last) {
		last = dateutil.Normalize(*c.EndDate)
	}

	amounts := make(map[int]money.Cents)
	amountFor := func(date time.Time) money.Cents {
		years := dateutil.WholeYearsBetween(start, date)
		if years <= 0 || c.GrowthRate == nil {
			return c.Amount
		}
		if v, ok := amounts[years]; ok {
			return v
		}
		factor := decimal.NewFromInt(1).Add(c.GrowthRate.Fraction()).Pow(decimal.NewFromInt(int64(years)))
		v := c.Amount.MulDecimal(factor)
		amounts[years] = v
		return v
	}

	if c.Frequency == domain.FrequencyOnce {
		if anchor.After(start) && !anchor.After(last) {
			track.occurrences = append(track.occurrences, occurrence{date: anchor, amount: amountFor(anchor)})
		}
		return track
	}

	periodsPerYear := c.Frequency.PeriodsPerYear()
	for k := 0; ; k++ {
		date := dateutil.AddPeriods(anchor, k, periodsPerYear)
		if date.After(last) {
			break
		}
		if date.After(start) {
			track.occurrences = append(track.occurrences, occurrence{date: date, amount: amountFor(date)})
		}
	}
	return track
}

func summarize(snapshots []domain.Snapshot) domain.ProjectionSummary {
	var s domain.ProjectionSummary
	if len(snapshots) == 0 {
		return s
	}
	first, last := snapshots[0], snapshots[len(snapshots)-1]
	s.StartingNetWorth = first.NetWorth
	s.EndingNetWorth = last.NetWorth
	s.NetWorthChange = last.NetWorth - first.NetWorth
	if first.NetWorth != 0 {
		s.PercentChange = s.NetWorthChange.Decimal().
			Div(first.NetWorth.Abs().Decimal()).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	for _, snap := range snapshots {
		s.TotalIncome += snap.Income
		s.TotalDividends += snap.Dividends
		s.TotalExpenses += snap.Expenses
		s.TotalDebtPaid += snap.DebtPaid
		s.TotalInterest += snap.InterestPaid
		if s.DebtFreeDate == nil && snap.TotalLiabilities == 0 {
			d := snap.Date
			s.DebtFreeDate = &d
		}
	}
	return s
}
