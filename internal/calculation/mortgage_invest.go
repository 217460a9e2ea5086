package calculation

import (
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
)

const (
	TrackPayExtra = "pay_extra"
	TrackInvest   = "invest"
)

// Search range for the break-even investment return, in percent.
var (
	mortgageReturnLow  = money.NewRate(0)
	mortgageReturnHigh = money.NewRate(30)
)

func validateMortgageInvest(in domain.MortgageInvestInput) error {
	if in.Balance < 0 {
		return domain.NewInvalidInput("balance", "cannot be negative")
	}
	if in.AnnualRate.IsNegative() {
		return domain.NewInvalidInput("annual_rate", "cannot be negative")
	}
	if in.RemainingMonths <= 0 {
		return domain.NewInvalidInput("remaining_months", "must be positive, got %d", in.RemainingMonths)
	}
	if in.ExtraMonthly < 0 {
		return domain.NewInvalidInput("extra_monthly", "cannot be negative")
	}
	if in.ExpectedReturn.LessThanOrEqual(money.NewRate(-100).Decimal) {
		return domain.NewInvalidInput("expected_return", "must be greater than -100")
	}
	if in.HorizonMonths < 0 {
		return domain.NewInvalidInput("horizon_months", "cannot be negative")
	}
	if in.StartDate.IsZero() {
		return domain.NewInvalidInput("start_date", "is required")
	}
	return nil
}

// mortgageInvestSim holds what both tracks share: the regular and the
// accelerated schedules and the fixed monthly budget.
type mortgageInvestSim struct {
	in          domain.MortgageInvestInput
	horizon     int
	budget      money.Cents
	base        *domain.AmortizationSchedule
	accelerated *domain.AmortizationSchedule
}

// run simulates both strategies at the given investment return. Each month
// the whole budget goes out: first to the loan payment due on that track, the
// rest into an investment account that compounds monthly.
func (s *mortgageInvestSim) run(expectedReturn money.Rate) (payExtra, invest domain.Track) {
	payExtra = s.track(TrackPayExtra, s.accelerated, expectedReturn)
	invest = s.track(TrackInvest, s.base, expectedReturn)
	return payExtra, invest
}

func (s *mortgageInvestSim) track(name string, schedule *domain.AmortizationSchedule, expectedReturn money.Rate) domain.Track {
	start := dateutil.Normalize(s.in.StartDate)
	track := domain.Track{Name: name, Points: make([]domain.TrackPoint, 0, s.horizon/12+2)}
	track.Points = append(track.Points, domain.TrackPoint{
		Date:        start,
		Liabilities: s.in.Balance,
		Net:         -s.in.Balance,
	})

	var portfolio, outlay, interest money.Cents
	balance := s.in.Balance
	for month := 1; month <= s.horizon; month++ {
		var payment money.Cents
		if month <= len(schedule.Entries) {
			e := schedule.Entries[month-1]
			payment = e.Payment
			interest += e.Interest
			balance = e.EndingBalance
		}
		outlay += payment
		portfolio = GrowthStep(portfolio, &expectedReturn, 12) + (s.budget - payment)

		if month%12 == 0 || month == s.horizon {
			track.Points = append(track.Points, domain.TrackPoint{
				Year:        (month + 11) / 12,
				Date:        dateutil.AddMonths(start, month),
				Assets:      portfolio,
				Liabilities: balance,
				Net:         portfolio - balance,
				Outlay:      outlay,
				Interest:    interest,
			})
		}
	}
	return track
}

func (s *mortgageInvestSim) advantage(expectedReturn money.Rate) (money.Cents, error) {
	payExtra, invest := s.run(expectedReturn)
	return payExtra.Final().Net - invest.Final().Net, nil
}

// CompareMortgageVsInvest weighs putting an extra monthly amount toward the
// mortgage against investing it. Both tracks spend the same monthly budget
// (the regular payment plus the extra) over the same horizon; once a loan is
// paid off the whole budget is invested. The advantage is the pay-extra
// track's final net position minus the invest track's.
func (ce *CalculationEngine) CompareMortgageVsInvest(in domain.MortgageInvestInput) (*domain.ComparisonResult, error) {
	if err := validateMortgageInvest(in); err != nil {
		return nil, err
	}
	horizon := in.HorizonMonths
	if horizon == 0 {
		horizon = in.RemainingMonths
	}

	terms := LoanTerms{
		Principal:   in.Balance,
		AnnualRate:  in.AnnualRate,
		TermPeriods: in.RemainingMonths,
		StartDate:   dateutil.Normalize(in.StartDate),
	}
	base, err := Amortize(terms)
	if err != nil {
		return nil, err
	}
	terms.ExtraPayment = in.ExtraMonthly
	accelerated, err := Amortize(terms)
	if err != nil {
		return nil, err
	}

	sim := &mortgageInvestSim{
		in:          in,
		horizon:     horizon,
		budget:      base.ScheduledPayment + in.ExtraMonthly,
		base:        base,
		accelerated: accelerated,
	}
	payExtra, invest := sim.run(in.ExpectedReturn)

	result := &domain.ComparisonResult{
		Kind:          domain.ComparisonMortgageVsInvest,
		HorizonMonths: horizon,
		Tracks:        []domain.Track{payExtra, invest},
		Advantage:     payExtra.Final().Net - invest.Final().Net,
	}
	result.Recommendation = ce.recommend(result.Advantage, domain.RecommendPayExtra, domain.RecommendInvest)

	savings := ComparePayoff(base, accelerated)
	result.InterestSaved = savings.InterestSaved
	result.MonthsSaved = savings.MonthsSaved

	result.BreakEvenYear, err = CalculateBreakEvenCrossover(payExtra.Points, invest.Points)
	if err != nil {
		return nil, err
	}
	result.BreakEvenRate, err = Bisect(sim.advantage, mortgageReturnLow, mortgageReturnHigh, ce.Bisect)
	if err != nil {
		return nil, err
	}

	ce.log().Debugf("mortgage vs invest: advantage=%s recommendation=%s break-even return=%s%% converged=%t",
		result.Advantage, result.Recommendation, result.BreakEvenRate.Rate, result.BreakEvenRate.Converged)
	return result, nil
}

// recommend maps an advantage of the first strategy over the second to a
// recommendation, treating magnitudes under the neutral threshold as a tie.
func (ce *CalculationEngine) recommend(advantage money.Cents, first, second domain.Recommendation) domain.Recommendation {
	threshold := ce.NeutralThreshold
	if threshold <= 0 {
		threshold = DefaultNeutralThreshold
	}
	switch {
	case advantage.Abs() < threshold:
		return domain.RecommendNeutral
	case advantage > 0:
		return first
	default:
		return second
	}
}
