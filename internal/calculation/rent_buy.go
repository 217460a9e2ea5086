package calculation

import (
	"fmt"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	TrackBuy  = "buy"
	TrackRent = "rent"
)

// Search range for the break-even home appreciation, in percent.
var (
	appreciationLow  = money.NewRate(-10)
	appreciationHigh = money.NewRate(20)
)

func validateRentBuy(in domain.RentBuyInput) error {
	minusHundred := money.NewRate(-100).Decimal
	if in.HomePrice <= 0 {
		return domain.NewInvalidInput("home_price", "must be positive")
	}
	if in.DownPayment < 0 || in.DownPayment > in.HomePrice {
		return domain.NewInvalidInput("down_payment", "must be between 0 and the home price")
	}
	percents := []struct {
		field string
		value money.Rate
	}{
		{"closing_cost_percent", in.ClosingCostPercent},
		{"selling_cost_percent", in.SellingCostPercent},
		{"mortgage_rate", in.MortgageRate},
		{"property_tax_percent", in.PropertyTaxPercent},
		{"maintenance_percent", in.MaintenancePercent},
	}
	for _, p := range percents {
		if p.value.IsNegative() {
			return domain.NewInvalidInput(p.field, "cannot be negative")
		}
	}
	if in.DownPayment < in.HomePrice && in.MortgageTermMonths <= 0 {
		return domain.NewInvalidInput("mortgage_term_months", "must be positive, got %d", in.MortgageTermMonths)
	}
	amounts := []struct {
		field string
		value money.Cents
	}{
		{"insurance_annual", in.InsuranceAnnual},
		{"hoa_monthly", in.HOAMonthly},
		{"monthly_rent", in.MonthlyRent},
		{"renters_insurance_annual", in.RentersInsuranceAnnual},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return domain.NewInvalidInput(a.field, "cannot be negative")
		}
	}
	if in.Appreciation.LessThanOrEqual(minusHundred) {
		return domain.NewInvalidInput("appreciation", "must be greater than -100")
	}
	if in.RentIncrease.LessThanOrEqual(minusHundred) {
		return domain.NewInvalidInput("rent_increase", "must be greater than -100")
	}
	if in.InvestmentReturn.LessThanOrEqual(minusHundred) {
		return domain.NewInvalidInput("investment_return", "must be greater than -100")
	}
	if in.HorizonYears <= 0 {
		return domain.NewInvalidInput("horizon_years", "must be a positive integer, got %d", in.HorizonYears)
	}
	if in.StartDate.IsZero() {
		return domain.NewInvalidInput("start_date", "is required")
	}
	if tp := in.Tax; tp != nil {
		if _, err := domain.ParseFilingStatus(string(tp.FilingStatus)); err != nil {
			return err
		}
		if tp.GrossIncome < 0 {
			return domain.NewInvalidInput("tax.gross_income", "cannot be negative")
		}
		if tp.StateTax < 0 {
			return domain.NewInvalidInput("tax.state_tax", "cannot be negative")
		}
		if tp.Charitable < 0 {
			return domain.NewInvalidInput("tax.charitable", "cannot be negative")
		}
	}
	return nil
}

type rentBuySim struct {
	in       domain.RentBuyInput
	mortgage *domain.AmortizationSchedule
	loan     money.Cents
	upfront  money.Cents
	taxes    *TaxEngine
}

// run simulates owning and renting month by month at the given home
// appreciation. Both households spend the larger of the two monthly housing
// costs: the side with the cheaper month invests the difference, and the
// renter starts with the cash the buyer spends up front. The buyer's position
// is the home net of selling costs, plus its portfolio, less the mortgage.
func (s *rentBuySim) run(appreciation money.Rate) (buy, rent domain.Track, totals domain.RentBuyTotals, err error) {
	in := s.in
	start := dateutil.Normalize(in.StartDate)
	months := in.HorizonYears * 12

	sellingCosts := func(value money.Cents) money.Cents {
		return value.MulDecimal(in.SellingCostPercent.Fraction())
	}

	home := in.HomePrice
	balance := s.loan
	rentDue := in.MonthlyRent
	var buyer, renter money.Cents
	renter = s.upfront

	buy = domain.Track{Name: TrackBuy, Points: make([]domain.TrackPoint, 0, in.HorizonYears+1)}
	rent = domain.Track{Name: TrackRent, Points: make([]domain.TrackPoint, 0, in.HorizonYears+1)}
	buy.Points = append(buy.Points, domain.TrackPoint{
		Date:        start,
		Assets:      home - sellingCosts(home),
		Liabilities: balance,
		Net:         home - sellingCosts(home) - balance,
		Outlay:      s.upfront,
	})
	rent.Points = append(rent.Points, domain.TrackPoint{
		Date:   start,
		Assets: renter,
		Net:    renter,
	})

	totals.UpfrontCash = s.upfront
	buyOutlay, rentOutlay := s.upfront, money.Cents(0)
	var interest, yearInterest, yearPropertyTax money.Cents

	insurance := in.InsuranceAnnual.DivInt(12)
	rentersInsurance := in.RentersInsuranceAnnual.DivInt(12)
	for month := 1; month <= months; month++ {
		var payment money.Cents
		if month <= len(s.mortgage.Entries) {
			e := s.mortgage.Entries[month-1]
			payment = e.Payment
			interest += e.Interest
			yearInterest += e.Interest
			balance = e.EndingBalance
		}
		propertyTax := home.MulDecimal(in.PropertyTaxPercent.PeriodRate(12))
		maintenance := home.MulDecimal(in.MaintenancePercent.PeriodRate(12))
		yearPropertyTax += propertyTax

		ownCost := payment + propertyTax + maintenance + insurance + in.HOAMonthly
		rentCost := rentDue + rentersInsurance
		totals.TotalOwnershipCost += ownCost
		totals.TotalRent += rentCost
		buyOutlay += ownCost
		rentOutlay += rentCost

		buyer = GrowthStep(buyer, &in.InvestmentReturn, 12)
		renter = GrowthStep(renter, &in.InvestmentReturn, 12)
		if ownCost > rentCost {
			renter += ownCost - rentCost
		} else {
			buyer += rentCost - ownCost
		}
		home = GrowthStep(home, &appreciation, 12)

		if month%12 != 0 {
			continue
		}
		year := month / 12

		if in.Tax != nil {
			saving, err := s.taxSaving(start.Year()+year-1, yearInterest, yearPropertyTax)
			if err != nil {
				return buy, rent, totals, err
			}
			buyer += saving
			totals.TaxSavings += saving
		}
		yearInterest, yearPropertyTax = 0, 0
		rentDue = rentDue.MulDecimal(in.RentIncrease.Fraction().Add(decimal.NewFromInt(1)))

		date := dateutil.AddMonths(start, month)
		selling := sellingCosts(home)
		buy.Points = append(buy.Points, domain.TrackPoint{
			Year:        year,
			Date:        date,
			Assets:      home - selling + buyer,
			Liabilities: balance,
			Net:         home - selling + buyer - balance,
			Outlay:      buyOutlay,
			Interest:    interest,
		})
		rent.Points = append(rent.Points, domain.TrackPoint{
			Year:   year,
			Date:   date,
			Assets: renter,
			Net:    renter,
			Outlay: rentOutlay,
		})
	}

	totals.TotalInterest = interest
	totals.FinalHomeValue = home
	totals.SellingCosts = sellingCosts(home)
	return buy, rent, totals, nil
}

// taxSaving is the federal tax the buyer avoids in a year by itemizing
// mortgage interest and property tax on top of the household's other
// itemized deductions.
func (s *rentBuySim) taxSaving(defaultYear int, mortgageInterest, propertyTax money.Cents) (money.Cents, error) {
	tp := s.in.Tax
	status, _ := domain.ParseFilingStatus(string(tp.FilingStatus))
	year := defaultYear
	if tp.Year != 0 {
		year = tp.Year + (defaultYear - s.in.StartDate.Year())
	}

	other := domain.ItemizedDeductions{StateTax: tp.StateTax, Charitable: tp.Charitable}
	without, err := s.taxes.Calculate(domain.TaxInput{
		GrossIncome:  tp.GrossIncome,
		FilingStatus: status,
		Year:         year,
		Itemized:     &other,
	})
	if err != nil {
		return 0, fmt.Errorf("tax without home: %w", err)
	}

	owner := other
	owner.MortgageInterest = mortgageInterest
	owner.PropertyTax = propertyTax
	with, err := s.taxes.Calculate(domain.TaxInput{
		GrossIncome:  tp.GrossIncome,
		FilingStatus: status,
		Year:         year,
		Itemized:     &owner,
	})
	if err != nil {
		return 0, fmt.Errorf("tax with home: %w", err)
	}
	return money.Max(without.TotalTax-with.TotalTax, 0), nil
}

func (s *rentBuySim) advantage(appreciation money.Rate) (money.Cents, error) {
	buy, rent, _, err := s.run(appreciation)
	if err != nil {
		return 0, err
	}
	return buy.Final().Net - rent.Final().Net, nil
}

// CompareRentVsBuy weighs buying a home against renting and investing the
// difference over the same horizon. The advantage is the buyer's final net
// position minus the renter's; the break-even rate is the home appreciation
// at which the two are equal.
func (ce *CalculationEngine) CompareRentVsBuy(in domain.RentBuyInput) (*domain.ComparisonResult, error) {
	if err := validateRentBuy(in); err != nil {
		return nil, err
	}

	loan := in.HomePrice - in.DownPayment
	mortgage := &domain.AmortizationSchedule{}
	if loan > 0 {
		var err error
		mortgage, err = Amortize(LoanTerms{
			Principal:   loan,
			AnnualRate:  in.MortgageRate,
			TermPeriods: in.MortgageTermMonths,
			StartDate:   dateutil.Normalize(in.StartDate),
		})
		if err != nil {
			return nil, err
		}
	}

	taxes, err := ce.taxEngine()
	if err != nil {
		return nil, err
	}

	sim := &rentBuySim{
		in:       in,
		mortgage: mortgage,
		loan:     loan,
		upfront:  in.DownPayment + in.HomePrice.MulDecimal(in.ClosingCostPercent.Fraction()),
		taxes:    taxes,
	}
	buy, rent, totals, err := sim.run(in.Appreciation)
	if err != nil {
		return nil, err
	}

	result := &domain.ComparisonResult{
		Kind:          domain.ComparisonRentVsBuy,
		HorizonMonths: in.HorizonYears * 12,
		Tracks:        []domain.Track{buy, rent},
		Advantage:     buy.Final().Net - rent.Final().Net,
		RentBuy:       &totals,
	}
	result.Recommendation = ce.recommend(result.Advantage, domain.RecommendBuy, domain.RecommendRent)

	result.BreakEvenYear, err = CalculateBreakEvenCrossover(buy.Points, rent.Points)
	if err != nil {
		return nil, err
	}
	result.BreakEvenRate, err = Bisect(sim.advantage, appreciationLow, appreciationHigh, ce.Bisect)
	if err != nil {
		return nil, err
	}

	ce.log().Debugf("rent vs buy: advantage=%s recommendation=%s break-even appreciation=%s%% converged=%t",
		result.Advantage, result.Recommendation, result.BreakEvenRate.Rate, result.BreakEvenRate.Converged)
	return result, nil
}
