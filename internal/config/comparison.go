package config

import (
	"fmt"
	"os"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/money"
	"gopkg.in/yaml.v3"
)

type mortgageInvestFile struct {
	Balance         centsValue `yaml:"balance"`
	AnnualRate      *rateValue `yaml:"annual_rate"`
	RemainingMonths int        `yaml:"remaining_months"`
	ExtraMonthly    centsValue `yaml:"extra_monthly"`
	ExpectedReturn  *rateValue `yaml:"expected_return"`
	HorizonMonths   int        `yaml:"horizon_months"`
	StartDate       *dateValue `yaml:"start_date"`
}

type rentBuyFile struct {
	HomePrice              centsValue   `yaml:"home_price"`
	DownPayment            centsValue   `yaml:"down_payment"`
	ClosingCostPercent     *rateValue   `yaml:"closing_cost_percent"`
	SellingCostPercent     *rateValue   `yaml:"selling_cost_percent"`
	MortgageRate           *rateValue   `yaml:"mortgage_rate"`
	MortgageTermMonths     int          `yaml:"mortgage_term_months"`
	PropertyTaxPercent     *rateValue   `yaml:"property_tax_percent"`
	MaintenancePercent     *rateValue   `yaml:"maintenance_percent"`
	InsuranceAnnual        centsValue   `yaml:"insurance_annual"`
	HOAMonthly             centsValue   `yaml:"hoa_monthly"`
	Appreciation           *rateValue   `yaml:"appreciation"`
	MonthlyRent            centsValue   `yaml:"monthly_rent"`
	RentIncrease           *rateValue   `yaml:"rent_increase"`
	RentersInsuranceAnnual centsValue   `yaml:"renters_insurance_annual"`
	InvestmentReturn       *rateValue   `yaml:"investment_return"`
	HorizonYears           int          `yaml:"horizon_years"`
	StartDate              *dateValue   `yaml:"start_date"`
	Tax                    *taxFileInfo `yaml:"tax"`
}

type taxFileInfo struct {
	FilingStatus string     `yaml:"filing_status"`
	GrossIncome  centsValue `yaml:"gross_income"`
	Year         int        `yaml:"year"`
	StateTax     centsValue `yaml:"state_tax"`
	Charitable   centsValue `yaml:"charitable"`
}

func readYAML(filename string, out any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// LoadMortgageInvest reads a mortgage-vs-invest comparison from a YAML file.
// Missing start dates default to the first of next month.
func (ip *InputParser) LoadMortgageInvest(filename string) (*domain.MortgageInvestInput, error) {
	var file mortgageInvestFile
	if err := readYAML(filename, &file); err != nil {
		return nil, err
	}
	if file.AnnualRate == nil {
		return nil, domain.NewInvalidInput("annual_rate", "is required")
	}
	if file.ExpectedReturn == nil {
		return nil, domain.NewInvalidInput("expected_return", "is required")
	}
	in := &domain.MortgageInvestInput{
		Balance:         money.Cents(file.Balance),
		AnnualRate:      file.AnnualRate.value(),
		RemainingMonths: file.RemainingMonths,
		ExtraMonthly:    money.Cents(file.ExtraMonthly),
		ExpectedReturn:  file.ExpectedReturn.value(),
		HorizonMonths:   file.HorizonMonths,
		StartDate:       file.StartDate.value(),
	}
	if in.StartDate.IsZero() {
		in.StartDate = calculation.DefaultStartDate()
	}
	return in, nil
}

// LoadRentBuy reads a rent-vs-buy comparison from a YAML file. Percentages
// left out of the file are treated as zero.
func (ip *InputParser) LoadRentBuy(filename string) (*domain.RentBuyInput, error) {
	var file rentBuyFile
	if err := readYAML(filename, &file); err != nil {
		return nil, err
	}
	in := &domain.RentBuyInput{
		HomePrice:              money.Cents(file.HomePrice),
		DownPayment:            money.Cents(file.DownPayment),
		ClosingCostPercent:     file.ClosingCostPercent.value(),
		SellingCostPercent:     file.SellingCostPercent.value(),
		MortgageRate:           file.MortgageRate.value(),
		MortgageTermMonths:     file.MortgageTermMonths,
		PropertyTaxPercent:     file.PropertyTaxPercent.value(),
		MaintenancePercent:     file.MaintenancePercent.value(),
		InsuranceAnnual:        money.Cents(file.InsuranceAnnual),
		HOAMonthly:             money.Cents(file.HOAMonthly),
		Appreciation:           file.Appreciation.value(),
		MonthlyRent:            money.Cents(file.MonthlyRent),
		RentIncrease:           file.RentIncrease.value(),
		RentersInsuranceAnnual: money.Cents(file.RentersInsuranceAnnual),
		InvestmentReturn:       file.InvestmentReturn.value(),
		HorizonYears:           file.HorizonYears,
		StartDate:              file.StartDate.value(),
	}
	if in.StartDate.IsZero() {
		in.StartDate = calculation.DefaultStartDate()
	}
	if file.Tax != nil {
		status, err := domain.ParseFilingStatus(file.Tax.FilingStatus)
		if err != nil {
			return nil, err
		}
		in.Tax = &domain.TaxProfile{
			FilingStatus: status,
			GrossIncome:  money.Cents(file.Tax.GrossIncome),
			Year:         file.Tax.Year,
			StateTax:     money.Cents(file.Tax.StateTax),
			Charitable:   money.Cents(file.Tax.Charitable),
		}
	}
	return in, nil
}
