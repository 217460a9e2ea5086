package domain

import (
	"time"

	"github.com/rpgo/finplan/pkg/money"
)

// AmortizationEntry is one simulated loan period.
type AmortizationEntry struct {
	Period           int         `json:"period"`
	Date             time.Time   `json:"date"`
	BeginningBalance money.Cents `json:"beginning_balance"`
	Payment          money.Cents `json:"payment"`
	Principal        money.Cents `json:"principal"`
	Interest         money.Cents `json:"interest"`
	Extra            money.Cents `json:"extra"`
	EndingBalance    money.Cents `json:"ending_balance"`
}

// AmortizationSchedule is the full payoff sequence of a loan plus its totals.
type AmortizationSchedule struct {
	Principal        money.Cents         `json:"principal"`
	AnnualRate       money.Rate          `json:"annual_rate"`
	PeriodsPerYear   int                 `json:"periods_per_year"`
	ScheduledPayment money.Cents         `json:"scheduled_payment"`
	Biweekly         bool                `json:"biweekly,omitempty"`
	Entries          []AmortizationEntry `json:"entries"`

	TotalPayments  money.Cents `json:"total_payments"`
	TotalInterest  money.Cents `json:"total_interest"`
	TotalPrincipal money.Cents `json:"total_principal"`
	TotalExtra     money.Cents `json:"total_extra"`
	Periods        int         `json:"periods"`
	PayoffDate     *time.Time  `json:"payoff_date,omitempty"`

	// Truncated is set when the schedule stopped at a period cap before the
	// balance reached zero.
	Truncated bool `json:"truncated,omitempty"`
}

// EndingBalance returns the balance after the last scheduled entry.
func (s *AmortizationSchedule) EndingBalance() money.Cents {
	if len(s.Entries) == 0 {
		return s.Principal
	}
	return s.Entries[len(s.Entries)-1].EndingBalance
}

// MonthsToPayoff converts the number of periods into calendar months.
func (s *AmortizationSchedule) MonthsToPayoff() int {
	if s.PeriodsPerYear <= 0 {
		return s.Periods
	}
	return (s.Periods*12 + s.PeriodsPerYear - 1) / s.PeriodsPerYear
}

// PayoffComparison summarizes how much an accelerated schedule saves.
type PayoffComparison struct {
	InterestSaved money.Cents `json:"interest_saved"`
	PeriodsSaved  int         `json:"periods_saved"`
	MonthsSaved   int         `json:"months_saved"`
}
