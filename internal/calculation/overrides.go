package calculation

import (
	"github.com/rpgo/finplan/internal/domain"
)

// ApplyOverrides returns a copy of the household with the scenario's overrides
// applied in order, so a later override of the same field wins. The caller's
// household is never modified. Overrides that target an id missing from the
// household are skipped and returned.
func ApplyOverrides(h domain.Household, scenario *domain.Scenario) (domain.Household, []domain.Override) {
	effective := h.Clone()
	if scenario == nil {
		return effective, nil
	}

	var skipped []domain.Override
	for _, o := range scenario.Overrides {
		if !applyOverride(&effective, o) {
			skipped = append(skipped, o)
		}
	}
	return effective, skipped
}

func applyOverride(h *domain.Household, o domain.Override) bool {
	switch o.Kind {
	case domain.KindAsset:
		i := h.FindAsset(o.EntityID)
		if i < 0 {
			return false
		}
		return applyAssetOverride(&h.Assets[i], o)
	case domain.KindLiability:
		i := h.FindLiability(o.EntityID)
		if i < 0 {
			return false
		}
		return applyLiabilityOverride(&h.Liabilities[i], o)
	case domain.KindCashFlow:
		i := h.FindCashFlow(o.EntityID)
		if i < 0 {
			return false
		}
		return applyCashFlowOverride(&h.CashFlows[i], o)
	}
	return false
}

func applyAssetOverride(a *domain.Asset, o domain.Override) bool {
	switch o.Field {
	case domain.AssetCurrentValue:
		a.Value = o.Value.Cents
	case domain.AssetGrowthRate:
		a.GrowthRate = o.Value.RatePtr()
	case domain.AssetDividendYield:
		a.DividendYield = o.Value.RatePtr()
	default:
		return false
	}
	return true
}

func applyLiabilityOverride(l *domain.Liability, o domain.Override) bool {
	switch o.Field {
	case domain.LiabilityCurrentBalance:
		l.Balance = o.Value.Cents
	case domain.LiabilityInterestRate:
		l.InterestRate = o.Value.Rate
	case domain.LiabilityMinimumPayment:
		l.MinimumPayment = o.Value.Cents
	case domain.LiabilityTermPeriods:
		l.TermPeriods = o.Value.IntPtr()
	case domain.LiabilityExtraPayment:
		l.ExtraPayment = o.Value.Cents
	default:
		return false
	}
	return true
}

func applyCashFlowOverride(c *domain.CashFlowItem, o domain.Override) bool {
	switch o.Field {
	case domain.CashFlowAmount:
		c.Amount = o.Value.Cents
	case domain.CashFlowGrowthRate:
		c.GrowthRate = o.Value.RatePtr()
	case domain.CashFlowStartDate:
		c.StartDate = o.Value.DatePtr()
	case domain.CashFlowEndDate:
		c.EndDate = o.Value.DatePtr()
	default:
		return false
	}
	return true
}
