package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"github.com/shopspring/decimal"
)

// EntityKind identifies which collection an override targets.
type EntityKind string

const (
	KindAsset     EntityKind = "asset"
	KindLiability EntityKind = "liability"
	KindCashFlow  EntityKind = "cash_flow"
)

// OverrideField is one member of an entity kind's closed set of overridable
// fields. The same name may appear under more than one kind.
type OverrideField string

const (
	AssetCurrentValue  OverrideField = "current_value"
	AssetGrowthRate    OverrideField = "growth_rate"
	AssetDividendYield OverrideField = "dividend_yield"

	LiabilityCurrentBalance OverrideField = "current_balance"
	LiabilityInterestRate   OverrideField = "interest_rate"
	LiabilityMinimumPayment OverrideField = "minimum_payment"
	LiabilityTermPeriods    OverrideField = "term_periods"
	LiabilityExtraPayment   OverrideField = "extra_payment"

	CashFlowAmount     OverrideField = "amount"
	CashFlowGrowthRate OverrideField = "growth_rate"
	CashFlowStartDate  OverrideField = "start_date"
	CashFlowEndDate    OverrideField = "end_date"
)

// ValueKind is the type carried by an OverrideValue.
type ValueKind string

const (
	ValueCents ValueKind = "cents"
	ValueRate  ValueKind = "rate"
	ValueInt   ValueKind = "int"
	ValueDate  ValueKind = "date"
)

type fieldSpec struct {
	kind     ValueKind
	nullable bool
}

var overrideFields = map[EntityKind]map[OverrideField]fieldSpec{
	KindAsset: {
		AssetCurrentValue:  {ValueCents, false},
		AssetGrowthRate:    {ValueRate, true},
		AssetDividendYield: {ValueRate, true},
	},
	KindLiability: {
		LiabilityCurrentBalance: {ValueCents, false},
		LiabilityInterestRate:   {ValueRate, false},
		LiabilityMinimumPayment: {ValueCents, false},
		LiabilityTermPeriods:    {ValueInt, true},
		LiabilityExtraPayment:   {ValueCents, false},
	},
	KindCashFlow: {
		CashFlowAmount:     {ValueCents, false},
		CashFlowGrowthRate: {ValueRate, true},
		CashFlowStartDate:  {ValueDate, true},
		CashFlowEndDate:    {ValueDate, true},
	},
}

// OverrideValue is the typed replacement value of an override. Exactly one
// member matching Kind is meaningful; a nullable field may carry Null.
type OverrideValue struct {
	Kind  ValueKind
	Null  bool
	Cents money.Cents
	Rate  money.Rate
	Int   int
	Date  time.Time
}

// MarshalJSON encodes the value in the same shape it is accepted in input:
// integer cents, a bare percentage, an integer, a date string or null.
func (v OverrideValue) MarshalJSON() ([]byte, error) {
	if v.Null {
		return []byte("null"), nil
	}
	switch v.Kind {
	case ValueCents:
		return json.Marshal(int64(v.Cents))
	case ValueRate:
		return v.Rate.MarshalJSON()
	case ValueInt:
		return json.Marshal(v.Int)
	case ValueDate:
		return json.Marshal(dateutil.Format(v.Date))
	}
	return []byte("null"), nil
}

// RatePtr returns the rate, or nil for a null value.
func (v OverrideValue) RatePtr() *money.Rate {
	if v.Null {
		return nil
	}
	r := v.Rate
	return &r
}

// IntPtr returns the integer, or nil for a null value.
func (v OverrideValue) IntPtr() *int {
	if v.Null {
		return nil
	}
	n := v.Int
	return &n
}

// DatePtr returns the date, or nil for a null value.
func (v OverrideValue) DatePtr() *time.Time {
	if v.Null {
		return nil
	}
	d := v.Date
	return &d
}

func (v OverrideValue) String() string {
	if v.Null {
		return "null"
	}
	switch v.Kind {
	case ValueCents:
		return v.Cents.String()
	case ValueRate:
		return v.Rate.Percent(2)
	case ValueInt:
		return strconv.Itoa(v.Int)
	case ValueDate:
		return dateutil.Format(v.Date)
	}
	return ""
}

// Override replaces one field of one entity for a single scenario run.
type Override struct {
	Kind     EntityKind    `json:"kind"`
	EntityID string        `json:"entity_id"`
	Field    OverrideField `json:"field"`
	Value    OverrideValue `json:"value"`
}

// Target renders the override target as kind[id].field.
func (o Override) Target() string {
	return fmt.Sprintf("%s[%s].%s", o.Kind, o.EntityID, o.Field)
}

// Scenario is a named set of overrides applied on top of the household.
type Scenario struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Baseline  bool       `json:"baseline"`
	Overrides []Override `json:"overrides,omitempty"`
}

// IgnoredOverride records an override that was dropped at the input boundary.
type IgnoredOverride struct {
	Scenario string `json:"scenario"`
	Target   string `json:"target"`
	Reason   string `json:"reason"`
}

// ParseEntityKind accepts the canonical kind names plus a few plural and
// hyphenated spellings used in input files.
func ParseEntityKind(s string) (EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return KindAsset, nil
	case "liability", "liabilities":
		return KindLiability, nil
	case "cash_flow", "cash_flows", "cashflow", "cash-flow":
		return KindCashFlow, nil
	}
	return "", NewInvalidInput("override.kind", "unknown entity kind %q", s)
}

// NewOverride parses a raw value for the named field of the given entity kind.
// Unrecognized field names return an error wrapping ErrUnknownOverrideField;
// values of the wrong shape return an InvalidInputError.
func NewOverride(kind EntityKind, entityID, field string, raw any) (Override, error) {
	fields, ok := overrideFields[kind]
	if !ok {
		return Override{}, NewInvalidInput("override.kind", "unknown entity kind %q", kind)
	}
	if entityID == "" {
		return Override{}, NewInvalidInput("override.id", "is required")
	}
	f := OverrideField(field)
	spec, ok := fields[f]
	if !ok {
		return Override{}, fmt.Errorf("%w: %s.%s", ErrUnknownOverrideField, kind, field)
	}

	target := fmt.Sprintf("%s[%s].%s", kind, entityID, field)
	value := OverrideValue{Kind: spec.kind}
	if raw == nil {
		if !spec.nullable {
			return Override{}, NewInvalidInput(target, "cannot be null")
		}
		value.Null = true
		return Override{Kind: kind, EntityID: entityID, Field: f, Value: value}, nil
	}

	var err error
	switch spec.kind {
	case ValueCents:
		value.Cents, err = parseCents(raw)
		if err == nil && value.Cents < 0 {
			err = fmt.Errorf("cannot be negative")
		}
	case ValueRate:
		value.Rate, err = parseRate(raw)
		if err == nil && kind == KindLiability && value.Rate.IsNegative() {
			err = fmt.Errorf("cannot be negative")
		}
	case ValueInt:
		value.Int, err = parseInt(raw)
		if err == nil && value.Int <= 0 {
			err = fmt.Errorf("must be positive")
		}
	case ValueDate:
		value.Date, err = parseDate(raw)
	}
	if err != nil {
		return Override{}, NewInvalidInput(target, "%v", err)
	}
	return Override{Kind: kind, EntityID: entityID, Field: f, Value: value}, nil
}

func parseCents(raw any) (money.Cents, error) {
	switch v := raw.(type) {
	case money.Cents:
		return v, nil
	case int:
		return money.Cents(v), nil
	case int64:
		return money.Cents(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("amount %v is not a whole number of cents", v)
		}
		return money.Cents(int64(v)), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q is not a whole number of cents", v)
		}
		return money.Cents(n), nil
	}
	return 0, fmt.Errorf("unsupported amount value %v (%T)", raw, raw)
}

func parseRate(raw any) (money.Rate, error) {
	switch v := raw.(type) {
	case money.Rate:
		return v, nil
	case *money.Rate:
		return *v, nil
	case decimal.Decimal:
		return money.NewRateFromDecimal(v), nil
	case int:
		return money.NewRateFromDecimal(decimal.NewFromInt(int64(v))), nil
	case int64:
		return money.NewRateFromDecimal(decimal.NewFromInt(v)), nil
	case float64:
		return money.NewRate(v), nil
	case string:
		return money.ParseRate(strings.TrimSpace(v))
	}
	return money.Rate{}, fmt.Errorf("unsupported rate value %v (%T)", raw, raw)
}

func parseInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unsupported integer value %v (%T)", raw, raw)
}

func parseDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return dateutil.Normalize(v), nil
	case *time.Time:
		return dateutil.Normalize(*v), nil
	case string:
		return dateutil.ParseDate(strings.TrimSpace(v))
	}
	return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", raw, raw)
}
