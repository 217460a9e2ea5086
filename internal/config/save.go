package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"github.com/rpgo/finplan/pkg/money"
	"gopkg.in/yaml.v3"
)

func (r rateValue) MarshalYAML() (any, error) {
	return rateNode(r.Rate), nil
}

func (c centsValue) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(c), 10)}, nil
}

func (d dateValue) MarshalYAML() (any, error) {
	return dateNode(d.Time), nil
}

// rateNode emits a percentage as a plain YAML number with its exact digits.
func rateNode(r money.Rate) *yaml.Node {
	s := r.String()
	tag := "!!int"
	if strings.ContainsAny(s, ".eE") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
}

func dateNode(t time.Time) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: dateutil.Format(t)}
}

func optionalRate(r *money.Rate) *rateValue {
	if r == nil {
		return nil
	}
	return &rateValue{*r}
}

func optionalDate(t *time.Time) *dateValue {
	if t == nil {
		return nil
	}
	return &dateValue{*t}
}

func overrideNode(v domain.OverrideValue) yaml.Node {
	if v.Null {
		return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch v.Kind {
	case domain.ValueCents:
		return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v.Cents), 10)}
	case domain.ValueRate:
		return *rateNode(v.Rate)
	case domain.ValueInt:
		return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v.Int)}
	case domain.ValueDate:
		return *dateNode(v.Date)
	}
	return yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// Marshal renders a configuration in the YAML shape LoadFromFile reads.
// Ignored overrides are not written back.
func (ip *InputParser) Marshal(config *domain.Configuration) ([]byte, error) {
	start := config.Projection.StartDate
	file := fileConfig{
		Projection: fileProjection{
			StartDate:    &dateValue{start},
			HorizonYears: config.Projection.HorizonYears,
			Granularity:  string(config.Projection.Granularity),
			SweepAssetID: config.Projection.SweepAssetID,
		},
	}

	for _, a := range config.Household.Assets {
		file.Household.Assets = append(file.Household.Assets, fileAsset{
			ID:            a.ID,
			Name:          a.Name,
			CurrentValue:  centsValue(a.Value),
			GrowthRate:    optionalRate(a.GrowthRate),
			DividendYield: optionalRate(a.DividendYield),
		})
	}
	for _, l := range config.Household.Liabilities {
		file.Household.Liabilities = append(file.Household.Liabilities, fileLiability{
			ID:                l.ID,
			Name:              l.Name,
			OriginalPrincipal: centsValue(l.OriginalPrincipal),
			CurrentBalance:    centsValue(l.Balance),
			InterestRate:      &rateValue{l.InterestRate},
			MinimumPayment:    centsValue(l.MinimumPayment),
			PaymentFrequency:  string(l.PaymentFrequency),
			TermPeriods:       l.TermPeriods,
			OriginationDate:   optionalDate(l.OriginationDate),
			ExtraPayment:      centsValue(l.ExtraPayment),
		})
	}
	for _, c := range config.Household.CashFlows {
		file.Household.CashFlows = append(file.Household.CashFlows, fileCashFlow{
			ID:         c.ID,
			Name:       c.Name,
			Type:       string(c.Type),
			Amount:     centsValue(c.Amount),
			Frequency:  string(c.Frequency),
			GrowthRate: optionalRate(c.GrowthRate),
			StartDate:  optionalDate(c.StartDate),
			EndDate:    optionalDate(c.EndDate),
		})
	}

	for _, s := range config.Scenarios {
		fs := fileScenario{ID: s.ID, Name: s.Name, Baseline: s.Baseline}
		for _, o := range s.Overrides {
			fs.Overrides = append(fs.Overrides, fileOverride{
				Kind:  string(o.Kind),
				ID:    o.EntityID,
				Field: string(o.Field),
				Value: overrideNode(o.Value),
			})
		}
		file.Scenarios = append(file.Scenarios, fs)
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

// SaveConfiguration writes a configuration to a YAML file.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := ip.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
