package output

import (
	"encoding/json"

	"github.com/rpgo/finplan/internal/domain"
)

// JSONSchemaVersion is bumped whenever a field of the JSON report changes
// meaning or is removed.
const JSONSchemaVersion = 1

// jsonReport inlines the comparison under a schema header so consumers can
// reject reports they do not understand.
type jsonReport struct {
	Schema        string `json:"schema"`
	SchemaVersion int    `json:"schema_version"`
	*domain.ScenarioComparison
}

// JSONFormatter writes the scenario comparison as indented JSON. Amounts stay
// in integer cents and rates as decimal percentages.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	return json.MarshalIndent(jsonReport{
		Schema:             "finplan.scenario_comparison",
		SchemaVersion:      JSONSchemaVersion,
		ScenarioComparison: results,
	}, "", "  ")
}
