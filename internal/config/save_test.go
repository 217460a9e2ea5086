package config

import (
	"path/filepath"
	"testing"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	original := parser.CreateExampleConfiguration()

	data, err := parser.Marshal(original)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "start_date: 2025-01-01")
	assert.Contains(t, text, "interest_rate: 3.25")
	assert.Contains(t, text, "growth_rate: 7\n")
	assert.NotContains(t, text, "!!")

	parsed, err := parser.Parse(data)
	require.NoError(t, err)
	assert.Empty(t, parsed.IgnoredOverrides)
	assert.Equal(t, original.Projection, parsed.Projection)
	require.Len(t, parsed.Scenarios, 3)
	assert.True(t, parsed.Scenarios[0].Baseline)
	require.Len(t, parsed.Scenarios[1].Overrides, 1)
	assert.Equal(t, domain.ValueCents, parsed.Scenarios[1].Overrides[0].Value.Kind)
	assert.Equal(t, "500.00", parsed.Scenarios[1].Overrides[0].Value.Cents.String())

	again, err := parser.Marshal(parsed)
	require.NoError(t, err)
	assert.Equal(t, text, string(again))
}

func TestMarshal_NullOverride(t *testing.T) {
	parser := NewInputParser()
	config := parser.CreateExampleConfiguration()
	o, err := domain.NewOverride(domain.KindAsset, "home", "growth_rate", nil)
	require.NoError(t, err)
	config.Scenarios[2].Overrides = append(config.Scenarios[2].Overrides, o)

	data, err := parser.Marshal(config)
	require.NoError(t, err)

	parsed, err := parser.Parse(data)
	require.NoError(t, err)
	overrides := parsed.Scenarios[2].Overrides
	require.Len(t, overrides, 3)
	assert.True(t, overrides[2].Value.Null)
}

func TestSaveConfiguration(t *testing.T) {
	parser := NewInputParser()
	filename := filepath.Join(t.TempDir(), "household.yaml")
	require.NoError(t, parser.SaveConfiguration(parser.CreateExampleConfiguration(), filename))

	config, err := parser.LoadFromFile(filename)
	require.NoError(t, err)
	assert.Len(t, config.Household.Assets, 5)
	assert.Len(t, config.Household.Liabilities, 3)

	err = parser.SaveConfiguration(config, filepath.Join(t.TempDir(), "missing", "x.yaml"))
	assert.ErrorContains(t, err, "failed to write file")
}
