package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportGenerator_AllFormats(t *testing.T) {
	results := loadAndRun(t)
	dir := t.TempDir()

	files, err := output.GenerateReport(results, "all", dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	byExt := map[string]string{}
	for _, f := range files {
		byExt[filepath.Ext(f)] = f
	}

	data, err := os.ReadFile(byExt[".json"])
	require.NoError(t, err)
	var decoded domain.ScenarioComparison
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Projections, 3)
	for i, p := range decoded.Projections {
		assert.Equal(t, results.Projections[i].Summary.EndingNetWorth, p.Summary.EndingNetWorth)
	}

	f, err := os.Open(byExt[".csv"])
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+3*11, "header plus one row per snapshot")

	html, err := os.ReadFile(byExt[".html"])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(html)), "<!DOCTYPE html>"))
	assert.Contains(t, string(html), "<table>")

	console, err := os.ReadFile(byExt[".txt"])
	require.NoError(t, err)
	for _, p := range results.Projections {
		assert.Contains(t, string(console), p.ScenarioName)
	}
}

func TestReportGenerator_EveryFormatter(t *testing.T) {
	results := loadAndRun(t)
	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			files, err := output.GenerateReport(results, name, t.TempDir())
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "."+output.Extension(name), filepath.Ext(files[0]))

			info, err := os.Stat(files[0])
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestReportGenerator_UnknownFormat(t *testing.T) {
	_, err := output.GenerateReport(loadAndRun(t), "pdf", t.TempDir())
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$123.45", output.FormatCurrency(12345))
	assert.Equal(t, "-$5.00", output.FormatCurrency(-500))
}
