package output

import (
	"github.com/rpgo/finplan/internal/domain"
)

// GenerateReport writes the scenario comparison to a timestamped file in dir
// using the named format, or every file format when format is "all".
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if format == "all" {
		var files []string
		for _, name := range []string{"console", "detailed-csv", "json", "html"} {
			file, err := WriteFormatted(GetFormatterByName(name), results, dir, Extension(name))
			if err != nil {
				return files, err
			}
			files = append(files, file)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	file, err := WriteFormatted(f, results, dir, Extension(format))
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}
