package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/output"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the global flags and the writers every subcommand prints to.
type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
	parser *config.InputParser

	logLevel    string
	format      string
	query       string
	render      bool
	renderStyle string
	taxTables   string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: log.New(),
		parser: config.NewInputParser(),
	}

	root := &cobra.Command{
		Use:           "finplan",
		Short:         "Deterministic household net-worth projections and loan comparisons",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogger()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.format, "format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	flags.StringVar(&a.query, "query", "", "JSONPath expression applied to the JSON result, e.g. $.analysis.best_scenario")
	flags.BoolVar(&a.render, "render", false, "render markdown output for the terminal")
	flags.StringVar(&a.renderStyle, "render-style", "notty", "glamour style used by --render (dark, light, notty, auto)")
	flags.StringVar(&a.taxTables, "tax-tables", "", "YAML file replacing the built-in federal tax tables")

	root.AddCommand(
		newProjectCommand(a),
		newAmortizeCommand(a),
		newTaxCommand(a),
		newCompareCommand(a),
		newInitCommand(a),
		newFormatsCommand(a),
	)
	return root
}

func (a *app) setupLogger() error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	a.logger.SetOutput(a.stderr)
	a.logger.SetLevel(level)
	a.logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}

// engine builds a calculation engine with the configured tax tables and logger.
func (a *app) engine() (*calculation.CalculationEngine, error) {
	var engine *calculation.CalculationEngine
	if a.taxTables != "" {
		tables, err := a.parser.LoadTaxTables(a.taxTables)
		if err != nil {
			return nil, err
		}
		a.logger.WithField("years", tables.Years()).Debug("loaded tax tables")
		engine = calculation.NewCalculationEngineWithTaxTables(tables)
	} else {
		engine = calculation.NewCalculationEngine()
	}
	engine.SetLogger(a.logger)
	return engine, nil
}

// emit prints a formatted result. With --query the JSON encoding of value is
// filtered instead; with --render markdown is styled for the terminal.
func (a *app) emit(value any, format func(string) ([]byte, error)) error {
	if a.query != "" {
		data, err := queryJSON(value, a.query)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.stdout, string(data))
		return err
	}

	name := output.NormalizeFormatName(a.format)
	if a.render {
		name = "markdown"
	}
	data, err := format(name)
	if err != nil {
		return err
	}
	if a.render {
		rendered, err := a.renderMarkdown(data)
		if err != nil {
			return err
		}
		data = []byte(rendered)
	}
	_, err = a.stdout.Write(data)
	return err
}

func (a *app) renderMarkdown(md []byte) (string, error) {
	style := glamour.WithStandardStyle(a.renderStyle)
	if a.renderStyle == "auto" {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// queryJSON evaluates a JSONPath expression against the JSON form of value.
func queryJSON(value any, query string) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	selected, err := jsonpath.Get(query, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return json.MarshalIndent(selected, "", "  ")
}

func newFormatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported output formats and aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "Formats: %s\n", strings.Join(output.AvailableFormatterNames(), ", "))
			fmt.Fprintf(a.stdout, "Aliases: %s\n", strings.Join(output.AvailableFormatAliases(), ", "))
			return nil
		},
	}
}
