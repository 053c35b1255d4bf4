package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/dataset"
	"github.com/sells-group/contact-cli/internal/enrich"
	"github.com/sells-group/contact-cli/internal/extract"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/store"
	"github.com/sells-group/contact-cli/pkg/google"
	"github.com/sells-group/contact-cli/pkg/serpapi"
)

var (
	autofillInput       string
	autofillOutput      string
	autofillCharset     string
	autofillSheet       string
	autofillLimit       int
	autofillConcurrency int
	autofillDryRun      bool
	autofillNoCache     bool
)

var autofillCmd = &cobra.Command{
	Use:   "autofill",
	Short: "Fill empty contact cells of a firm spreadsheet",
	Long: `Reads a CSV or XLSX file with a firm name column, looks up executive
contact details per firm, and writes a CSV with the empty cells filled.

Cells that already hold a value are never overwritten; a "-" marks a
lookup that found nothing and stays fillable on later runs.

Examples:
  # Dry run — parse the file, add the contact columns, print rows
  contact-cli autofill --input firms.csv --dry-run

  # Fill a CSV, writing firms-filled.csv
  contact-cli autofill --input firms.csv

  # Fill the first 5 rows of an Excel sheet
  contact-cli autofill --input firms.xlsx --sheet "Q3 Targets" --limit 5 --output out.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		table, err := readInput()
		if err != nil {
			return err
		}
		zap.L().Info("autofill: parsed input",
			zap.String("path", autofillInput),
			zap.Int("rows", len(table.Rows)),
		)

		if autofillLimit > 0 && autofillLimit < len(table.Rows) {
			table.Rows = table.Rows[:autofillLimit]
		}

		roles, err := model.LoadRoles(cfg.Enrich.RolesFile)
		if err != nil {
			return eris.Wrap(err, "autofill: load roles")
		}
		table.EnsureColumns(model.DerivedColumns(roles))

		if autofillDryRun {
			return printRowsJSON(table)
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		searchClient := serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithResultCount(cfg.SerpAPI.ResultCount),
		)
		nlpClient := google.NewClient(cfg.Language.Key, google.WithBaseURL(cfg.Language.BaseURL))

		extractor := extract.NewExtractor(nlpClient)
		lookup := enrich.NewLookup(searchClient, extractor)
		agg := enrich.NewAggregator(searchClient, lookup, roles)

		var st store.Store
		if !autofillNoCache {
			sqlite, err := store.NewSQLite(cfg.Cache.Path)
			if err != nil {
				return eris.Wrap(err, "autofill: open cache")
			}
			defer sqlite.Close() //nolint:errcheck
			if err := sqlite.Migrate(ctx); err != nil {
				return eris.Wrap(err, "autofill: migrate cache")
			}
			st = sqlite
		}

		concurrency := cfg.Enrich.Concurrency
		if autofillConcurrency > 0 {
			concurrency = autofillConcurrency
		}

		engine := enrich.NewEngine(agg, st, enrich.EngineOptions{
			FirmColumn:  cfg.Enrich.FirmColumn,
			Delay:       time.Duration(cfg.Enrich.DelaySecs) * time.Second,
			Concurrency: concurrency,
			CacheTTL:    time.Duration(cfg.Enrich.CacheTTLHours) * time.Hour,
		})

		stats, err := engine.Run(ctx, table)
		if err != nil {
			return eris.Wrap(err, "autofill: run")
		}

		zap.L().Info("autofill: batch complete",
			zap.Int("total", len(table.Rows)),
			zap.Int("processed", stats.Processed),
			zap.Int("filled", stats.Filled),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
		)

		outPath := autofillOutput
		if outPath == "" {
			outPath = defaultOutputPath(autofillInput)
		}
		if err := dataset.WriteCSV(outPath, table); err != nil {
			return err
		}
		zap.L().Info("autofill: output written", zap.String("path", outPath))

		return nil
	},
}

func init() {
	autofillCmd.Flags().StringVar(&autofillInput, "input", "", "path to CSV or XLSX file (required)")
	autofillCmd.Flags().StringVar(&autofillOutput, "output", "", "output CSV path (default: <input>-filled.csv)")
	autofillCmd.Flags().StringVar(&autofillCharset, "charset", "", "input CSV charset, an IANA name such as windows-1252 (default: UTF-8)")
	autofillCmd.Flags().StringVar(&autofillSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	autofillCmd.Flags().IntVar(&autofillLimit, "limit", 0, "max rows to process (0 = all)")
	autofillCmd.Flags().IntVar(&autofillConcurrency, "concurrency", 0, "concurrent firm lookups (0 = config value)")
	autofillCmd.Flags().BoolVar(&autofillDryRun, "dry-run", false, "parse input and print rows, skip lookups")
	autofillCmd.Flags().BoolVar(&autofillNoCache, "no-cache", false, "bypass the local lookup cache")
	_ = autofillCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(autofillCmd)
}

// readInput parses the input file by extension.
func readInput() (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(autofillInput)) {
	case ".xlsx", ".xls":
		return dataset.ReadXLSX(autofillInput, autofillSheet)
	default:
		return dataset.ReadCSV(autofillInput, autofillCharset)
	}
}

// defaultOutputPath derives the output path from the input name.
func defaultOutputPath(input string) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return stem + "-filled.csv"
}

// printRowsJSON prints the table rows as indented JSON.
func printRowsJSON(table *dataset.Table) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(table.Rows)
}
