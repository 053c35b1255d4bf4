package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/enrich"
	"github.com/sells-group/contact-cli/internal/extract"
	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/google"
	"github.com/sells-group/contact-cli/pkg/serpapi"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <company>",
	Short: "Look up executive contacts for a single company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		company := args[0]

		if err := cfg.Validate(); err != nil {
			return err
		}

		roles, err := model.LoadRoles(cfg.Enrich.RolesFile)
		if err != nil {
			return eris.Wrap(err, "lookup: load roles")
		}

		searchClient := serpapi.NewClient(cfg.SerpAPI.Key,
			serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
			serpapi.WithResultCount(cfg.SerpAPI.ResultCount),
		)
		nlpClient := google.NewClient(cfg.Language.Key, google.WithBaseURL(cfg.Language.BaseURL))

		lookup := enrich.NewLookup(searchClient, extract.NewExtractor(nlpClient))
		agg := enrich.NewAggregator(searchClient, lookup, roles)

		rec, err := agg.CompanyInfo(ctx, company)
		if err != nil {
			return eris.Wrapf(err, "lookup: %s", company)
		}

		zap.L().Info("lookup complete",
			zap.String("company", company),
			zap.Int("roles", len(rec.Executives)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
