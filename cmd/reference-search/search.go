// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reference-search/internal/engine"
	"github.com/pdiddy/reference-search/internal/export"
	"github.com/pdiddy/reference-search/internal/table"
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword1] [keyword2]",
	Short: "Search references and books for up to two keywords",
	Long: `Search loads both sources and prints the rows that contain any keyword
(case-insensitive) in one of the searchable columns. References print every
column; books print Title, Name, Year and Link.

Use --csv or --xlsx with --kind to save the full, unprojected matches.`,
	Args: cobra.MaximumNArgs(table.MaxKeywords),
	RunE: runSearch,
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the first rows of each source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := loadContext(cmd.Context())
		defer cancel()
		snap := a.engine.Load(ctx, a.sources)
		logLoadErrors(snap)
		return printOutcome(cmd, a.engine.Sample(snap))
	},
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, sampleCmd} {
		c.Flags().Bool("json", false, "output results as JSON")
		c.Flags().Bool("yaml", false, "output results as YAML")
		c.MarkFlagsMutuallyExclusive("json", "yaml")
	}
	searchCmd.Flags().String("kind", "", "restrict output to one table kind (references or books)")
	searchCmd.Flags().String("csv", "", "write matches of --kind to this CSV file")
	searchCmd.Flags().String("xlsx", "", "write matches of --kind to this Excel file")

	rootCmd.AddCommand(searchCmd, sampleCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kindName, _ := cmd.Flags().GetString("kind")
	csvPath, _ := cmd.Flags().GetString("csv")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")
	if (csvPath != "" || xlsxPath != "") && kindName == "" {
		return fmt.Errorf("--csv and --xlsx require --kind")
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	eng := a.engine
	if kindName != "" {
		k, ok := eng.Kind(kindName)
		if !ok {
			return fmt.Errorf("unknown kind %q", kindName)
		}
		eng = engine.New([]engine.Kind{k}, cfg.Engine.SampleSize)
	}

	var snap engine.Snapshot
	if len(table.NormalizeKeywords(args)) > 0 {
		ctx, cancel := loadContext(cmd.Context())
		defer cancel()
		snap = eng.Load(ctx, a.sources)
		logLoadErrors(snap)
	}
	out := eng.Search(snap, args)

	if err := printOutcome(cmd, out); err != nil {
		return err
	}
	if out.Status == engine.StatusWarning || len(out.Sections) == 0 {
		return nil
	}

	sec := out.Sections[0]
	if sec.Status == engine.StatusError {
		return fmt.Errorf("%s", sec.Message)
	}
	if csvPath != "" {
		if err := writeExport(csvPath, export.CSV, sec); err != nil {
			return err
		}
	}
	if xlsxPath != "" {
		if err := writeExport(xlsxPath, export.XLSX, sec); err != nil {
			return err
		}
	}
	return nil
}

func printOutcome(cmd *cobra.Command, out engine.Outcome) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	w := cmd.OutOrStdout()
	switch {
	case asJSON:
		return engine.FormatJSON(out, w)
	case asYAML:
		return engine.FormatYAML(out, w)
	default:
		engine.FormatTable(out, w)
		return nil
	}
}

func writeExport(path string, f export.Format, sec engine.Section) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.Write(file, f, sec.Kind.Title, sec.Filtered); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logger.Info().Str("file", path).Int("rows", sec.Filtered.Len()).Str("kind", sec.Kind.Name).Msg("results exported")
	return nil
}

func logLoadErrors(snap engine.Snapshot) {
	for kind, err := range snap.Errors {
		logger.Error().Err(err).Str("kind", kind).Msg("loading source")
	}
}

// loadContext bounds source loads by server.request_timeout.
func loadContext(parent context.Context) (context.Context, context.CancelFunc) {
	if cfg.Server.RequestTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cfg.Server.RequestTimeout)
}
