package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/statements-cli/internal/engine"
	"github.com/sells-group/statements-cli/internal/exporter"
	"github.com/sells-group/statements-cli/internal/fetcher"
	"github.com/sells-group/statements-cli/internal/model"
)

// manifestEntry is one company in a batch manifest.
type manifestEntry struct {
	Ticker   string `yaml:"ticker"`
	CIK      string `yaml:"cik"`
	FormType string `yaml:"form_type"`
	Workbook string `yaml:"workbook"`
	Out      string `yaml:"out"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Consolidate several companies concurrently",
	Long:  "Reads a YAML manifest of companies and workbooks and runs the consolidation pipeline for each, bounded by batch.max_concurrent_companies.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entries, err := loadManifest(args[0])
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out-dir")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrentCompanies
		}

		e, err := engine.New(cfg.Engine)
		if err != nil {
			return err
		}

		jobs := make([]engine.Job, len(entries))
		unreadable := make([]bool, len(entries))
		for i, entry := range entries {
			filing := model.Filing{Ticker: entry.Ticker, CIK: entry.CIK, FormType: entry.FormType}
			jobs[i] = engine.Job{Filing: filing}
			tables, err := fetcher.ReadWorkbook(entry.Workbook, filing)
			if err != nil {
				zap.L().Error("batch: skipping company",
					zap.String("ticker", entry.Ticker),
					zap.Error(err),
				)
				unreadable[i] = true
				continue
			}
			jobs[i].Tables = tables
		}

		results, err := e.Batch(ctx, jobs, concurrency)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var written, failed int
		for i, res := range results {
			if unreadable[i] || res == nil {
				failed++
				continue
			}
			if err := st.SaveReport(ctx, res.Report); err != nil {
				return err
			}
			if len(res.Sheets) == 0 {
				continue
			}
			out := entries[i].Out
			if out == "" {
				out = filepath.Join(outDir, strings.ToLower(entries[i].Ticker)+"_consolidated.xlsx")
			}
			if err := exporter.WriteWorkbook(out, res.Sheets); err != nil {
				return err
			}
			written++
		}

		fmt.Fprintf(os.Stdout, "Batch complete: %d companies, %d workbooks written, %d failed\n",
			len(entries), written, failed)
		return nil
	},
}

func init() {
	batchCmd.Flags().String("out-dir", ".", "directory for consolidated workbooks")
	batchCmd.Flags().Int("concurrency", 0, "max companies in flight (default from config)")

	rootCmd.AddCommand(batchCmd)
}

func loadManifest(path string) ([]manifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: read manifest")
	}
	var entries []manifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrap(err, "batch: parse manifest")
	}
	if len(entries) == 0 {
		return nil, eris.New("batch: manifest is empty")
	}
	for i, entry := range entries {
		if entry.Ticker == "" || entry.Workbook == "" {
			return nil, eris.Errorf("batch: manifest entry %d needs ticker and workbook", i)
		}
	}
	return entries, nil
}
