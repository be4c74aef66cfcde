package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/statements-cli/internal/engine"
	"github.com/sells-group/statements-cli/internal/exporter"
	"github.com/sells-group/statements-cli/internal/fetcher"
	"github.com/sells-group/statements-cli/internal/model"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate <workbook.xlsx>",
	Short: "Consolidate one company's extracted filing tables",
	Long:  "Reads a workbook of extracted tables, keeps the genuine multi-year statements, merges duplicate line items across filing years, and writes one consolidated spreadsheet.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ticker, _ := cmd.Flags().GetString("ticker")
		cik, _ := cmd.Flags().GetString("cik")
		form, _ := cmd.Flags().GetString("form")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = strings.ToLower(ticker) + "_consolidated.xlsx"
		}

		filing := model.Filing{Ticker: ticker, CIK: cik, FormType: form}

		tables, err := fetcher.ReadWorkbook(args[0], filing)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			return eris.Errorf("consolidate: no tables in %s", args[0])
		}

		e, err := engine.New(cfg.Engine)
		if err != nil {
			return err
		}

		res, err := e.Run(ctx, filing, tables)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.SaveReport(ctx, res.Report); err != nil {
			return err
		}

		if len(res.Sheets) > 0 {
			if err := exporter.WriteWorkbook(out, res.Sheets); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
		} else {
			fmt.Fprintln(os.Stderr, "No statements kept; nothing to write.")
		}

		formatReport(os.Stdout, res.Report)
		return nil
	},
}

func init() {
	consolidateCmd.Flags().String("ticker", "", "company ticker symbol")
	consolidateCmd.Flags().String("cik", "", "SEC CIK number")
	consolidateCmd.Flags().String("form", "10-K", "filing form type")
	consolidateCmd.Flags().String("out", "", "output workbook path (default <ticker>_consolidated.xlsx)")
	_ = consolidateCmd.MarkFlagRequired("ticker")

	rootCmd.AddCommand(consolidateCmd)
}

// formatReport writes a run summary to w.
func formatReport(out io.Writer, r model.RunReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run ID:\t%s\n", r.RunID)
	_, _ = fmt.Fprintf(w, "Tables seen:\t%d\n", r.TablesSeen)
	_, _ = fmt.Fprintf(w, "Tables kept:\t%d\n", r.TablesKept)
	_, _ = fmt.Fprintf(w, "  Malformed:\t%d\n", r.RejectedCount(model.RejectMalformed))
	_, _ = fmt.Fprintf(w, "  Low confidence:\t%d\n", r.RejectedCount(model.RejectLowConfidence))
	for _, st := range model.StatementOrder {
		if n, ok := r.SheetRows[st]; ok {
			_, _ = fmt.Fprintf(w, "%s rows:\t%d\n", st, n)
		}
	}
	_, _ = fmt.Fprintf(w, "Merged rows:\t%d\n", r.MergedRows)
	_, _ = fmt.Fprintf(w, "Conflicts:\t%d\n", r.Conflicts)
	_, _ = fmt.Fprintf(w, "Duration:\t%s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String())
	_ = w.Flush()
}
