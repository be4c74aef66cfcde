package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/statements-cli/internal/classifier"
	"github.com/sells-group/statements-cli/internal/fetcher"
	"github.com/sells-group/statements-cli/internal/model"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <workbook.xlsx>",
	Short: "Score a workbook's tables without consolidating",
	Long:  "Dry run of the classifier: shows each table's confidence, statement type, and detected periods so the threshold and weights can be tuned.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")

		tables, err := fetcher.ReadWorkbook(args[0], model.Filing{Ticker: ticker})
		if err != nil {
			return err
		}

		c := classifier.New(cfg.Engine)
		formatClassifications(os.Stdout, c, tables)
		return nil
	},
}

func init() {
	classifyCmd.Flags().String("ticker", "", "company ticker symbol")

	rootCmd.AddCommand(classifyCmd)
}

func formatClassifications(out io.Writer, c *classifier.Classifier, tables []model.Table) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TABLE\tDECISION\tCONFIDENCE\tTYPE\tPERIODS")
	_, _ = fmt.Fprintln(w, "-----\t--------\t----------\t----\t-------")

	for i := range tables {
		res, rej := c.Classify(&tables[i])
		if rej != nil {
			_, _ = fmt.Fprintf(w, "%d\trejected\t%.2f\t%s\t\n", i, rej.Confidence, rej.Reason)
			continue
		}

		periods := make([]string, 0, len(res.PeriodColumns))
		for _, p := range res.Periods() {
			periods = append(periods, p.String())
		}
		_, _ = fmt.Fprintf(w, "%d\tkept\t%.2f\t%s\t%s\n",
			i, res.Confidence, res.Type, strings.Join(periods, ", "))
	}
	_ = w.Flush()
}
