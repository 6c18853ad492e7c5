package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/pipeline"
)

var costEntries bool

var costCmd = &cobra.Command{
	Use:   "cost <project>",
	Short: "Show a project's running total",
	Args:  cobra.ExactArgs(1),
	RunE:  runCost,
}

func init() {
	costCmd.Flags().BoolVarP(&costEntries, "entries", "e", false, "List every billed call and a per-model breakdown")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	projectID := args[0]
	sess, err := sessionStore().Load(projectID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s total: %s\n", projectID, cli.FormatCost(sess.Billing.TotalUSD))
	if !costEntries {
		return nil
	}

	if len(sess.Billing.Entries) == 0 {
		fmt.Fprintln(out, "\n  No billed calls yet.")
		return nil
	}

	fmt.Fprintln(out)
	rows := make([][]string, 0, len(sess.Billing.Entries))
	for i, e := range sess.Billing.Entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			cli.FormatTime(e.TS.Time),
			e.Model,
			cli.FormatNumber(e.InputTokens),
			cli.FormatNumber(e.OutputTokens),
			cli.FormatLedgerCost(e.CostUSD),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"", "", "Total", "", "", cli.FormatLedgerCost(sess.Billing.TotalUSD)})

	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Billed calls",
		Headers: []string{"#", "Time", "Model", "Input", "Output", "Cost"},
		Rows:    rows,
	}))

	breakdown := pipeline.ModelBreakdown(sess.Billing.ByModel())
	fmt.Fprintln(out)
	fmt.Fprint(out, renderModelRows("By model", breakdown))
	return nil
}

func renderModelRows(title string, breakdown []pipeline.ModelCostRow) string {
	rows := make([][]string, 0, len(breakdown))
	for _, r := range breakdown {
		rows = append(rows, []string{
			r.Model,
			cli.FormatNumber(int64(r.Calls)),
			cli.FormatTokens(r.InputTokens),
			cli.FormatTokens(r.OutputTokens),
			cli.FormatCost(r.CostUSD),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Model", "Calls", "Input", "Output", "Cost"},
		Rows:    rows,
	})
}
