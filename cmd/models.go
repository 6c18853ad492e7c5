package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List priced models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	table := appCfg.PricingTable()

	rows := make([][]string, 0, len(table.Models()))
	for _, id := range table.Models() {
		p, _ := table.Lookup(id)
		marker := ""
		if id == appCfg.General.DefaultModel {
			marker = "default"
		}
		rows = append(rows, []string{
			id,
			cli.FormatRate(p.InputPerMTok),
			cli.FormatRate(p.OutputPerMTok),
			marker,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderTitle("MODELS  USD per 1M tokens"))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Input", "Output", ""},
		Rows:    rows,
	}))
	if def := appCfg.General.DefaultModel; !table.Has(def) {
		fmt.Fprintln(out, cli.RenderWarning(fmt.Sprintf("default model %q has no pricing; its calls are billed at $0", def)))
		if base := table.NormalizeModelName(def); base != def {
			fmt.Fprintln(out, cli.RenderWarning(fmt.Sprintf("add [pricing.overrides.%q] to bill it like %s", def, base)))
		}
	}
	return nil
}
