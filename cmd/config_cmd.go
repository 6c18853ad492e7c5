package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfg := appCfg

	status := "using defaults (no config file)"
	if config.Exists() {
		status = "loaded"
	}
	fmt.Fprintf(out, "  Config file: %s\n", config.Path())
	fmt.Fprintf(out, "  Status: %s\n\n", status)

	fmt.Fprintln(out, "  [General]")
	timeout := "none"
	if d := cfg.RequestTimeout(); d > 0 {
		timeout = d.String()
	}
	fmt.Fprint(out, cli.RenderKV([][2]string{
		{"Default model", cfg.General.DefaultModel},
		{"Home", cfg.AppDir()},
		{"Sessions", cfg.SessionsDir()},
		{"Outputs", cfg.OutputsDir()},
		{"Index", cfg.IndexPath()},
		{"History turns", fmt.Sprintf("%d", cfg.General.HistoryTurns)},
		{"Spec head lines", fmt.Sprintf("%d", cfg.General.SpecHeadLines)},
		{"Request timeout", timeout},
	}))
	fmt.Fprintln(out)

	wd, _ := os.Getwd()
	creds, credErr := config.LoadCredentials(cfg, wd)

	fmt.Fprintln(out, "  [Credentials]")
	endpoint := "OpenAI"
	if creds.UseAzure() {
		endpoint = "Azure OpenAI"
	}
	if credErr != nil {
		endpoint = "not configured"
	}
	fmt.Fprint(out, cli.RenderKV([][2]string{
		{"Endpoint", endpoint},
		{"OpenAI key", maskOrUnset(creds.OpenAIKey)},
		{"OpenAI base URL", orDefault(creds.OpenAIBaseURL, "default")},
		{"Azure key", maskOrUnset(creds.AzureKey)},
		{"Azure endpoint", orDefault(creds.AzureEndpoint, "not set")},
	}))
	fmt.Fprintln(out)

	if len(cfg.Pricing.Overrides) > 0 {
		fmt.Fprintln(out, "  [Pricing overrides]")
		table := cfg.PricingTable()
		pairs := make([][2]string, 0, len(cfg.Pricing.Overrides))
		for _, id := range table.Models() {
			if _, ok := cfg.Pricing.Overrides[id]; !ok {
				continue
			}
			p, _ := table.Lookup(id)
			pairs = append(pairs, [2]string{id, cli.FormatRate(p.InputPerMTok) + " in, " + cli.FormatRate(p.OutputPerMTok) + " out"})
		}
		fmt.Fprint(out, cli.RenderKV(pairs))
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "  Run `codeassist setup` to reconfigure.")
	return nil
}

func maskOrUnset(key string) string {
	if key == "" {
		return "not set"
	}
	return config.MaskKey(key)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
