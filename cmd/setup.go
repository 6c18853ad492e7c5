package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/source"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

type setupValues struct {
	model         string
	openAIKey     string
	azureEndpoint string
	azureKey      string
	homeDir       string
}

func runSetup(cmd *cobra.Command, _ []string) error {
	if !stdinIsTerminal() {
		return errors.New("setup needs an interactive terminal; edit " + config.Path() + " instead")
	}

	// Start from the file alone so environment overrides are not persisted.
	cfg, err := config.LoadFrom(config.Path())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Welcome to codeassist!")
	if files, _ := source.ScanDir(cfg.SessionsDir()); len(files) > 0 {
		fmt.Fprintf(out, "  Found %s projects in %s\n", formatNumber(int64(len(files))), cfg.SessionsDir())
	}
	fmt.Fprintln(out)

	vals := setupValues{
		model:         cfg.General.DefaultModel,
		azureEndpoint: cfg.Azure.Endpoint,
		homeDir:       cfg.General.HomeDir,
	}

	table := cfg.PricingTable()
	modelOpts := make([]huh.Option[string], 0, len(table.Models()))
	for _, id := range table.Models() {
		modelOpts = append(modelOpts, huh.NewOption(id, id))
	}

	keyHint := "Leave blank to keep the current key"
	if cfg.OpenAI.APIKey != "" {
		keyHint = "Current: " + config.MaskKey(cfg.OpenAI.APIKey) + " (blank keeps it)"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default model").
				Options(modelOpts...).
				Value(&vals.model),
			huh.NewInput().
				Title("OpenAI API key").
				Description(keyHint).
				EchoMode(huh.EchoModePassword).
				Value(&vals.openAIKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Azure OpenAI endpoint").
				Description("Used only when no OpenAI key is set").
				Placeholder("https://<resource>.openai.azure.com").
				Value(&vals.azureEndpoint),
			huh.NewInput().
				Title("Azure OpenAI API key").
				EchoMode(huh.EchoModePassword).
				Value(&vals.azureKey),
			huh.NewInput().
				Title("Data directory").
				Description("Sessions and outputs; blank for ~/.codeassist").
				Value(&vals.homeDir),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}

	applySetup(&cfg, vals)
	if err := config.Save(config.Path(), cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, cli.RenderSuccess("Saved to "+config.Path()))
	fmt.Fprintln(out, "  Run `codeassist setup` anytime to reconfigure.")
	return nil
}

func applySetup(cfg *config.Config, vals setupValues) {
	cfg.General.DefaultModel = vals.model
	if k := strings.TrimSpace(vals.openAIKey); k != "" {
		cfg.OpenAI.APIKey = k
	}
	cfg.Azure.Endpoint = strings.TrimSpace(vals.azureEndpoint)
	if k := strings.TrimSpace(vals.azureKey); k != "" {
		cfg.Azure.APIKey = k
	}
	cfg.General.HomeDir = strings.TrimSpace(vals.homeDir)
}
