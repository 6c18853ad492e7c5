package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/generate"
	"github.com/theirongolddev/codeassist/internal/input"
	"github.com/theirongolddev/codeassist/internal/openai"
	"github.com/theirongolddev/codeassist/internal/prompt"
	"github.com/theirongolddev/codeassist/internal/tokens"
)

var (
	genLang        string
	genMode        string
	genModel       string
	genRequirement string
	genPaths       []string
	genDryRun      bool
)

var genCmd = &cobra.Command{
	Use:   "gen <project>",
	Short: "Generate code",
	Long: "Generate a single code file for a project.\n\n" +
		"The requirement is --requirement TEXT, --requirement @FILE, --requirement - (stdin),\n" +
		"./requirements_brief.txt, or an interactive prompt, in that order.",
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringVar(&genLang, "lang", "py", "Target language: "+strings.Join(prompt.Languages(), ", "))
	genCmd.Flags().StringVar(&genMode, "mode", prompt.ModeCode, "Generation mode: "+strings.Join(prompt.Modes(), ", "))
	genCmd.Flags().StringVar(&genModel, "model", "", "Model to use (skips the picker and becomes the project default)")
	genCmd.Flags().StringVar(&genRequirement, "requirement", "", "Requirement text, @file, or - for stdin")
	genCmd.Flags().StringSliceVar(&genPaths, "paths", nil, "Files or folders the generated code may read (comma-separated or repeated)")
	genCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "Show the prompt size and input cost without calling the model")
	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	if _, ok := prompt.Extension(genLang); !ok {
		return fmt.Errorf("%w: %q (choose from %s)", generate.ErrUnsupportedLanguage, genLang, strings.Join(prompt.Languages(), ", "))
	}
	if !slices.Contains(prompt.Modes(), genMode) {
		return fmt.Errorf("unknown mode %q (choose from %s)", genMode, strings.Join(prompt.Modes(), ", "))
	}

	// Credentials are checked before anything is read from the user.
	var completer *openai.Client
	if !genDryRun {
		c, err := newCompleter()
		if err != nil {
			return err
		}
		completer = c
	}

	resolver := newInputResolver(cmd)
	requirement, err := resolver.Requirement(genRequirement)
	if err != nil {
		return err
	}
	hints, err := resolver.PathHints(genPaths)
	if err != nil {
		return err
	}

	req := generate.Request{
		ProjectID:   args[0],
		Kind:        generate.KindGen,
		Mode:        genMode,
		Lang:        genLang,
		Model:       genModel,
		Requirement: requirement,
		PathHints:   hints,
	}

	if genDryRun {
		return dryRun(cmd.OutOrStdout(), req)
	}

	opts := []generate.Option{generate.WithLogger(appLog)}
	if stdinIsTerminal() {
		opts = append(opts, generate.WithResolver(modelPicker()))
	}
	g := generate.New(appCfg, sessionStore(), withProgress(completer, cmd.ErrOrStderr(), "Generating"), opts...)

	res, err := g.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), "Wrote: ", res)
	return nil
}

// dryRun composes the request and reports its estimated input size and
// cost. Nothing is sent or saved.
func dryRun(out io.Writer, req generate.Request) error {
	g := generate.New(appCfg, sessionStore(), nil, generate.WithLogger(appLog))
	plan, err := g.Compose(req)
	if err != nil {
		return err
	}

	counter := tokens.NewCounter(plan.Model)
	n := counter.CountMessages(plan.Messages)
	estimate := "exact"
	if !counter.Exact() {
		estimate = "approximate"
	}
	cost := appCfg.PricingTable().EstimateInputCost(plan.Model, int64(n))

	fmt.Fprintln(out, cli.RenderTitle("DRY RUN  "+req.ProjectID))
	fmt.Fprint(out, cli.RenderKV([][2]string{
		{"Model", plan.Model},
		{"Messages", fmt.Sprintf("%d (%d from history)", len(plan.Messages), len(plan.Messages)-2)},
		{"Input tokens", fmt.Sprintf("%s (%s)", formatNumber(int64(n)), estimate)},
		{"Input cost", cli.FormatCost(cost)},
		{"Artifact ext", "." + plan.Ext},
	}))
	return nil
}

func newInputResolver(cmd *cobra.Command) input.Resolver {
	wd, _ := os.Getwd()
	return input.Resolver{
		WorkDir: wd,
		Stdin:   cmd.InOrStdin(),
		Notice:  cmd.ErrOrStderr(),
		Ask:     askLine,
	}
}

func newCompleter() (*openai.Client, error) {
	wd, _ := os.Getwd()
	creds, err := config.LoadCredentials(appCfg, wd)
	if err != nil {
		return nil, err
	}
	client, err := openai.NewClient(creds, appCfg.RequestTimeout(), appLog)
	if err != nil {
		return nil, err
	}
	appLog.Debug().Str("endpoint", client.Endpoint()).Bool("azure", creds.UseAzure()).Msg("completion client ready")
	return client, nil
}

func printResult(out io.Writer, verb string, res *generate.Result) {
	fmt.Fprintln(out, cli.RenderSuccess(verb+res.Path))
	fmt.Fprintln(out, cli.RenderCostLine(res.Cost, res.TotalUSD))
}
