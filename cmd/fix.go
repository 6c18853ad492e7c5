package cmd

import (
	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/generate"
)

var (
	fixModel     string
	fixError     string
	fixErrorFile string
)

var fixCmd = &cobra.Command{
	Use:   "fix <project>",
	Short: "Paste errors to regenerate the last file",
	Long: "Send error output back to the model and write the full corrected file.\n\n" +
		"Errors come from --error and --error-file (joined), or are read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixModel, "model", "", "Model to use for this fix (the project default is unchanged)")
	fixCmd.Flags().StringVar(&fixError, "error", "", "Error text")
	fixCmd.Flags().StringVar(&fixErrorFile, "error-file", "", "File holding error output")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	completer, err := newCompleter()
	if err != nil {
		return err
	}

	errText, err := newInputResolver(cmd).ErrorText(fixError, fixErrorFile)
	if err != nil {
		return err
	}

	g := generate.New(appCfg, sessionStore(), withProgress(completer, cmd.ErrOrStderr(), "Fixing"), generate.WithLogger(appLog))
	res, err := g.Run(cmd.Context(), generate.Request{
		ProjectID: args[0],
		Kind:      generate.KindFix,
		Model:     fixModel,
		ErrorText: errText,
	})
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), "Wrote: ", res)
	return nil
}
