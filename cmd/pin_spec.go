package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/input"
)

var pinSpecFile string

var pinSpecCmd = &cobra.Command{
	Use:   "pin-spec <project> --file <path>",
	Short: "Pin or replace a project spec from a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPinSpec,
}

func init() {
	pinSpecCmd.Flags().StringVarP(&pinSpecFile, "file", "f", "", "Path to a markdown/txt spec")
	_ = pinSpecCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(pinSpecCmd)
}

func runPinSpec(cmd *cobra.Command, args []string) error {
	content, err := input.Resolver{}.ReadFile(pinSpecFile)
	if err != nil {
		return err
	}

	dst, err := sessionStore().PinSpec(args[0], content)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSuccess("Spec pinned at "+dst))
	return nil
}
