package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
)

var initCmd = &cobra.Command{
	Use:   "init <project>",
	Short: "Initialize a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	projectID := args[0]
	sessions := sessionStore()

	sess, err := sessions.Load(projectID)
	if err != nil {
		return err
	}
	if sess.SelectedModel() == "" {
		sess.SetModel(appCfg.General.DefaultModel)
	}
	if err := sessions.Save(sess); err != nil {
		return err
	}

	specPath, created, err := sessions.InitSpec(projectID)
	if err != nil {
		return err
	}
	appLog.Debug().Str("project", projectID).Bool("spec_created", created).Msg("project initialized")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderSuccess("Initialized "+projectID))
	fmt.Fprint(out, cli.RenderKV([][2]string{
		{"Sessions", sessions.Dir()},
		{"Spec", specPath},
		{"Model", sess.SelectedModel()},
	}))
	return nil
}
