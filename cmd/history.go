package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <project>",
	Short: "Show a project's recent turns",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Number of turns to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	sess, err := sessionStore().Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sess.Turns) == 0 {
		fmt.Fprintln(out, "\n  No turns yet.")
		return nil
	}

	start := 0
	if historyLimit > 0 && len(sess.Turns) > historyLimit {
		start = len(sess.Turns) - historyLimit
	}

	rows := make([][]string, 0, len(sess.Turns)-start)
	for i := start; i < len(sess.Turns); i++ {
		t := sess.Turns[i]
		tokens := ""
		if t.Usage != nil {
			tokens = cli.FormatTokens(t.Usage.TotalTokens)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(t.Role),
			cli.FormatTime(t.TS.Time),
			tokens,
			cli.Truncate(t.Content, 60),
		})
	}

	fmt.Fprintln(out, cli.RenderTitle(fmt.Sprintf("HISTORY  %s (showing %d of %d)", sess.ProjectID, len(rows), len(sess.Turns))))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"#", "Role", "Time", "Tokens", "Content"},
		Rows:    rows,
	}))
	return nil
}
