package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/codeassist/internal/cli"
	"github.com/theirongolddev/codeassist/internal/pipeline"
	"github.com/theirongolddev/codeassist/internal/store"
)

var projectsNoCache bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with usage and spend",
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsNoCache, "no-cache", false, "Skip the SQLite index, reparse every session")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	result, err := loadProjects(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range result.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderWarning(e.Error()))
	}
	if len(result.Projects) == 0 {
		fmt.Fprintln(out, "\n  No projects found.")
		return nil
	}

	rows := make([][]string, 0, len(result.Projects)+2)
	for _, p := range result.Projects {
		rows = append(rows, []string{
			cli.Truncate(p.ProjectID, 24),
			p.Model,
			cli.FormatNumber(int64(p.Turns)),
			cli.FormatNumber(int64(p.Calls)),
			cli.FormatTokens(p.InputTokens),
			cli.FormatTokens(p.OutputTokens),
			cli.FormatCost(p.TotalUSD),
			cli.FormatTime(p.LastCallAt),
		})
	}
	totals := pipeline.Aggregate(result.Projects)
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		fmt.Sprintf("%d projects", totals.Projects), "", "",
		cli.FormatNumber(int64(totals.Calls)),
		cli.FormatTokens(totals.InputTokens),
		cli.FormatTokens(totals.OutputTokens),
		cli.FormatCost(totals.TotalUSD),
		"",
	})

	fmt.Fprintln(out, cli.RenderTitle("PROJECTS"))
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Model", "Turns", "Calls", "Input", "Output", "Total", "Last call"},
		Rows:    rows,
	}))

	if merged := pipeline.MergeModels(result.Projects); len(merged) > 0 {
		fmt.Fprintln(out)
		fmt.Fprint(out, renderModelRows("By model", merged))
	}
	return nil
}

// loadProjects reads every session, through the SQLite index unless
// --no-cache is set or the index cannot be opened.
func loadProjects(progress io.Writer) (*pipeline.LoadResult, error) {
	progressFn := func(current, total int) {
		if flagQuiet || !isTerminal(progress) {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(progress, "\r  %s", cli.RenderProgressBar(current, total, 20))
			if current == total {
				fmt.Fprint(progress, "\r\033[K")
			}
		}
	}

	dir := appCfg.SessionsDir()
	if !projectsNoCache {
		ix, err := store.OpenIndex(appCfg.IndexPath())
		if err != nil {
			appLog.Warn().Err(err).Msg("project index unavailable, doing full parse")
		} else {
			defer func() { _ = ix.Close() }()

			cr, err := pipeline.LoadWithCache(dir, ix, progressFn)
			if err == nil {
				appLog.Debug().
					Int("cache_hits", cr.CacheHits).
					Int("reparsed", cr.Reparsed).
					Int("pruned", cr.Pruned).
					Msg("projects loaded from index")
				return &cr.LoadResult, nil
			}
			appLog.Warn().Err(err).Msg("index error, falling back to full parse")
		}
	}

	result, err := pipeline.Load(dir, progressFn)
	if err != nil {
		return nil, err
	}
	appLog.Debug().Str("parsed", formatNumber(int64(result.ParsedFiles))).Msg("projects parsed")
	return result, nil
}
