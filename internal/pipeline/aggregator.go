package pipeline

import (
	"sort"

	"github.com/theirongolddev/codeassist/internal/model"
)

// Totals summarizes spend across a set of projects.
type Totals struct {
	Projects     int
	Calls        int
	InputTokens  int64
	OutputTokens int64
	TotalUSD     float64
}

// Aggregate sums the ledgers of projects. The total is rounded after each
// addition like a ledger total.
func Aggregate(projects []model.ProjectStats) Totals {
	var t Totals
	for _, p := range projects {
		t.Projects++
		t.Calls += p.Calls
		t.InputTokens += p.InputTokens
		t.OutputTokens += p.OutputTokens
		t.TotalUSD = model.RoundUSD(t.TotalUSD + p.TotalUSD)
	}
	return t
}

// SortProjects orders projects by most recent call, then by id. Projects
// that never made a call sort last.
func SortProjects(projects []model.ProjectStats) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		if !a.LastCallAt.Equal(b.LastCallAt) {
			return a.LastCallAt.After(b.LastCallAt)
		}
		return a.ProjectID < b.ProjectID
	})
}

// FilterByID returns the project with the given id, if present.
func FilterByID(projects []model.ProjectStats, projectID string) (model.ProjectStats, bool) {
	for _, p := range projects {
		if p.ProjectID == projectID {
			return p, true
		}
	}
	return model.ProjectStats{}, false
}
