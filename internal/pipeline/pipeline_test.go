package pipeline

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/codeassist/internal/model"
	"github.com/theirongolddev/codeassist/internal/store"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *store.Sessions, id string, at time.Time, calls ...float64) {
	t.Helper()
	sess, err := s.Load(id)
	require.NoError(t, err)
	for _, cost := range calls {
		u := model.NewUsage(1000, 100)
		sess.AddTurn(model.RoleUser, "brief", nil, at)
		sess.AddTurn(model.RoleAssistant, "code", u, at)
		sess.Billing.Record(at, "gpt-5-mini", u, cost)
	}
	require.NoError(t, s.Save(sess))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	s := store.NewSessions(dir)
	seed(t, s, "old", t0, 0.001)
	seed(t, s, "new", t0.Add(time.Hour), 0.002, 0.003)
	seed(t, s, "idle", t0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("nope"), 0o600))

	var mu sync.Mutex
	var last, seenTotal int
	res, err := Load(dir, func(cur, total int) {
		mu.Lock()
		defer mu.Unlock()
		seenTotal = total
		if cur > last {
			last = cur
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 4, last)
	assert.Equal(t, 4, seenTotal)
	assert.Equal(t, 4, res.TotalFiles)
	assert.Equal(t, 3, res.ParsedFiles)
	assert.Equal(t, 1, res.FileErrors)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], store.ErrCorruptSession)

	require.Len(t, res.Projects, 3)
	assert.Equal(t, "new", res.Projects[0].ProjectID)
	assert.Equal(t, "old", res.Projects[1].ProjectID)
	assert.Equal(t, "idle", res.Projects[2].ProjectID)

	tot := Aggregate(res.Projects)
	assert.Equal(t, 3, tot.Projects)
	assert.Equal(t, 3, tot.Calls)
	assert.Equal(t, int64(3000), tot.InputTokens)
	assert.Equal(t, 0.006, tot.TotalUSD)
}

func TestLoad_EmptyDir(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Projects)
	assert.Equal(t, 0, res.TotalFiles)
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	s := store.NewSessions(dir)
	seed(t, s, "a", t0, 0.001)
	seed(t, s, "b", t0, 0.002)

	ix, err := store.OpenIndex(filepath.Join(t.TempDir(), "projects.db"))
	require.NoError(t, err)
	defer func() { _ = ix.Close() }()

	first, err := LoadWithCache(dir, ix, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 2, first.Reparsed)
	require.Len(t, first.Projects, 2)

	second, err := LoadWithCache(dir, ix, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, 0, second.Reparsed)
	assert.Equal(t, first.Projects, second.Projects)

	seed(t, s, "a", t0.Add(time.Minute), 0.004)
	require.NoError(t, os.Remove(filepath.Join(dir, "b.json")))

	third, err := LoadWithCache(dir, ix, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Reparsed)
	assert.Equal(t, 1, third.Pruned)
	require.Len(t, third.Projects, 1)
	assert.Equal(t, 2, third.Projects[0].Calls)
	assert.Equal(t, 0.005, third.Projects[0].TotalUSD)

	n, err := ix.ProjectCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestModelBreakdown(t *testing.T) {
	projects := []model.ProjectStats{
		{ProjectID: "a", Models: map[string]*model.ModelUsage{
			"gpt-5":      {Calls: 1, InputTokens: 10, OutputTokens: 5, CostUSD: 0.5},
			"gpt-5-mini": {Calls: 2, InputTokens: 20, OutputTokens: 10, CostUSD: 0.1},
		}},
		{ProjectID: "b", Models: map[string]*model.ModelUsage{
			"gpt-5-mini": {Calls: 1, InputTokens: 5, OutputTokens: 1, CostUSD: 0.6},
		}},
	}

	rows := MergeModels(projects)
	require.Len(t, rows, 2)
	assert.Equal(t, "gpt-5-mini", rows[0].Model)
	assert.Equal(t, 3, rows[0].Calls)
	assert.Equal(t, 0.7, rows[0].CostUSD)
	assert.Equal(t, "gpt-5", rows[1].Model)

	single := ModelBreakdown(projects[0].Models)
	assert.Equal(t, "gpt-5", single[0].Model)

	p, ok := FilterByID(projects, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", p.ProjectID)
	_, ok = FilterByID(projects, "zz")
	assert.False(t, ok)
}
