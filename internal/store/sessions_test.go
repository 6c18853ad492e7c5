package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/codeassist/internal/model"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	return NewSessions(filepath.Join(t.TempDir(), "sessions")).WithClock(func() time.Time { return fixedNow })
}

func TestLoad_FreshSession(t *testing.T) {
	s := newTestSessions(t)

	sess, err := s.Load("demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", sess.ProjectID)
	assert.Nil(t, sess.Model)
	assert.Equal(t, 0.0, sess.Billing.TotalUSD)
	assert.Empty(t, sess.Billing.Entries)
	assert.Empty(t, sess.Turns)
	assert.Equal(t, fixedNow, sess.CreatedAt.Time)
	assert.False(t, s.Exists("demo"), "Load must not create a file")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestSessions(t)

	sess, err := s.Load("demo")
	require.NoError(t, err)
	sess.SetModel("gpt-4.1-mini")
	sess.AddTurn(model.RoleUser, "brief", nil, fixedNow)
	sess.AddTurn(model.RoleAssistant, "print('hi')\n", model.NewUsage(10_000, 2_000), fixedNow)
	sess.Billing.Record(fixedNow, "gpt-4.1-mini", model.NewUsage(10_000, 2_000), 0.0072)

	require.NoError(t, s.Save(sess))
	first, err := s.Load("demo")
	require.NoError(t, err)
	assert.Equal(t, sess, first)

	require.NoError(t, s.Save(first))
	second, err := s.Load("demo")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "demo.json", entries[0].Name())
}

func TestLoad_LegacyRecord(t *testing.T) {
	s := newTestSessions(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o750))
	legacy := `{
  "project_id": "old",
  "created_at": "2025-05-01T08:30:00.123456",
  "model": null,
  "billing": {"total_usd": 0.0123, "turns": [
    {"ts": "2025-05-01T08:31:00.5", "model": "gpt-5", "input_tokens": 100, "output_tokens": 200, "cost_usd": 0.0123}
  ]},
  "turns": [
    {"role": "user", "content": "x", "ts": "2025-05-01T08:31:00"},
    {"role": "assistant", "content": "y", "ts": "2025-05-01T08:31:00", "usage": {"input_tokens": 100, "output_tokens": 200, "total_tokens": 300}}
  ]
}`
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "old.json"), []byte(legacy), 0o600))

	sess, err := s.Load("old")
	require.NoError(t, err)
	assert.Equal(t, "", sess.SelectedModel())
	assert.Equal(t, 0.0123, sess.Billing.TotalUSD)
	require.Len(t, sess.Turns, 2)
	assert.Equal(t, int64(300), sess.Turns[1].Usage.TotalTokens)
	assert.Equal(t, 2025, sess.CreatedAt.Year())
}

func TestLoad_CorruptRecord(t *testing.T) {
	s := newTestSessions(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o600))

	_, err := s.Load("bad")
	assert.ErrorIs(t, err, ErrCorruptSession)
}

func TestInvalidProjectIDs(t *testing.T) {
	s := newTestSessions(t)
	for _, id := range []string{"", " ", "..", ".", "a/b", `a\b`, "../escape", " padded"} {
		_, err := s.Load(id)
		assert.ErrorIs(t, err, ErrInvalidProjectID, "id %q", id)
	}
	assert.NoError(t, ValidateProjectID("team.etl-2025_q3"))
}

func TestPinnedHead_DemoScenario(t *testing.T) {
	s := newTestSessions(t)

	head, err := s.PinnedHead("demo", 60)
	require.NoError(t, err)
	assert.Equal(t, "", head, "missing spec degrades to empty")

	lines := []string{"RULE: use snake_case"}
	for i := 0; i < 59; i++ {
		lines = append(lines, strings.Repeat(" ", i%3))
	}
	content := strings.Join(lines, "\n") + "\n"
	_, err = s.PinSpec("demo", content)
	require.NoError(t, err)

	head, err = s.PinnedHead("demo", 60)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(content, "\n"), head)

	head, err = s.PinnedHead("demo", 1)
	require.NoError(t, err)
	assert.Equal(t, "RULE: use snake_case", head)

	head, err = s.PinnedHead("demo", 0)
	require.NoError(t, err)
	assert.Equal(t, "", head)
}

func TestPinnedHead_ReadsFreshAndNormalizesLineEndings(t *testing.T) {
	s := newTestSessions(t)

	_, err := s.PinSpec("p", "a\r\nb\rc\n")
	require.NoError(t, err)
	head, err := s.PinnedHead("p", 10)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc", head)

	_, err = s.PinSpec("p", "replaced\n")
	require.NoError(t, err)
	head, err = s.PinnedHead("p", 10)
	require.NoError(t, err)
	assert.Equal(t, "replaced", head)
}

func TestInitSpec_KeepsExisting(t *testing.T) {
	s := newTestSessions(t)

	path, created, err := s.InitSpec("p")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, filepath.Join(s.Dir(), "p_spec.md"), path)

	_, err = s.PinSpec("p", "mine\n")
	require.NoError(t, err)

	_, created, err = s.InitSpec("p")
	require.NoError(t, err)
	assert.False(t, created)

	head, err := s.PinnedHead("p", 60)
	require.NoError(t, err)
	assert.Equal(t, "mine", head)
}
