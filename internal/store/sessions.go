// Package store persists project sessions, pinned specs, and the SQLite project index.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/codeassist/internal/model"
)

const (
	sessionsDirMode = 0o750
	sessionFileMode = 0o600
	sessionExt      = ".json"
	specSuffix      = "_spec.md"
	tempFilePattern = ".session-*.json.tmp"
)

var (
	// ErrCorruptSession means a stored session record could not be decoded.
	ErrCorruptSession = errors.New("store: corrupt session record")
	// ErrInvalidProjectID means the id cannot be used as a file name.
	ErrInvalidProjectID = errors.New("store: invalid project id")
)

// Sessions persists one JSON document per project under a directory.
// There is no locking: concurrent invocations on one project race and the
// last Save wins.
type Sessions struct {
	dir string
	now func() time.Time
}

// NewSessions returns a store rooted at dir.
func NewSessions(dir string) *Sessions {
	return &Sessions{dir: filepath.Clean(dir), now: time.Now}
}

// WithClock returns a copy of s that stamps new sessions using now.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	c := *s
	c.now = now
	return &c
}

// Dir returns the directory holding session files.
func (s *Sessions) Dir() string {
	return s.dir
}

// ValidateProjectID rejects ids that are empty or would escape the sessions directory.
func ValidateProjectID(projectID string) error {
	id := strings.TrimSpace(projectID)
	if id == "" || id != projectID {
		return fmt.Errorf("%w: %q", ErrInvalidProjectID, projectID)
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidProjectID, projectID)
	}
	return nil
}

// Path returns the session file path for projectID.
func (s *Sessions) Path(projectID string) (string, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, projectID+sessionExt), nil
}

// Exists reports whether a session has been saved for projectID.
func (s *Sessions) Exists(projectID string) bool {
	path, err := s.Path(projectID)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load returns the stored session for projectID, or a fresh one if none exists.
// Stored records are decoded as-is; a record that does not decode is ErrCorruptSession.
func (s *Sessions) Load(projectID string) (*model.Session, error) {
	path, err := s.Path(projectID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is built from a validated project id
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewSession(projectID, s.now()), nil
		}
		return nil, fmt.Errorf("reading session %q: %w", projectID, err)
	}

	sess, err := DecodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptSession, path, err)
	}
	return sess, nil
}

// DecodeSession parses a stored session document.
func DecodeSession(data []byte) (*model.Session, error) {
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.ProjectID == "" {
		return nil, errors.New("missing project_id")
	}
	return &sess, nil
}

// Save writes the full session, replacing any prior content. The document is
// written to a temp file in the same directory and renamed into place.
func (s *Sessions) Save(sess *model.Session) error {
	path, err := s.Path(sess.ProjectID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %q: %w", sess.ProjectID, err)
	}

	return writeFileAtomic(path, data, sessionFileMode)
}

func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, sessionsDirMode); err != nil {
		return fmt.Errorf("create sessions directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}
	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp session file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	cleanup = false
	return nil
}
