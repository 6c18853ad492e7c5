package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const specTemplate = "# Project spec\n\n(put org rules, naming, SLAs here)\n"

// SpecPath returns the pinned spec path for projectID.
func (s *Sessions) SpecPath(projectID string) (string, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, projectID+specSuffix), nil
}

// PinnedHead returns at most maxLines lines of the pinned spec joined by "\n",
// or "" when the project has no spec. It always reads the file fresh.
func (s *Sessions) PinnedHead(projectID string, maxLines int) (string, error) {
	path, err := s.SpecPath(projectID)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is built from a validated project id
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading pinned spec: %w", err)
	}

	return headLines(strings.ToValidUTF8(string(data), ""), maxLines), nil
}

// headLines splits on \n, \r\n, or \r; a trailing line break does not start a new line.
func headLines(text string, maxLines int) string {
	if maxLines <= 0 || text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")

	lines := strings.SplitN(text, "\n", maxLines+1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

// PinSpec replaces the project's pinned spec with content. The previous
// version is not kept.
func (s *Sessions) PinSpec(projectID, content string) (string, error) {
	path, err := s.SpecPath(projectID)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, []byte(content), sessionFileMode); err != nil {
		return "", err
	}
	return path, nil
}

// InitSpec writes a template spec when the project has none.
func (s *Sessions) InitSpec(projectID string) (path string, created bool, err error) {
	path, err = s.SpecPath(projectID)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := writeFileAtomic(path, []byte(specTemplate), sessionFileMode); err != nil {
		return "", false, err
	}
	return path, true, nil
}
