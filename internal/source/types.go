package source

import "github.com/theirongolddev/codeassist/internal/model"

// DiscoveredFile represents a session file found during directory scanning.
type DiscoveredFile struct {
	Path      string
	ProjectID string // file name without the .json extension
}

// ParseResult holds the outcome of reading a single session file.
type ParseResult struct {
	Stats model.ProjectStats
	Err   error
}
