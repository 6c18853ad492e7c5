package source

import (
	"fmt"
	"os"

	"github.com/theirongolddev/codeassist/internal/model"
	"github.com/theirongolddev/codeassist/internal/store"
)

// ParseFile reads one session file and summarizes it for listings.
func ParseFile(df DiscoveredFile) ParseResult {
	data, err := os.ReadFile(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}

	sess, err := store.DecodeSession(data)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%w %s: %w", store.ErrCorruptSession, df.Path, err)}
	}

	// A record copied under another name is listed by the name it loads with.
	sess.ProjectID = df.ProjectID
	return ParseResult{Stats: model.Summarize(df.Path, sess)}
}
