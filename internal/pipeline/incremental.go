package pipeline

import (
	"fmt"
	"os"

	"github.com/theirongolddev/codeassist/internal/source"
	"github.com/theirongolddev/codeassist/internal/store"
)

// CachedLoadResult extends LoadResult with index metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
	Pruned    int
}

// LoadWithCache diffs the session files against the index, parses only
// changed files, and drops index rows whose file is gone.
func LoadWithCache(sessionsDir string, ix *store.Index, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sessionsDir, err)
	}

	tracked, err := ix.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	result := &CachedLoadResult{LoadResult: LoadResult{TotalFiles: len(files)}}

	type fileState struct {
		mtimeNs int64
		size    int64
	}
	var toReparse []source.DiscoveredFile
	states := make(map[string]fileState, len(files))
	unchanged := make(map[string]struct{})

	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		st := fileState{mtimeNs: info.ModTime().UnixNano(), size: info.Size()}
		states[f.Path] = st

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == st.mtimeNs && cached.SizeBytes == st.size {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := states[path]; ok {
			continue
		}
		if err := ix.DeleteByFile(path); err != nil {
			return nil, fmt.Errorf("pruning index: %w", err)
		}
		result.Pruned++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	if len(unchanged) > 0 {
		cached, err := ix.LoadProjects()
		if err != nil {
			return nil, fmt.Errorf("loading indexed projects: %w", err)
		}
		for _, p := range cached {
			if _, ok := unchanged[p.FilePath]; ok {
				result.Projects = append(result.Projects, p)
				result.ParsedFiles++
			}
		}
	}

	if len(toReparse) > 0 {
		results := parseAll(toReparse, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})
		for i, pr := range results {
			result.add(pr)
			if pr.Err != nil {
				continue
			}
			st := states[toReparse[i].Path]
			_ = ix.SaveProject(pr.Stats, st.mtimeNs, st.size)
		}
	}

	SortProjects(result.Projects)
	return result, nil
}
