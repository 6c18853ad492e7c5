// Package pipeline loads session files into project summaries, with an
// optional SQLite index, and aggregates them for reports.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/codeassist/internal/model"
	"github.com/theirongolddev/codeassist/internal/source"
)

// LoadResult holds the output of the loading pipeline.
type LoadResult struct {
	Projects    []model.ProjectStats
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Errors      []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every session file in sessionsDir using a
// bounded worker pool.
func Load(sessionsDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", sessionsDir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	}) {
		result.add(pr)
	}
	SortProjects(result.Projects)
	return result, nil
}

func (r *LoadResult) add(pr source.ParseResult) {
	if pr.Err != nil {
		r.FileErrors++
		r.Errors = append(r.Errors, pr.Err)
		return
	}
	r.ParsedFiles++
	r.Projects = append(r.Projects, pr.Stats)
}

// parseAll parses files in parallel and returns results in input order.
func parseAll(files []source.DiscoveredFile, onDone func(n int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				onDone(int(processed.Add(1)))
			}
		}()
	}

	wg.Wait()
	return results
}
