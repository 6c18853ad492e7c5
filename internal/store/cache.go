package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/codeassist/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Index is a SQLite cache of project summaries, keyed by session file
// mtime and size so unchanged files are not re-read. Session JSON files
// stay the source of truth.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the index database at the given path.
func OpenIndex(dbPath string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating index dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening index db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the index database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// FileInfo holds the tracked mtime and size for a session file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFiles returns file_path -> FileInfo for every indexed project.
func (ix *Index) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := ix.db.Query("SELECT file_path, file_mtime_ns, file_size FROM projects")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveProject stores a project summary and the file state it was read from.
func (ix *Index) SaveProject(p model.ProjectStats, mtimeNs, sizeBytes int64) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT OR REPLACE INTO projects
		(project_id, file_path, created_at, model, turns, calls,
		 input_tokens, output_tokens, total_usd, last_call_at,
		 file_mtime_ns, file_size, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.FilePath, formatTime(p.CreatedAt), p.Model, p.Turns, p.Calls,
		p.InputTokens, p.OutputTokens, p.TotalUSD, formatTime(p.LastCallAt),
		mtimeNs, sizeBytes, formatTime(time.Now()),
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM project_models WHERE project_id = ?", p.ProjectID); err != nil {
		return err
	}

	for modelName, mu := range p.Models {
		_, err = tx.Exec(`INSERT INTO project_models
			(project_id, model, calls, input_tokens, output_tokens, cost_usd)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ProjectID, modelName, mu.Calls, mu.InputTokens, mu.OutputTokens, mu.CostUSD,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadProjects reads every indexed project summary.
func (ix *Index) LoadProjects() ([]model.ProjectStats, error) {
	rows, err := ix.db.Query(`SELECT
		project_id, file_path, created_at, model, turns, calls,
		input_tokens, output_tokens, total_usd, last_call_at
		FROM projects`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.ProjectStats
	for rows.Next() {
		var p model.ProjectStats
		var createdStr, lastStr, modelName sql.NullString

		err := rows.Scan(
			&p.ProjectID, &p.FilePath, &createdStr, &modelName, &p.Turns, &p.Calls,
			&p.InputTokens, &p.OutputTokens, &p.TotalUSD, &lastStr,
		)
		if err != nil {
			return nil, err
		}
		p.Model = modelName.String
		p.CreatedAt = parseTime(createdStr)
		p.LastCallAt = parseTime(lastStr)
		p.Models = make(map[string]*model.ModelUsage)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	modelRows, err := ix.db.Query(`SELECT
		project_id, model, calls, input_tokens, output_tokens, cost_usd
		FROM project_models`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = modelRows.Close() }()

	idx := make(map[string]int, len(projects))
	for i, p := range projects {
		idx[p.ProjectID] = i
	}

	for modelRows.Next() {
		var pid, modelName string
		var mu model.ModelUsage
		if err := modelRows.Scan(&pid, &modelName, &mu.Calls, &mu.InputTokens, &mu.OutputTokens, &mu.CostUSD); err != nil {
			return nil, err
		}
		if i, ok := idx[pid]; ok {
			projects[i].Models[modelName] = &mu
		}
	}

	return projects, modelRows.Err()
}

// DeleteByFile removes the project indexed from filePath.
func (ix *Index) DeleteByFile(filePath string) error {
	_, err := ix.db.Exec("DELETE FROM projects WHERE file_path = ?", filePath)
	return err
}

// ProjectCount returns the number of indexed projects.
func (ix *Index) ProjectCount() (int, error) {
	var count int
	err := ix.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s.String)
	return t
}
