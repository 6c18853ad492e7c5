package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const sessionExt = ".json"

// ScanDir lists the session files directly under sessionsDir. A missing
// directory yields no files and no error.
func ScanDir(sessionsDir string) ([]DiscoveredFile, error) {
	entries, err := os.ReadDir(sessionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Skip temp files left by an interrupted save
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != sessionExt {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:      filepath.Join(sessionsDir, name),
			ProjectID: strings.TrimSuffix(name, sessionExt),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ProjectID < files[j].ProjectID
	})
	return files, nil
}
