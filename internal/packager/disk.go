package packager

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"easyapp_server/internal/types"
)

// WriteDir saves the six files below dir, creating subdirectories as needed.
// It returns the number of files written.
func WriteDir(dir string, files types.ProjectFiles) (int, error) {
	filesCount := 0
	for _, entry := range files.Entries() {
		filePath := filepath.Join(dir, filepath.FromSlash(entry.Path))
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return filesCount, fmt.Errorf("failed to create directory for %s: %w", entry.Path, err)
		}
		if err := os.WriteFile(filePath, []byte(entry.Content), 0o644); err != nil {
			return filesCount, fmt.Errorf("failed to write file %s: %w", filePath, err)
		}
		filesCount++
	}
	log.Printf("Saved %d project files to %s", filesCount, dir)
	return filesCount, nil
}
