package packager

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"easyapp_server/internal/types"
)

// DefaultArchiveBase is used when the app name yields an empty slug.
const DefaultArchiveBase = "app_project"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	notSlugChar   = regexp.MustCompile(`[^a-z0-9_]`)
)

// ArchiveBaseName derives the archive name from the app name, e.g. "My App!" -> "my_app".
func ArchiveBaseName(appName string) string {
	slug := strings.ToLower(strings.TrimSpace(appName))
	slug = whitespaceRun.ReplaceAllString(slug, "_")
	slug = notSlugChar.ReplaceAllString(slug, "")
	if slug == "" {
		return DefaultArchiveBase
	}
	return slug
}

// ArchiveFileName is ArchiveBaseName plus the .zip extension.
func ArchiveFileName(appName string) string {
	return ArchiveBaseName(appName) + ".zip"
}

// WriteArchive writes a zip whose entries are exactly the six project file paths.
func WriteArchive(w io.Writer, files types.ProjectFiles) error {
	zw := zip.NewWriter(w)
	modified := time.Now()
	for _, entry := range files.Entries() {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", entry.Path, err)
		}
		if _, err := io.WriteString(fw, entry.Content); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", entry.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// ReadArchive returns every entry of a zip archive keyed by its path.
func ReadArchive(r io.ReaderAt, size int64) (map[string]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	return entries, nil
}
