package utils

import (
	"path/filepath"
	"strings"
)

// DetermineFileType maps a result path to the syntax a viewer should highlight it with.
func DetermineFileType(filename string) string {
	lowerFilename := strings.ToLower(filename)
	switch filepath.Ext(lowerFilename) {
	case ".json":
		return "JSON"
	case ".xml":
		return "XML"
	case ".easy":
		// app.easy documents are JSON on the wire
		return "JSON"
	case ".txt", ".md":
		return "Text"
	default:
		return "Unknown"
	}
}

// ContentType returns the MIME type used when serving a result file as-is.
func ContentType(filename string) string {
	switch DetermineFileType(filename) {
	case "JSON":
		return "application/json; charset=utf-8"
	case "XML":
		return "application/xml; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// DisplayName is the tab label for a result path, e.g. "app_icon.xml".
func DisplayName(filename string) string {
	return filepath.Base(filename)
}
