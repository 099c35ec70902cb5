package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"easyapp_server/internal/types"
)

// ErrInvalidResponse is returned when the model output is not a six-key JSON object of strings.
var ErrInvalidResponse = errors.New("model returned an invalid response")

// ParseProjectFiles trims raw and decodes it into ProjectFiles. Every one of the six keys must be
// present and hold a JSON string; missing, extra or non-string keys are rejected.
func ParseProjectFiles(raw string) (types.ProjectFiles, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return types.ProjectFiles{}, fmt.Errorf("%w: empty response text", ErrInvalidResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return types.ProjectFiles{}, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidResponse, err)
	}
	if fields == nil {
		return types.ProjectFiles{}, fmt.Errorf("%w: not a JSON object: null", ErrInvalidResponse)
	}

	var files types.ProjectFiles
	var missing []string
	for _, path := range types.ProjectFilePaths {
		value, ok := fields[path]
		if !ok {
			missing = append(missing, path)
			continue
		}
		var content string
		if err := json.Unmarshal(value, &content); err != nil || strings.TrimSpace(string(value)) == "null" {
			return types.ProjectFiles{}, fmt.Errorf("%w: %q is not a string", ErrInvalidResponse, path)
		}
		files.Set(path, content)
	}
	if len(missing) > 0 {
		return types.ProjectFiles{}, fmt.Errorf("%w: missing %s", ErrInvalidResponse, strings.Join(missing, ", "))
	}

	var unknown []string
	for key := range fields {
		if !types.IsProjectFilePath(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return types.ProjectFiles{}, fmt.Errorf("%w: unexpected %s", ErrInvalidResponse, strings.Join(unknown, ", "))
	}

	return files, nil
}
