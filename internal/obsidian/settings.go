package obsidian

import (
	"encoding/json"
	"fmt"

	"github.com/halvard/bifrost/internal/storage"
)

// Keys recognized in the Obsidian config files. Unknown keys are
// preserved on write.
const (
	KeyNewFileLocation   = "newFileLocation"
	KeyNewFileFolderPath = "newFileFolderPath"
	KeyDailyFolder       = "folder"
	KeyDailyFormat       = "format"
)

// NewFileLocationFolder is the expected newFileLocation mode.
const NewFileLocationFolder = "folder"

// ReadSettings reads a flat JSON config file. A missing or unparsable
// file degrades silently to nil: the caller treats every value as
// absent and flags mismatches against the expected default.
func ReadSettings(store storage.Provider, path string) map[string]any {
	data, err := store.Read(path)
	if err != nil {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	return obj
}

// StringSetting returns the string value for key, or "" when the
// settings map is nil, the key is absent, or the value is not a string.
func StringSetting(settings map[string]any, key string) string {
	if settings == nil {
		return ""
	}
	if s, ok := settings[key].(string); ok {
		return s
	}
	return ""
}

// UpdateSetting read-modify-writes one key in a flat JSON config file.
// An absent or unparsable file defaults to an empty object; all other
// keys are preserved.
func UpdateSetting(store storage.Provider, path, key string, value any) error {
	obj := map[string]any{}
	if data, err := store.Read(path); err == nil {
		// A literal null unmarshals without error into a nil map.
		if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
			obj = map[string]any{}
		}
	}
	obj[key] = value
	out, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("obsidian: marshal settings %s: %w", path, err)
	}
	if err := store.Write(path, out); err != nil {
		return fmt.Errorf("obsidian: write settings %s: %w", path, err)
	}
	return nil
}
