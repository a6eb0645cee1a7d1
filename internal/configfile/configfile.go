// Package configfile decodes the YAML or JSON list files (targets,
// publishers) that the poller reads at startup.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode reads path and decodes it into out. kind names the file in errors
// ("targets", "publishers").
func Decode(path, kind string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	return Unmarshal(data, filepath.Ext(path), kind, out)
}

// Unmarshal decodes data by file extension. ".json" uses encoding/json;
// ".yaml", ".yml" and extension-less files use YAML, which also accepts JSON.
func Unmarshal(data []byte, ext, kind string, out any) error {
	var (
		format string
		fn     func([]byte, any) error
	)
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		format, fn = "json", json.Unmarshal
	case ".yaml", ".yml", "":
		format, fn = "yaml", yaml.Unmarshal
	default:
		return fmt.Errorf("%s file format %q not recognized (expected YAML or JSON)", kind, ext)
	}
	if err := fn(data, out); err != nil {
		return fmt.Errorf("decode %s %s file: %w", format, kind, err)
	}
	return nil
}
