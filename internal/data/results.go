package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"market-sim/internal/simulation"
)

// SaveResultJSON saves a simulation result to a JSON file
func SaveResultJSON(res *simulation.Result, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}

	return nil
}

// LoadResultJSON loads a result written by SaveResultJSON
func LoadResultJSON(filePath string) (*simulation.Result, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var res simulation.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to parse result file: %w", err)
	}

	return &res, nil
}

// PresetFile is a parameters YAML file that can be referenced by name.
type PresetFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListPresetFiles returns the *.yaml files in dir, sorted by name. A missing
// directory is not an error.
func ListPresetFiles(dir string) ([]PresetFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []PresetFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		out = append(out, PresetFile{
			Name: strings.TrimSuffix(e.Name(), ext),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetDefaultPresetDir returns the directory parameter presets are read from
func GetDefaultPresetDir() string {
	if dir := os.Getenv("PRESET_DIR"); dir != "" {
		return dir
	}
	return "./examples/presets"
}
