package utils

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadTOMLFile decodes a TOML file into out.
func LoadTOMLFile(path string, out any) error {
	if _, err := toml.DecodeFile(path, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// SaveTOMLFile encodes data as TOML at path, replacing any existing file.
func SaveTOMLFile(data any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(data)
}

// ParseTOMLWithRecovery reads a TOML file into a loose map. A typed decode
// rejects the whole file over one bad value; the loose form lets callers
// salvage the sections that did parse.
func ParseTOMLWithRecovery(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	loose := make(map[string]any)
	if _, err := toml.Decode(string(data), &loose); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return loose, nil
}

// ExtractSection pulls one named table out of loosely parsed TOML.
func ExtractSection(data map[string]any, name string) (map[string]any, bool) {
	section, ok := data[name].(map[string]any)
	return section, ok
}

// ExtractInt reads an integer key from a loose TOML table. Values of the
// wrong type report absent.
func ExtractInt(data map[string]any, key string) (int, bool) {
	if val, ok := data[key].(int64); ok {
		return int(val), true
	}
	return 0, false
}

// ExtractBool reads a boolean key from a loose TOML table.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	if val, ok := data[key].(bool); ok {
		return val, true
	}
	return false, false
}

// ExtractString reads a string key from a loose TOML table.
func ExtractString(data map[string]any, key string) (string, bool) {
	if val, ok := data[key].(string); ok {
		return val, true
	}
	return "", false
}
