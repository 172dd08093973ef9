package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// JoinSlice joins elements of a slice into a single string, separated by the specified delimiter.
func JoinSlice[T any](slice []T, delimeter string) string {
	var parts []string
	for _, v := range slice {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, delimeter)
}

// SplitList splits a delimited list, trimming blanks and dropping empty and repeated entries.
func SplitList(list string, delimeter string) []string {
	seen := make(map[string]struct{})
	parts := make([]string, 0)
	for _, part := range strings.Split(list, delimeter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, exists := seen[part]; exists {
			continue
		}
		seen[part] = struct{}{}
		parts = append(parts, part)
	}
	return parts
}

func CreateDirectoryIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func LocalFileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func ReadJSONFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open JSON file %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return nil
}

func WriteJSONFile(file *os.File, data interface{}, pretty bool) error {
	encoder := json.NewEncoder(file)
	if pretty {
		encoder.SetIndent("", "  ") // Pretty print with indentation
	}

	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to write JSON to file: %w", err)
	}
	return nil
}
