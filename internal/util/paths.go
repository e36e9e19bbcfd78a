package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"\x00", "",
)

// OutputPath returns <dir>/<name><ext> with path separators in name replaced.
func OutputPath(dir, name, ext string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" {
		name = "dashboard"
	}
	return filepath.Join(dir, name+ext)
}

// WriteFile writes content to path, creating missing parent directories.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false // e.g., file doesn't exist
	}
	return info.Mode().IsRegular()
}
