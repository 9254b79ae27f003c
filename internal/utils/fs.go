package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirCheckResult reports whether a directory exists and accepts writes.
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and any missing parents.
func EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// GetAbsolutePath resolves path against the working directory. Empty paths
// come back as "unknown" so callers can print them directly.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return path
}

// GetExecutableDir returns the directory holding the running binary, the
// config location of last resort.
func GetExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// CheckDirStatus stats dirPath, creating it when missing, and probes write
// access with a throwaway file.
func CheckDirStatus(dirPath string) DirCheckResult {
	if _, err := os.Stat(dirPath); err != nil {
		if mkErr := os.MkdirAll(dirPath, 0o755); mkErr != nil {
			log.Warnf("Creating %s: %v", dirPath, mkErr)
			return DirCheckResult{Error: mkErr}
		}
	}
	return DirCheckResult{Exists: true, Writable: testWriteAccess(dirPath)}
}

// testWriteAccess creates and removes a probe file. Stat alone lies about
// read-only mounts.
func testWriteAccess(dirPath string) bool {
	probe := filepath.Join(dirPath, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		log.Warnf("Probe write in %s: %v", dirPath, err)
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}
