package util

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
)

// FileExists returns true if the file at path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDirectory returns true if path exists and is a directory.
func IsDirectory(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}

// FileSize returns the size of the file at path in bytes, or -1 if the
// file cannot be statted.
func FileSize(path string) int64 {
	stat, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return stat.Size()
}

// ExpandTilde expands the tilde in a path like ~/logs to an absolute
// path in the current user's home directory.
func ExpandTilde(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	homeDir := usr.HomeDir + string(os.PathSeparator)
	expanded := strings.Replace(filePath, "~/", homeDir, 1)
	return expanded, nil
}

// ListSubdirs returns the names of the immediate subdirectories of
// dir, sorted lexically. Sorting keeps batch processing order
// deterministic regardless of what order the OS hands entries back.
func ListSubdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListFiles returns the names of the plain files directly inside dir,
// sorted lexically. Subdirectories are not descended.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// RecursiveDelete removes dir and everything beneath it. It refuses to
// delete paths that are suspiciously short, so a bad config value
// can't wipe out /home or /tmp.
func RecursiveDelete(dir string) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if len(strings.Split(absPath, string(os.PathSeparator))) < 3 {
		return fmt.Errorf("%s does not look safe to delete", absPath)
	}
	return os.RemoveAll(absPath)
}
