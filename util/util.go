package util

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/islandora-tools/batch-ingest-services/constants"
)

// pidPattern matches namespace:identifier, where the namespace is one
// or more of [A-Za-z0-9.-] and the identifier is one or more of
// [A-Za-z0-9.~_-] or a percent-encoded octet.
var pidPattern = regexp.MustCompile(`^[A-Za-z0-9.-]+:([A-Za-z0-9.~_-]|%[0-9A-Fa-f]{2})+$`)

var numericPattern = regexp.MustCompile(`^[0-9]+$`)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// IsValidPid returns true if pid is a syntactically valid Fedora PID:
// at most 64 characters total, in namespace:identifier form.
func IsValidPid(pid string) bool {
	if len(pid) > constants.MaxPidLength {
		return false
	}
	return pidPattern.MatchString(pid)
}

// PidNamespace returns the namespace portion of a PID, or an empty
// string if pid contains no colon.
func PidNamespace(pid string) string {
	if i := strings.Index(pid, ":"); i > 0 {
		return pid[:i]
	}
	return ""
}

// IsNumeric returns true if s consists entirely of ASCII digits.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

// SequenceFromName derives a sequence number string from a child
// directory name. Page directories are conventionally zero-padded
// numerics ("0001", "0002", ...), which we strip to "1", "2", etc.
// Non-numeric names fall back to the one-based position the caller
// supplies from sort order.
func SequenceFromName(name string, position int) string {
	if IsNumeric(name) {
		trimmed := strings.TrimLeft(name, "0")
		if trimmed == "" {
			trimmed = "0"
		}
		return trimmed
	}
	return strconv.Itoa(position)
}

// FileExtension returns the lowercased extension of filename without
// the leading dot. Returns an empty string for files with no extension.
func FileExtension(filename string) string {
	ext := filepath.Ext(filepath.Base(filename))
	if ext == "" || ext == "." {
		return ""
	}
	return strings.ToLower(ext[1:])
}
