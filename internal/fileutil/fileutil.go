// Package fileutil provides file and path utility functions.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrNameEmpty         = errors.New("file name cannot be empty")
	ErrNamePathTraversal = errors.New("file name contains path separator or null byte")
)

// zipSignature is the local file header magic shared by zip-based
// formats (xlsx, xlsm, ods).
var zipSignature = []byte("PK\x03\x04")

// ole2Signature opens Compound File Binary documents: legacy .xls and
// password-protected xlsx.
var ole2Signature = []byte("\xd0\xcf\x11\xe0\xa1\xb1\x1a\xe1")

// ValidateBaseName checks that name is a bare file name that cannot
// address anything outside the directory it is joined to.
func ValidateBaseName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if strings.ContainsAny(name, "/\\\x00") || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrNamePathTraversal, name)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "cards" -> false (name)
//   - "./cards.yaml" -> true (relative path)
//   - "/etc/cardgen/cards.yaml" -> true (absolute)
//   - "C:\cards.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// HasZipSignature reports whether data starts with a zip local file header.
func HasZipSignature(data []byte) bool {
	return bytes.HasPrefix(data, zipSignature)
}

// HasOLE2Signature reports whether data starts with a Compound File Binary header.
func HasOLE2Signature(data []byte) bool {
	return bytes.HasPrefix(data, ole2Signature)
}

// Within reports whether target resolves to a location strictly inside base.
// Symlinks are resolved on both sides when possible.
func Within(base, target string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	if real, err := filepath.EvalSymlinks(absBase); err == nil {
		absBase = real
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	// A missing target is resolved through its parent so the prefix check
	// still compares like with like.
	if real, err := filepath.EvalSymlinks(absTarget); err == nil {
		absTarget = real
	} else if realDir, err := filepath.EvalSymlinks(filepath.Dir(absTarget)); err == nil {
		absTarget = filepath.Join(realDir, filepath.Base(absTarget))
	}

	// Separator suffix prevents /base/path matching /base/pathevil.
	return strings.HasPrefix(absTarget, absBase+string(filepath.Separator))
}
