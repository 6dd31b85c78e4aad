// Package validation checks user-supplied names before they are turned into
// corpus paths: manifest book names, the annotation directory and the size of
// files read into memory.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits on inputs read from the corpus.
const (
	// MaxFileSize is the largest annotation file read into memory (256 MB).
	MaxFileSize = 256 << 20
	// MaxNameLength is the maximum length of a book name or directory name.
	MaxNameLength = 255
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidName      = errors.New("invalid name")
	ErrNameTooLong      = errors.New("name too long")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrEmptyName        = errors.New("name cannot be empty")
)

// ValidateBookName checks that a manifest entry can be used as the stem of
// an annotation file name. Book names such as "AisazuNihaIrarenai" or
// "YouchienBoueigumi" pass; anything with a path separator, a control
// character or a reserved name does not.
func ValidateBookName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved name %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: path separator in %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character in %q", ErrInvalidCharacter, name)
		}
	}
	return nil
}

// ValidateSubdir checks that dir names a directory inside the corpus root:
// relative, and not escaping the root once cleaned.
func ValidateSubdir(dir string) error {
	if dir == "" {
		return ErrEmptyName
	}
	if strings.ContainsRune(dir, 0) {
		return fmt.Errorf("%w: null byte", ErrInvalidCharacter)
	}
	if filepath.IsAbs(dir) {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, dir)
	}
	clean := filepath.Clean(dir)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %q leaves the corpus root", ErrPathTraversal, dir)
	}
	for _, part := range strings.Split(clean, string(filepath.Separator)) {
		if len(part) > MaxNameLength {
			return ErrNameTooLong
		}
	}
	return nil
}

// CheckFileSize rejects files too large to read into memory.
func CheckFileSize(size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, MaxFileSize)
	}
	return nil
}
