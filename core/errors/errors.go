// Package errors provides the error taxonomy shared by the validator packages.
//
// Three kinds of failure are distinguished:
//
//   - ConfigError: the session cannot run (missing or malformed exception
//     registry, missing registry key). Fatal.
//   - SchemaViolation: an annotation file does not conform to the markup
//     layout. Recorded per file.
//   - ContentViolation: a semantic invariant over the parsed corpus failed.
//     Recorded with the offending identifiers.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or a parse failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfig indicates the validation session is misconfigured
	ErrConfig = errors.New("configuration error")
	// ErrSchema indicates an annotation file violates the markup schema
	ErrSchema = errors.New("schema violation")
	// ErrContent indicates a content invariant failed
	ErrContent = errors.New("content violation")
)

// ConfigError represents a fatal configuration problem.
type ConfigError struct {
	Path    string // Configuration file, if applicable
	Key     string // Offending key, if applicable
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " (key %q)", e.Key)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Is reports ErrConfig as a match so callers can classify without unwrapping.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SchemaViolation is a structural problem found in a single annotation file.
type SchemaViolation struct {
	File    string // Annotation file name
	Path    string // Location inside the markup, e.g. "book/pages/page[3]/face[0]"
	Message string
}

func (e *SchemaViolation) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *SchemaViolation) Unwrap() error {
	return ErrSchema
}

// ContentViolation is a failed content invariant with its offending ids.
type ContentViolation struct {
	Check   string   // Name of the check that produced the violation
	Book    string   // Book title
	Page    int      // Page index, or -1 when the violation is not page scoped
	IDs     []string // Offending id or id pair
	Message string
}

func (e *ContentViolation) Error() string {
	var b strings.Builder
	b.WriteString(e.Check)
	b.WriteString(": ")
	if e.Book != "" {
		b.WriteString(e.Book)
		if e.Page >= 0 {
			fmt.Fprintf(&b, " p.%d", e.Page)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.IDs) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.IDs, ", "))
	}
	return b.String()
}

func (e *ContentViolation) Unwrap() error {
	return ErrContent
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or decoding error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "manifest")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "annotation", "manifest")
	ID       string // Identifier of the resource
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Helper functions for creating common errors

// NewConfig creates a ConfigError
func NewConfig(path, key, message string, err error) *ConfigError {
	return &ConfigError{Path: path, Key: key, Message: message, Err: err}
}

// NewSchema creates a SchemaViolation
func NewSchema(file, path, message string) *SchemaViolation {
	return &SchemaViolation{File: file, Path: path, Message: message}
}

// NewContent creates a ContentViolation
func NewContent(check, book string, page int, message string, ids ...string) *ContentViolation {
	return &ContentViolation{Check: check, Book: book, Page: page, IDs: ids, Message: message}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// NewParse creates a ParseError
func NewParse(format, path, message string, err error) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message, Err: err}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
