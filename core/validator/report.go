package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
	"github.com/FocuswithJustin/manga109tools/internal/digest"
)

// Version is the report format version.
const Version = "1.0.0"

// Status values for reports.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Report is the output of a validation session.
type Report struct {
	ReportVersion string        `json:"report_version"`
	RunID         string        `json:"run_id"`
	CreatedAt     string        `json:"created_at"`
	Root          string        `json:"root"`
	Annotations   string        `json:"annotations"`
	Exceptions    string        `json:"exceptions,omitempty"`
	Status        string        `json:"status"`
	Schema        []FileResult  `json:"schema"`
	Content       []CheckResult `json:"content"`
	Skipped       []string      `json:"skipped,omitempty"`
	Inputs        []Input       `json:"inputs"`
}

// FileResult is the outcome of the schema checks on one file.
type FileResult struct {
	File       string        `json:"file"`
	Pass       bool          `json:"pass"`
	Violations []SchemaIssue `json:"violations,omitempty"`
}

// SchemaIssue is one schema violation.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// CheckResult is the outcome of one content check.
type CheckResult struct {
	Check       string         `json:"check"`
	Description string         `json:"description"`
	Pass        bool           `json:"pass"`
	Examined    int            `json:"examined"`
	Suppressed  int            `json:"suppressed"`
	Violations  []ContentIssue `json:"violations,omitempty"`
}

// ContentIssue is one content violation.
type ContentIssue struct {
	Book    string   `json:"book,omitempty"`
	Page    *int     `json:"page,omitempty"`
	IDs     []string `json:"ids,omitempty"`
	Message string   `json:"message"`
}

// Input records the digest of an annotation file the report was built from.
type Input struct {
	File   string `json:"file"`
	BLAKE3 string `json:"blake3"`
}

func newFileResult(file string, violations []*cerrors.SchemaViolation) FileResult {
	fr := FileResult{File: file, Pass: len(violations) == 0}
	for _, v := range violations {
		fr.Violations = append(fr.Violations, SchemaIssue{Path: v.Path, Message: v.Message})
	}
	return fr
}

func newContentIssue(v *cerrors.ContentViolation) ContentIssue {
	issue := ContentIssue{Book: v.Book, IDs: v.IDs, Message: v.Message}
	if v.Page >= 0 {
		page := v.Page
		issue.Page = &page
	}
	return issue
}

// Pass reports whether the session found no violations.
func (r *Report) Pass() bool {
	return r.Status == StatusPass
}

// SchemaViolations counts the schema violations across all files.
func (r *Report) SchemaViolations() int {
	n := 0
	for _, f := range r.Schema {
		n += len(f.Violations)
	}
	return n
}

// ContentViolations counts the unsuppressed content violations.
func (r *Report) ContentViolations() int {
	n := 0
	for _, c := range r.Content {
		n += len(c.Violations)
	}
	return n
}

// ToJSON serializes the report to JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Hash returns the BLAKE3 digest of the report's compact JSON encoding.
func (r *Report) Hash() string {
	data, _ := json.Marshal(r)
	return digest.Blake3Hash(data)
}

// WriteText renders the report for a terminal. Passing files are omitted
// from the schema section.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Validation report %s\n", r.RunID)
	fmt.Fprintf(&b, "  root:        %s\n", r.Root)
	fmt.Fprintf(&b, "  annotations: %s\n", r.Annotations)
	if r.Exceptions != "" {
		fmt.Fprintf(&b, "  exceptions:  %s\n", r.Exceptions)
	}
	fmt.Fprintf(&b, "  created:     %s\n", r.CreatedAt)

	fmt.Fprintf(&b, "\nSchema: %d file(s), %d violation(s)\n", len(r.Schema), r.SchemaViolations())
	for _, f := range r.Schema {
		if f.Pass {
			continue
		}
		fmt.Fprintf(&b, "  FAIL %s\n", f.File)
		for _, v := range f.Violations {
			if v.Path != "" {
				fmt.Fprintf(&b, "       %s: %s\n", v.Path, v.Message)
			} else {
				fmt.Fprintf(&b, "       %s\n", v.Message)
			}
		}
	}

	fmt.Fprintf(&b, "\nContent: %d check(s), %d violation(s)\n", len(r.Content), r.ContentViolations())
	for _, c := range r.Content {
		mark := "PASS"
		if !c.Pass {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  %s %-26s examined %d", mark, c.Check, c.Examined)
		if c.Suppressed > 0 {
			fmt.Fprintf(&b, ", suppressed %d", c.Suppressed)
		}
		b.WriteString("\n")
		for _, v := range c.Violations {
			b.WriteString("       ")
			if v.Book != "" {
				b.WriteString(v.Book)
				if v.Page != nil {
					fmt.Fprintf(&b, " p.%d", *v.Page)
				}
				b.WriteString(": ")
			}
			b.WriteString(v.Message)
			if len(v.IDs) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(v.IDs, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped by content checks: %s\n", strings.Join(r.Skipped, ", "))
	}

	fmt.Fprintf(&b, "\nStatus: %s\n", strings.ToUpper(r.Status))
	fmt.Fprintf(&b, "Digest: %s\n", r.Hash())

	_, err := io.WriteString(w, b.String())
	return err
}
