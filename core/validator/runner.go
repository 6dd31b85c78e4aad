// Package validator runs a validation session over an annotation corpus:
// schema checks on every annotation file, then content checks on the
// decoded corpus, aggregated into a Report.
package validator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/manga109tools/core/annotation"
	"github.com/FocuswithJustin/manga109tools/core/content"
	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
	"github.com/FocuswithJustin/manga109tools/core/exceptions"
	"github.com/FocuswithJustin/manga109tools/core/schema"
	"github.com/FocuswithJustin/manga109tools/internal/digest"
	"github.com/FocuswithJustin/manga109tools/internal/logging"
	"github.com/FocuswithJustin/manga109tools/internal/validation"
)

// DefaultAnnotations is the default annotation directory under the root.
const DefaultAnnotations = "annotations"

// Options configures a validation session.
type Options struct {
	// Root is the corpus root holding books.txt and the annotation directory.
	Root string

	// Annotations is the annotation directory name under Root.
	Annotations string

	// ExceptionPath is the exception registry file.
	ExceptionPath string

	// Enable names disabled-by-default checks to run.
	Enable []string
}

// Validator holds the configuration of one session. The exception registry
// is loaded and checked when the Validator is built, before any check runs.
type Validator struct {
	opts     Options
	checks   []content.Check
	registry *exceptions.Registry
	now      func() time.Time
}

// New loads the exception registry and verifies that it has an entry for
// every rule consulted by the selected checks. Any failure is a ConfigError.
func New(opts Options) (*Validator, error) {
	if opts.Annotations == "" {
		opts.Annotations = DefaultAnnotations
	}

	checks, err := content.Select(opts.Enable...)
	if err != nil {
		return nil, cerrors.NewConfig("", "enable", "unknown check", err)
	}

	reg, err := exceptions.Load(opts.ExceptionPath)
	if err != nil {
		return nil, err
	}
	return NewWithRegistry(opts, checks, reg)
}

// NewWithRegistry builds a Validator from an already loaded registry.
func NewWithRegistry(opts Options, checks []content.Check, reg *exceptions.Registry) (*Validator, error) {
	if opts.Annotations == "" {
		opts.Annotations = DefaultAnnotations
	}
	if err := validation.ValidateSubdir(opts.Annotations); err != nil {
		return nil, cerrors.NewConfig("", "annotations", "invalid annotation directory", err)
	}
	if err := reg.Require(content.Rules(checks)...); err != nil {
		return nil, err
	}
	return &Validator{
		opts:     opts,
		checks:   checks,
		registry: reg,
		now:      time.Now,
	}, nil
}

// Checks returns the content checks the session runs.
func (v *Validator) Checks() []content.Check {
	return v.checks
}

// annotationFile is one enumerated annotation file with its schema outcome.
type annotationFile struct {
	name   string // manifest name, the file stem
	result *schema.Result
}

// Run executes the session. A returned error means the session could not
// run; violations are reported in the Report.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	start := v.now()

	report := &Report{
		ReportVersion: Version,
		RunID:         runID,
		CreatedAt:     start.UTC().Format(time.RFC3339),
		Root:          v.opts.Root,
		Annotations:   v.opts.Annotations,
		Exceptions:    v.registry.Path(),
		Schema:        []FileResult{},
		Content:       []CheckResult{},
		Inputs:        []Input{},
	}

	logging.InfoContext(ctx, "validation started",
		"root", v.opts.Root,
		"annotations", v.opts.Annotations,
		"checks", len(v.checks))

	files, err := v.checkFiles(ctx, report)
	if err != nil {
		return nil, err
	}

	corpus := v.loadCorpus(ctx, report, files)

	env := &content.Env{Corpus: corpus, Exceptions: v.registry}
	for _, c := range v.checks {
		logging.DebugContext(ctx, "running check", "check", c.Name)
		out, err := c.Run(env)
		if err != nil {
			logging.ErrorContext(ctx, "check aborted", "check", c.Name, "error", err)
			return nil, fmt.Errorf("check %s: %w", c.Name, err)
		}
		cr := CheckResult{
			Check:       c.Name,
			Description: c.Description,
			Pass:        out.Pass(),
			Examined:    out.Examined,
			Suppressed:  out.Suppressed,
		}
		for _, viol := range out.Violations {
			cr.Violations = append(cr.Violations, newContentIssue(viol))
		}
		report.Content = append(report.Content, cr)
		attrs := []any{"examined", cr.Examined}
		if cr.Examined > 0 {
			attrs = append(attrs, "rate", float64(len(cr.Violations))/float64(cr.Examined))
		}
		logging.CheckResult(ctx, c.Name, cr.Pass, len(cr.Violations), cr.Suppressed, attrs...)
	}

	report.Status = StatusPass
	if report.SchemaViolations() > 0 || report.ContentViolations() > 0 {
		report.Status = StatusFail
	}

	logging.InfoContext(ctx, "validation finished",
		"status", report.Status,
		"schema_violations", report.SchemaViolations(),
		"content_violations", report.ContentViolations(),
		"skipped", len(report.Skipped),
		"duration_ms", v.now().Sub(start).Milliseconds())

	return report, nil
}

// checkFiles runs the format and schema checks on every annotation file and
// the manifest coverage check.
func (v *Validator) checkFiles(ctx context.Context, report *Report) (map[string]*annotationFile, error) {
	dir := filepath.Join(v.opts.Root, v.opts.Annotations)
	names, err := ListAnnotations(dir)
	if err != nil {
		return nil, err
	}
	logging.InfoContext(ctx, "checking annotation files", "dir", dir, "files", len(names))

	files := make(map[string]*annotationFile, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil {
			if err := validation.CheckFileSize(info.Size()); err != nil {
				report.Schema = append(report.Schema, newFileResult(name, []*cerrors.SchemaViolation{
					cerrors.NewSchema(name, "", err.Error()),
				}))
				continue
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			report.Schema = append(report.Schema, newFileResult(name, []*cerrors.SchemaViolation{
				cerrors.NewSchema(name, "", cerrors.NewIO("read", path, err).Error()),
			}))
			continue
		}

		res := schema.CheckFile(name, data)
		report.Schema = append(report.Schema, newFileResult(name, res.Violations))
		report.Inputs = append(report.Inputs, Input{File: name, BLAKE3: digest.Blake3Hash(data)})
		logging.FileResult(ctx, name, len(res.Violations))

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		files[stem] = &annotationFile{name: stem, result: res}
	}
	return files, nil
}

// loadCorpus reads the manifest and decodes every listed book whose
// annotation file passed the schema checks. Other books are recorded as
// skipped.
func (v *Validator) loadCorpus(ctx context.Context, report *Report, files map[string]*annotationFile) *annotation.Corpus {
	corpus := &annotation.Corpus{}

	books, err := annotation.ReadManifest(v.opts.Root)
	if err != nil {
		report.Schema = append(report.Schema, newFileResult(annotation.ManifestFile, []*cerrors.SchemaViolation{
			cerrors.NewSchema(annotation.ManifestFile, "", err.Error()),
		}))
		logging.WarnContext(ctx, "manifest unreadable, content checks see an empty corpus", "error", err)
		return corpus
	}
	report.Schema = append(report.Schema,
		newFileResult(annotation.ManifestFile, schema.CheckManifest(v.opts.Root, v.opts.Annotations, books)))

	listed := make(map[string]bool, len(books))
	for _, name := range books {
		listed[name] = true
		f, ok := files[name]
		if !ok || !f.result.Pass() || f.result.Document == nil {
			report.Skipped = append(report.Skipped, name)
			continue
		}
		book, err := annotation.Decode(f.result.Document, name, f.result.File)
		if err != nil {
			logging.WarnContext(ctx, "cannot decode book", "book", name, "error", err)
			report.Skipped = append(report.Skipped, name)
			continue
		}
		for _, in := range report.Inputs {
			if in.File == f.result.File {
				book.Digest = in.BLAKE3
				break
			}
		}
		corpus.Books = append(corpus.Books, book)
	}

	var unlisted []string
	for stem := range files {
		if !listed[stem] {
			unlisted = append(unlisted, stem)
		}
	}
	if len(unlisted) > 0 {
		sort.Strings(unlisted)
		logging.WarnContext(ctx, "annotation files not listed in manifest", "books", unlisted)
	}

	logging.InfoContext(ctx, "corpus loaded", "books", len(corpus.Books), "skipped", len(report.Skipped))
	return corpus
}

// ListAnnotations returns the sorted names of the *.xml files in dir.
func ListAnnotations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerrors.NewConfig(dir, "", "cannot list annotation directory", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
