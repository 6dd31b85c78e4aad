package schema

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/FocuswithJustin/manga109tools/core/annotation"
	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
	"github.com/FocuswithJustin/manga109tools/internal/validation"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// declEncoding matches the encoding pseudo-attribute of an XML declaration.
var declEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*\bencoding\s*=\s*["']([^"']+)["']`)

// canonicalUTF8 is the WHATWG name of UTF-8, which every UTF-8 label
// resolves to.
const canonicalUTF8 = "utf-8"

// encodingName resolves an encoding label to its WHATWG name, or "" when the
// label is unknown.
func encodingName(label string) string {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return ""
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

// CheckEncoding verifies the raw bytes of an annotation file: UTF-8 without a
// byte order mark, and LF line endings only.
func CheckEncoding(file string, data []byte) []*cerrors.SchemaViolation {
	var out []*cerrors.SchemaViolation

	if bytes.HasPrefix(data, utf8BOM) {
		out = append(out, cerrors.NewSchema(file, "", "starts with a UTF-8 byte order mark"))
	}

	if m := declEncoding.FindSubmatch(data); m != nil {
		label := string(m[1])
		if name := encodingName(label); name != canonicalUTF8 {
			if name == "" {
				name = label
			}
			out = append(out, cerrors.NewSchema(file, "", fmt.Sprintf("declares encoding %q, want UTF-8", name)))
		}
	}

	if !utf8.Valid(data) {
		// DetermineEncoding only samples the head of the file.
		if _, name, _ := charset.DetermineEncoding(data, "text/xml"); name != canonicalUTF8 {
			out = append(out, cerrors.NewSchema(file, "", fmt.Sprintf("detected encoding %s, want UTF-8", name)))
		} else {
			out = append(out, cerrors.NewSchema(file, "", "contains invalid UTF-8 sequences"))
		}
	}

	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		line := bytes.Count(data[:i], []byte{'\n'}) + 1
		out = append(out, cerrors.NewSchema(file, "", fmt.Sprintf("line %d: contains a carriage return, want LF line endings", line)))
	}

	return out
}

// CheckManifest verifies that every book listed in the manifest has an
// annotation file <root>/<annotDir>/<book>.xml.
func CheckManifest(root, annotDir string, books []string) []*cerrors.SchemaViolation {
	var out []*cerrors.SchemaViolation
	for _, book := range books {
		if err := validation.ValidateBookName(book); err != nil {
			out = append(out, cerrors.NewSchema(annotation.ManifestFile, "", fmt.Sprintf("book %q: %v", book, err)))
			continue
		}
		path := annotation.AnnotationPath(root, annotDir, book)
		info, err := os.Stat(path)
		switch {
		case err != nil:
			out = append(out, cerrors.NewSchema(annotation.ManifestFile, "", fmt.Sprintf("book %q has no annotation file %s", book, path)))
		case info.IsDir():
			out = append(out, cerrors.NewSchema(annotation.ManifestFile, "", fmt.Sprintf("book %q: %s is a directory", book, path)))
		}
	}
	return out
}
