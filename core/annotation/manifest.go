package annotation

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
)

// ManifestFile is the name of the manifest under the corpus root.
const ManifestFile = "books.txt"

// ReadManifest returns the book names listed in <root>/books.txt, one per
// line, in reading order. Trailing whitespace is dropped and blank lines are
// skipped.
func ReadManifest(root string) ([]string, error) {
	path := filepath.Join(root, ManifestFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerrors.Wrap(cerrors.NewNotFound("manifest", path), "reading manifest")
		}
		return nil, cerrors.NewIO("open", path, err)
	}
	defer f.Close()

	var books []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimRight(scanner.Text(), " \t\r\n")
		if name == "" {
			continue
		}
		books = append(books, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, cerrors.NewIO("read", path, err)
	}
	return books, nil
}

// AnnotationPath returns the annotation file path of a book.
func AnnotationPath(root, annotDir, name string) string {
	return filepath.Join(root, annotDir, name+".xml")
}
