package docx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/wordhtml/internal/testdoc"
	"github.com/tsawler/wordhtml/model"
)

// part is one file of a test package.
type part = testdoc.Part

const contentTypes = testdoc.ContentTypes

func wrapDocument(body string) string { return testdoc.WrapDocument(body) }
func wrapStyles(styles string) string { return testdoc.WrapStyles(styles) }
func wrapRels(rels string) string     { return testdoc.WrapRels(rels) }

// buildPackage writes the parts into an in-memory ZIP archive.
func buildPackage(t *testing.T, parts ...part) []byte {
	t.Helper()

	data, err := testdoc.Package(parts...)
	if err != nil {
		t.Fatalf("failed to build package: %v", err)
	}
	return data
}

// createTestDOCX creates a minimal DOCX with the given body content and
// returns its bytes.
func createTestDOCX(t *testing.T, body string, extra ...part) []byte {
	t.Helper()

	data, err := testdoc.DOCX(body, extra...)
	if err != nil {
		t.Fatalf("failed to build package: %v", err)
	}
	return data
}

// writeTestFile writes data to a file in a temp dir and returns its path.
func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// openDocument opens package bytes and returns the built document.
func openDocument(t *testing.T, data []byte) (*Reader, *model.Document) {
	t.Helper()

	r, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes() error = %v", err)
	}
	doc, err := r.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	return r, doc
}
