package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/wordhtml/batch"
	"github.com/tsawler/wordhtml/internal/config"
	"github.com/tsawler/wordhtml/internal/testdoc"
)

func writeDOCX(t *testing.T, path, text string) {
	t.Helper()
	data, err := testdoc.DOCX(testdoc.Paragraph(text))
	if err != nil {
		t.Fatalf("build docx: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// emptyConfig returns an empty config file so tests never pick up a
// config from the working or home directory.
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if len(args) == 0 || !isCommand(args[0]) {
		args = append([]string{"--config", emptyConfig(t)}, args...)
	}
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want %d", code, ExitSuccess)
	}
	if out != "wordhtml dev\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI(t, "-h")
	if code != ExitSuccess {
		t.Fatalf("exit = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr, "--mode") {
		t.Errorf("usage should list --mode, got %q", stderr)
	}
}

func TestRun_ConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "memo.docx")
	writeDOCX(t, in, "Quarterly memo")

	code, out, stderr := runCLI(t, in)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	if !strings.Contains(out, "1 converted, 0 failed") {
		t.Errorf("stdout = %q", out)
	}

	html, err := os.ReadFile(filepath.Join(dir, "memo.html"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(html), "Quarterly memo") {
		t.Error("output is missing the document text")
	}
}

func TestRun_OutputAndTitle(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "memo.docx")
	writeDOCX(t, in, "body")
	out := filepath.Join(dir, "site", "index.html")

	code, _, stderr := runCLI(t, "-q", "-o", out, "--title", "Home", in)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(html), "<title>Home</title>") {
		t.Error("output is missing the title")
	}
}

func TestRun_Mirrored(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src")
	writeDOCX(t, filepath.Join(src, "a.docx"), "a")
	writeDOCX(t, filepath.Join(src, "sub", "b.docx"), "b")
	dest := filepath.Join(t.TempDir(), "html")

	code, _, stderr := runCLI(t, "-q", "-d", dest, "-p", "mirrored", src)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr)
	}
	for _, want := range []string{"a.html", filepath.Join("sub", "b.html")} {
		if _, err := os.Stat(filepath.Join(dest, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}
}

func TestRun_ConfigFile(t *testing.T) {
	src := t.TempDir()
	writeDOCX(t, filepath.Join(src, "a.docx"), "a")
	dest := filepath.Join(t.TempDir(), "flat")

	cfg := filepath.Join(t.TempDir(), config.FileName)
	content := "mode: basic\noutput:\n  placement: flattened\n  destination: '" + dest + "'\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfg, "-q", src}, &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dest, "a.html")); err != nil {
		t.Errorf("config destination not used: %v", err)
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.docx")
	writeDOCX(t, good, "fine")
	other := filepath.Join(dir, "other.docx")
	writeDOCX(t, other, "fine")

	corrupt := filepath.Join(dir, "broken.docx")
	if err := os.WriteFile(corrupt, []byte("PK\x03\x04 not really a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no inputs", nil, ExitUsage},
		{"bad mode", []string{"-m", "fancy", good}, ExitUsage},
		{"bad flag", []string{"--colour", good}, ExitUsage},
		{"quiet and verbose", []string{"-q", "-v", good}, ExitUsage},
		{"output with many inputs", []string{"-o", filepath.Join(dir, "x.html"), good, other}, ExitUsage},
		{"missing file", []string{filepath.Join(dir, "missing.docx")}, ExitIO},
		{"empty directory", []string{empty}, ExitIO},
		{"unsupported file", []string{text}, ExitUsage},
		{"corrupt package", []string{corrupt}, ExitConversion},
		{"partial batch", []string{good, corrupt}, ExitConversion},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), good}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "memo.docx")
	writeDOCX(t, in, "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--config", emptyConfig(t), in}, &stdout, &stderr)
	if code != ExitInterrupted {
		t.Errorf("exit = %d, want %d", code, ExitInterrupted)
	}
}

func TestApplyConvertFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want batch.Placement
	}{
		{"default", nil, batch.Beside},
		{"dest implies flattened", []string{"-d", "out"}, batch.Flattened},
		{"explicit placement wins", []string{"-d", "out", "-p", "mirrored"}, batch.Mirrored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			f, fs, _, err := parseConvertFlags(append(tt.args, "x.docx"), &stderr)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			s, err := config.Default().Settings()
			if err != nil {
				t.Fatal(err)
			}
			if err := applyConvertFlags(fs, f, &s); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if s.Placement != tt.want {
				t.Errorf("Placement = %v, want %v", s.Placement, tt.want)
			}
		})
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"convert", true},
		{"serve", true},
		{"version", true},
		{"help", true},
		{"report.docx", false},
		{"Serve", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isCommand(tt.input); got != tt.want {
			t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
