package batch

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Placement decides where a job's HTML file goes when the job does not
// name one.
type Placement int

const (
	// Beside writes next to the source file.
	Beside Placement = iota
	// Mirrored recreates the source tree, relative to SourceRoot, under
	// the destination.
	Mirrored
	// Flattened writes every file directly into the destination.
	Flattened
)

func (p Placement) String() string {
	switch p {
	case Mirrored:
		return "mirrored"
	case Flattened:
		return "flattened"
	default:
		return "beside"
	}
}

// ParsePlacement parses "beside", "mirrored" or "flattened" (also
// accepted as "single_folder"). An empty string selects Beside.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "beside", "beside-original":
		return Beside, nil
	case "mirrored", "mirror":
		return Mirrored, nil
	case "flattened", "flat", "single_folder", "single-folder":
		return Flattened, nil
	}
	return Beside, fmt.Errorf("invalid placement: %q", s)
}

// OutputPath returns the HTML path for input under a placement policy.
// Without a destination every policy behaves like Beside. Inputs outside
// sourceRoot are placed flat.
func OutputPath(input string, p Placement, sourceRoot, destination string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".html"

	if destination == "" || p == Beside {
		return filepath.Join(filepath.Dir(input), name)
	}

	if p == Mirrored && sourceRoot != "" {
		rel, err := filepath.Rel(sourceRoot, filepath.Dir(input))
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(destination, rel, name)
		}
	}

	return filepath.Join(destination, name)
}

// uniquePath returns path, or path with a numeric suffix added to its
// stem when path is already taken.
func uniquePath(path string, taken map[string]bool) string {
	if !taken[path] {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n) + ext
		if !taken[candidate] {
			return candidate
		}
	}
}

// CommonDir returns the deepest directory containing every file, or ""
// when they share none.
func CommonDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for !within(filepath.Dir(f), dir) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return ""
			}
			dir = parent
		}
	}
	return dir
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
