package merge

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the file extension that marks a source database
const DefaultExtension = ".db"

// Source is a candidate database file found in the source directory
type Source struct {
	Path   string
	Name   string
	Prefix string
}

// Prefix derives the table name prefix from a file name: the stem with
// hyphens and spaces replaced by underscores
func Prefix(fileName string) string {
	stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.NewReplacer("-", "_", " ", "_").Replace(stem)
}

// Discover lists the regular files in dir whose name ends with ext, skipping
// the file that resolves to the same path as exclude. It does not recurse.
func Discover(dir, ext, exclude string) ([]Source, error) {
	entries, err := os.ReadDir(dirOrCurrent(dir))
	if err != nil {
		return nil, err
	}

	excluded := resolve(exclude)

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if exclude != "" && resolve(path) == excluded {
			continue
		}

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		sources = append(sources, Source{
			Path:   path,
			Name:   entry.Name(),
			Prefix: Prefix(entry.Name()),
		})
	}

	return sources, nil
}

func dirOrCurrent(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// resolve returns the absolute path with symlinks evaluated, falling back
// to the plain absolute path when the file cannot be resolved
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
