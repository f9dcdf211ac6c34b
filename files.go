package resxsweep

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ListFiles returns every file under root whose path ends with one of
// extensions (case-sensitive). Directories are walked depth-first with an
// explicit work-list, files of a directory before its subdirectories, each
// in lexical order, so the result is deterministic for an unchanging tree.
//
// Paths matching a skip pattern (doublestar syntax, relative to root, "/"
// separated) are neither listed nor descended into.
//
// Any error reading a directory aborts the walk with a *FileError; no
// partial list is returned.
func ListFiles(root string, extensions, skip []string) ([]string, error) {
	var files []string
	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &FileError{Op: "populate file list", Path: dir, Err: err}
		}

		var subdirs []string
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if len(skip) > 0 && skipped(root, path, skip) {
				continue
			}
			if e.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if hasAnySuffix(path, extensions) {
				files = append(files, path)
			}
		}
		// Push in reverse so the first subdirectory is walked next.
		for i := len(subdirs) - 1; i >= 0; i-- {
			pending = append(pending, subdirs[i])
		}
	}
	return files, nil
}

func hasAnySuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

func skipped(root, path string, patterns []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
