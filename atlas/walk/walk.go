// Package walk is the directory-walking collaborator (SPEC_FULL.md §6.2).
// It is explicitly out of scope for the core per spec.md §1 ("file discovery
// on disk" is an external collaborator), so the default implementation is a
// thin wrapper over the standard library rather than a third-party module.
package walk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one discovered image file.
type Entry struct {
	// AbsPath is the absolute (or as-given) filesystem path to open.
	AbsPath string
	// RelName is the path relative to the root it was discovered under; for
	// a bare file argument (not a directory), it is the file's base name.
	RelName string
}

// Walker discovers candidate image files from a list of source paths (files
// or directories).
type Walker interface {
	Walk(sourceList []string) ([]Entry, error)
}

// DefaultExtensions is the allowlist used by FileSystemWalker, matching
// spec.md §6.2.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// FileSystemWalker recursively walks directories with filepath.WalkDir,
// filtering by DefaultExtensions. Files given directly (not directories)
// are always included regardless of extension, mirroring the original
// program's behavior of trusting an explicit path.
type FileSystemWalker struct {
	Extensions []string
}

// NewFileSystemWalker returns a FileSystemWalker using DefaultExtensions.
func NewFileSystemWalker() *FileSystemWalker {
	return &FileSystemWalker{Extensions: DefaultExtensions}
}

func (w *FileSystemWalker) hasAllowedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *FileSystemWalker) Walk(sourceList []string) ([]Entry, error) {
	var entries []Entry
	for _, src := range sourceList {
		info, err := os.Stat(src)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			entries = append(entries, Entry{AbsPath: src, RelName: filepath.Base(src)})
			continue
		}

		var found []Entry
		root := src
		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !w.hasAllowedExt(d.Name()) {
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = d.Name()
			}
			found = append(found, Entry{AbsPath: path, RelName: filepath.ToSlash(rel)})
			return nil
		})
		if err != nil {
			return nil, err
		}
		// Platform directory iteration order is not guaranteed stable across
		// filesystems; sort by relative name so preprocessing order (and
		// therefore dedupe's "first accepted wins") is deterministic.
		sort.Slice(found, func(i, j int) bool { return found[i].RelName < found[j].RelName })
		entries = append(entries, found...)
	}
	return entries, nil
}
