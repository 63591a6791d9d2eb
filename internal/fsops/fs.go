// Package fsops provides the local side of a sync: a workspace-rooted tree
// of project folders and text files.
//
// All local reads and writes performed by worksync go through the LocalTree
// interface. The default implementation sits on go-billy so the same code runs
// against the real disk (osfs) and an in-memory filesystem (memfs) in tests.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Name validation for folder and file names
//   - Hidden (dot-prefixed) entries excluded from listings
//   - Errors wrapped as *IOError
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// LocalTree is scoped access to one workspace root. Directory arguments are
// slash-separated paths relative to the root; "" is the root itself.
type LocalTree interface {
	// EnsureDir creates dir and all parents if they don't exist.
	EnsureDir(dir string) error

	// DirExists reports whether dir exists and is a directory.
	DirExists(dir string) (bool, error)

	// ReadText reads dir/name. A missing file returns ok=false and no error.
	ReadText(dir, name string) (content string, ok bool, err error)

	// WriteText writes dir/name atomically, creating dir if needed.
	WriteText(dir, name, content string) error

	// ListFiles returns the names of the non-hidden regular files in dir,
	// sorted. A missing dir yields an empty list.
	ListFiles(dir string) ([]string, error)

	// ListDirs returns the names of the non-hidden subdirectories of dir, sorted.
	ListDirs(dir string) ([]string, error)

	// ModTime returns the modification time of dir/name.
	ModTime(dir, name string) (time.Time, error)

	// ValidateName validates a single file or folder name for safety.
	ValidateName(name string) error
}

// Tree implements LocalTree on a go-billy filesystem.
type Tree struct {
	fs billy.Filesystem
}

// NewTree creates a Tree over an existing billy filesystem.
func NewTree(fs billy.Filesystem) *Tree {
	return &Tree{fs: fs}
}

// NewOSTree creates a Tree rooted at a directory on disk.
func NewOSTree(root string) *Tree {
	return &Tree{fs: osfs.New(root)}
}

// NewMemTree creates a Tree backed by memory.
func NewMemTree() *Tree {
	return &Tree{fs: memfs.New()}
}

// Root returns the root of the underlying filesystem.
func (t *Tree) Root() string {
	return t.fs.Root()
}

// EnsureDir creates dir and all parent directories.
func (t *Tree) EnsureDir(dir string) error {
	if err := t.fs.MkdirAll(t.clean(dir), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// DirExists reports whether dir exists and is a directory.
func (t *Tree) DirExists(dir string) (bool, error) {
	info, err := t.fs.Stat(t.clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &IOError{Op: "stat", Path: dir, Err: err}
	}
	return info.IsDir(), nil
}

// ReadText reads dir/name as text.
func (t *Tree) ReadText(dir, name string) (string, bool, error) {
	p := t.join(dir, name)
	data, err := util.ReadFile(t.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &IOError{Op: "read", Path: p, Err: err}
	}
	return string(data), true, nil
}

// WriteText writes dir/name atomically using temp file + rename.
func (t *Tree) WriteText(dir, name, content string) error {
	if err := t.ValidateName(name); err != nil {
		return &IOError{Op: "write", Path: t.join(dir, name), Err: err}
	}
	if err := t.EnsureDir(dir); err != nil {
		return err
	}
	return t.atomicWrite(t.clean(dir), t.join(dir, name), []byte(content))
}

// atomicWrite writes data to a temp file in dir and renames it over target.
func (t *Tree) atomicWrite(dir, target string, data []byte) error {
	tmpFile, err := t.fs.TempFile(dir, ".worksync-tmp-")
	if err != nil {
		return &IOError{Op: "write", Path: target, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = t.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return &IOError{Op: "write", Path: target, Err: fmt.Errorf("failed to write to temp file: %w", err)}
	}

	if err := tmpFile.Close(); err != nil {
		return &IOError{Op: "write", Path: target, Err: fmt.Errorf("failed to close temp file: %w", err)}
	}

	if err := t.fs.Rename(tmpPath, target); err != nil {
		_ = t.fs.Remove(tmpPath)
		tmpFile = nil
		return &IOError{Op: "write", Path: target, Err: fmt.Errorf("failed to rename temp file: %w", err)}
	}

	tmpFile = nil
	return nil
}

// ListFiles returns the non-hidden regular files in dir.
func (t *Tree) ListFiles(dir string) ([]string, error) {
	return t.list(dir, false)
}

// ListDirs returns the non-hidden subdirectories of dir.
func (t *Tree) ListDirs(dir string) ([]string, error) {
	return t.list(dir, true)
}

func (t *Tree) list(dir string, dirs bool) ([]string, error) {
	entries, err := t.fs.ReadDir(t.clean(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &IOError{Op: "readdir", Path: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if dirs != entry.IsDir() {
			continue
		}
		if !dirs && !entry.Mode().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ModTime returns the modification time of dir/name.
func (t *Tree) ModTime(dir, name string) (time.Time, error) {
	p := t.join(dir, name)
	info, err := t.fs.Stat(p)
	if err != nil {
		return time.Time{}, &IOError{Op: "stat", Path: p, Err: err}
	}
	return info.ModTime(), nil
}

// ValidateName validates a file or folder name for safety.
// Returns an error if the name is empty, contains path separators or
// control characters, or is a traversal segment.
func (t *Tree) ValidateName(name string) error {
	return ValidateName(name)
}

// ValidateName validates a file or folder name for safety.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("invalid name: empty")
	}

	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("invalid name %q: must not contain path separators", name)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("invalid name %q: path traversal not allowed", name)
	}

	// listings skip hidden entries, so a hidden file could never be read back
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid name %q: hidden names not allowed", name)
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("invalid name %q: control characters not allowed", name)
		}
	}

	return nil
}

func (t *Tree) clean(dir string) string {
	if dir == "" {
		return "."
	}
	return path.Clean(dir)
}

func (t *Tree) join(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}
