// Package stdlib provides the read-only standard library file set that builds
// reach through "@stdlib/" paths.
//
// The set is loaded once from a host directory into memory and may be shared
// by any number of concurrent builds.
package stdlib

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/nicolagi/tactbot/internal/ovfs"
	"github.com/rainycape/vfs"
)

// Root is the alias prefix of every path in the set.
const Root = ovfs.Alias + "stdlib/"

const (
	librariesDir = "libs"
	sourceExt    = ".tact"
)

// FileSet is a read-only view over a VFS whose root directory is addressed
// as Root.
type FileSet struct {
	fsys  vfs.VFS
	files int
}

// Load copies the tree rooted at dir into memory.
func Load(dir string) (*FileSet, error) {
	host, err := vfs.FS(dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	if _, err := host.Stat("/"); err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	mem := vfs.Memory()
	if err := vfs.Clone(mem, host); err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	return New(mem)
}

// New wraps fsys, which is not modified afterwards.
func New(fsys vfs.VFS) (*FileSet, error) {
	set := &FileSet{fsys: vfs.ReadOnly(fsys)}
	err := vfs.Walk(set.fsys, "/", func(_ vfs.VFS, _ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			set.files++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	return set, nil
}

// Len returns the number of files in the set.
func (s *FileSet) Len() int {
	return s.files
}

// Exists reports whether name is a file of the set.
func (s *FileSet) Exists(name string) bool {
	rel, ok := s.rel(name)
	if !ok {
		return false
	}
	info, err := s.fsys.Stat(rel)
	return err == nil && !info.IsDir()
}

// ReadFile returns the content of name. Paths outside of Root and missing
// files yield an error wrapping ovfs.ErrNotFound.
func (s *FileSet) ReadFile(name string) ([]byte, error) {
	if !s.Exists(name) {
		return nil, &ovfs.NotFoundError{Path: name}
	}
	rel, _ := s.rel(name)
	content, err := vfs.ReadFile(s.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return content, nil
}

// Resolve follows the same rules as ovfs.FS.Resolve, anchored at Root.
func (s *FileSet) Resolve(from, to ovfs.Path) string {
	return ovfs.ResolveWithin(Root, from, to)
}

// Library maps an import of the form "@stdlib/<name>" to the file holding
// that library. Anything else is returned unchanged.
func Library(target string) string {
	name, ok := strings.CutPrefix(target, Root)
	if !ok || name == "" || strings.Contains(name, "/") {
		return target
	}
	if path.Ext(name) == "" {
		name += sourceExt
	}
	return Root + path.Join(librariesDir, name)
}

func (s *FileSet) rel(name string) (string, bool) {
	rel, ok := strings.CutPrefix(name, Root)
	if !ok {
		return "", false
	}
	return "/" + rel, true
}
