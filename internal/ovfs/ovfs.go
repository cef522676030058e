// Package ovfs implements an overwritable, in-memory project file system for
// the build pipeline.
//
// Contents live in a single map keyed by normalized path. Paths starting with
// the alias sentinel '@' are left untouched; they address files owned by
// another file set, typically the standard library. Every other path has at
// most one leading slash removed and is anchored at the root given to New.
//
// An FS is not safe for concurrent use. Create one per build with New and
// drop it once the build returns.
package ovfs

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

const (
	// Alias marks paths that belong to an externally supplied file set.
	Alias = "@"

	separator = "/"
)

// ErrNotFound is wrapped by every error returned from ReadFile.
var ErrNotFound = errors.New("file not found")

// NotFoundError reports a read of a path that was never written.
type NotFoundError struct {
	Path string // as passed by the caller, not normalized
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

func (*NotFoundError) Is(other error) bool {
	return other == ErrNotFound
}

// Path is an optional path argument to Resolve. The zero value is absent.
type Path struct {
	name  string
	valid bool
}

// Some returns a present Path. An empty name is still treated as absent by
// Resolve.
func Some(name string) Path {
	return Path{name: name, valid: true}
}

// None returns an absent Path.
func None() Path {
	return Path{}
}

// Get returns the name and whether it is present and non-empty.
func (p Path) Get() (string, bool) {
	return p.name, p.valid && p.name != ""
}

func (p Path) String() string {
	if name, ok := p.Get(); ok {
		return name
	}
	return "<none>"
}

// FS is the overwritable virtual file system.
type FS struct {
	root  string
	files map[string][]byte
}

// New returns an empty FS anchored at root.
func New(root string) *FS {
	return &FS{
		root:  root,
		files: make(map[string][]byte),
	}
}

// Root returns the root the FS was created with.
func (fsys *FS) Root() string {
	return fsys.root
}

// Len returns the number of stored files.
func (fsys *FS) Len() int {
	return len(fsys.files)
}

// Exists reports whether a file was written at name.
func (fsys *FS) Exists(name string) bool {
	_, ok := fsys.files[fsys.normalize(name)]
	return ok
}

// ReadFile returns the last content written at name. The returned slice is
// the stored one and must not be modified.
func (fsys *FS) ReadFile(name string) ([]byte, error) {
	content, ok := fsys.files[fsys.normalize(name)]
	if !ok {
		return nil, &NotFoundError{Path: name}
	}
	return content, nil
}

// WriteFile stores content at name, replacing what was there.
//
// It does not retain the passed slice.
func (fsys *FS) WriteFile(name string, content []byte) {
	stored := make([]byte, len(content))
	copy(stored, content)
	fsys.files[fsys.normalize(name)] = stored
}

// Content is accepted by WriteContractFile.
type Content interface {
	~string | ~[]byte
}

// WriteContractFile stores text or binary content at name. Text is stored as
// its UTF-8 bytes.
func WriteContractFile[C Content](fsys *FS, name string, content C) {
	fsys.WriteFile(name, []byte(content))
}

// Resolve computes the path referenced by to from within from.
//
// An absent to resolves to from, or to the root when from is absent too.
// Absolute and aliased references are returned as they are. Everything else
// is joined to the root when from is absent, and to the directory of from
// otherwise.
func (fsys *FS) Resolve(from, to Path) string {
	return ResolveWithin(fsys.root, from, to)
}

// ResolveWithin applies the Resolve rules for an arbitrary root.
func ResolveWithin(root string, from, to Path) string {
	fromName, hasFrom := from.Get()
	toName, hasTo := to.Get()
	switch {
	case !hasTo && hasFrom:
		return fromName
	case !hasTo:
		return root
	case strings.HasPrefix(toName, separator), strings.HasPrefix(toName, Alias):
		return toName
	case !hasFrom:
		return path.Join(root, toName)
	default:
		return path.Join(path.Dir(fromName), toName)
	}
}

func (fsys *FS) normalize(name string) string {
	if strings.HasPrefix(name, Alias) {
		return name
	}
	return fsys.root + strings.TrimPrefix(name, separator)
}
