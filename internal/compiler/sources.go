package compiler

import (
	"path"
	"regexp"
	"strings"

	"github.com/nicolagi/tactbot/internal/ovfs"
	"github.com/nicolagi/tactbot/internal/stdlib"
)

const sourceExt = ".tact"

var importStatement = regexp.MustCompile(`(?m)^\s*import\s+"([^"]+)"\s*;`)

// Source is a file taking part in a build.
type Source struct {
	Path    string
	Content []byte
}

// Aliased reports whether the source belongs to the library file set.
func (s Source) Aliased() bool {
	return strings.HasPrefix(s.Path, ovfs.Alias)
}

// Imports returns the import targets of a source file, in order.
func Imports(content []byte) []string {
	var targets []string
	for _, m := range importStatement.FindAllSubmatch(content, -1) {
		targets = append(targets, string(m[1]))
	}
	return targets
}

// Sources collects entry and every file it imports, directly or not. The
// entry comes first, imports follow depth first in the order they appear.
// Each file is listed once.
func Sources(project Project, lib Library, entry string) ([]Source, error) {
	w := walker{
		project: project,
		lib:     lib,
		seen:    make(map[string]bool),
	}
	name := project.Resolve(ovfs.None(), ovfs.Some(entry))
	if err := w.visit(name); err != nil {
		return nil, err
	}
	return w.sources, nil
}

type walker struct {
	project Project
	lib     Library
	seen    map[string]bool
	sources []Source
}

func (w *walker) owner(name string) Library {
	if strings.HasPrefix(name, ovfs.Alias) {
		return w.lib
	}
	return w.project
}

func (w *walker) visit(name string) error {
	if w.seen[name] {
		return nil
	}
	w.seen[name] = true

	owner := w.owner(name)
	content, err := owner.ReadFile(name)
	if err != nil {
		return err
	}
	w.sources = append(w.sources, Source{Path: name, Content: content})

	for _, target := range Imports(content) {
		target = stdlib.Library(target)
		if path.Ext(target) == "" {
			target += sourceExt
		}
		next := owner.Resolve(ovfs.Some(name), ovfs.Some(target))
		if !w.owner(next).Exists(next) {
			return &ImportError{
				Importer: name,
				Target:   target,
				Err:      &ovfs.NotFoundError{Path: next},
			}
		}
		if err := w.visit(next); err != nil {
			return err
		}
	}
	return nil
}
