// Package compiler drives a contract build over an in-memory project.
//
// The compiler itself is an external collaborator behind the Compiler
// interface. This package prepares the project file set, checks that every
// import can be satisfied, and turns build results into chat-ready text.
package compiler

import (
	"context"

	"github.com/nicolagi/tactbot/internal/ovfs"
)

// Project is the writable file set holding the submitted sources.
type Project interface {
	Exists(name string) bool
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, content []byte)
	Resolve(from, to ovfs.Path) string
}

// Library is the read-only file set addressed through alias paths.
type Library interface {
	Exists(name string) bool
	ReadFile(name string) ([]byte, error)
	Resolve(from, to ovfs.Path) string
}

var (
	_ Project = (*ovfs.FS)(nil)
)

// Config describes the single project to build.
type Config struct {
	// Path of the entry file within the project.
	Path string
	// Name of the contract project, used for artifact names.
	Name string
	// Output directory for artifacts.
	Output string
	// Debug enables debug output in the generated code.
	Debug bool
}

// Request is a single build invocation.
type Request struct {
	Project Project
	Stdlib  Library
	Config  Config
}

// Error is one diagnostic reported by the compiler.
type Error struct {
	Message string
}

// Result is the outcome of a build that ran to completion.
type Result struct {
	OK     bool
	Errors []Error
	// Version of the compiler, if it reported one.
	Version string
	// Names of the artifacts written to the output directory.
	Artifacts []string
}

// Compiler builds a project.
//
// Build returns an error only if the build could not run at all. Problems
// with the sources are reported through Result.
type Compiler interface {
	Build(ctx context.Context, req Request) (*Result, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context, req Request) (*Result, error)

// Build implements Compiler.
func (f CompilerFunc) Build(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
