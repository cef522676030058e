package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nicolagi/tactbot/internal/ovfs"
)

const (
	// ContractFile is where submitted sources are stored in the project.
	ContractFile = "contract.tact"

	// Success is the reply for a build without errors.
	Success = "No errors found. Contract compiled successfully."

	projectRoot = "/"
)

// DefaultConfig is the build configuration used for submitted contracts.
var DefaultConfig = Config{
	Path:   "/" + ContractFile,
	Name:   "Counter",
	Output: "/output",
	Debug:  true,
}

// NewProject returns a fresh project holding source as its contract file.
// Every build needs its own project.
func NewProject(source string) *ovfs.FS {
	project := ovfs.New(projectRoot)
	ovfs.WriteContractFile(project, ContractFile, source)
	return project
}

// Compile builds source with c and returns the success message.
//
// A rejected build yields a *BuildError holding the first compiler message.
// Unsatisfiable imports yield an *ImportError before c is invoked.
func Compile(ctx context.Context, c Compiler, lib Library, source string) (string, error) {
	project := NewProject(source)

	sources, err := Sources(project, lib, DefaultConfig.Path)
	if err != nil {
		return "", err
	}
	slog.Debug("Resolved build sources",
		slog.Int("count", len(sources)))

	result, err := c.Build(ctx, Request{
		Project: project,
		Stdlib:  lib,
		Config:  DefaultConfig,
	})
	if err != nil {
		return "", fmt.Errorf("build: %w", err)
	}

	if result == nil || !result.OK || len(result.Errors) > 0 {
		msg := UnknownError
		if result != nil && len(result.Errors) > 0 && result.Errors[0].Message != "" {
			msg = result.Errors[0].Message
		}
		return "", &BuildError{Message: msg}
	}

	if result.Version != "" {
		return fmt.Sprintf("%s\nCompiler version: %s", Success, result.Version), nil
	}
	return Success, nil
}
