package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path"
	"strings"

	"github.com/nicolagi/tactbot/internal/document"
	"github.com/rainycape/vfs"
)

const (
	configFile    = "tact.config.json"
	packageExt    = ".pkg"
	workspaceName = "tactbot-"
)

// Exec runs an external compiler binary.
//
// The project sources are written to a temporary workspace together with a
// project configuration file, and the binary is run from that workspace with
// "--config <file>" appended to Args. Library files are not copied: the
// compiler ships its own.
type Exec struct {
	// Binary to run, looked up in PATH if it has no separators.
	Binary string
	// Args are passed before the configuration flag.
	Args []string
}

var _ Compiler = (*Exec)(nil)

type projectConfig struct {
	Projects []projectEntry `json:"projects"`
}

type projectEntry struct {
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Output  string         `json:"output"`
	Options projectOptions `json:"options"`
}

type projectOptions struct {
	Debug bool `json:"debug"`
}

// Build implements Compiler.
func (e *Exec) Build(ctx context.Context, req Request) (*Result, error) {
	sources, err := Sources(req.Project, req.Stdlib, req.Config.Path)
	if err != nil {
		return nil, err
	}

	ws, err := vfs.TmpFS(workspaceName)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	defer removeWorkspace(ws)

	for _, src := range sources {
		if src.Aliased() {
			continue
		}
		if err := writeWorkspaceFile(ws, src.Path, src.Content); err != nil {
			return nil, err
		}
	}

	cfg, err := json.Marshal(projectConfig{
		Projects: []projectEntry{{
			Name:    req.Config.Name,
			Path:    "." + req.Config.Path,
			Output:  "." + req.Config.Output,
			Options: projectOptions{Debug: req.Config.Debug},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := writeWorkspaceFile(ws, configFile, cfg); err != nil {
		return nil, err
	}

	args := append(append([]string{}, e.Args...), "--config", configFile)
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	cmd.Dir = ws.Root()

	slog.Debug("Running compiler",
		slog.String("command", cmd.String()),
		slog.String("workspace", ws.Root()))

	out, err := cmd.CombinedOutput()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		slog.Debug("Compiler failed",
			slog.Int("exit_code", exitErr.ExitCode()))
		return &Result{
			Errors: []Error{{Message: strings.TrimSpace(string(out))}},
		}, nil
	case err != nil:
		return nil, fmt.Errorf("run %s: %w", e.Binary, err)
	}

	result := &Result{OK: true}
	if err := readArtifacts(ws, req.Config.Output, result); err != nil {
		return nil, err
	}
	return result, nil
}

func writeWorkspaceFile(ws vfs.VFS, name string, content []byte) error {
	if dir := strings.Trim(path.Dir(name), "/."); dir != "" {
		if err := vfs.MkdirAll(ws, dir, 0o755); err != nil {
			return fmt.Errorf("workspace %s: %w", dir, err)
		}
	}
	if err := vfs.WriteFile(ws, name, content, 0o644); err != nil {
		return fmt.Errorf("workspace %s: %w", name, err)
	}
	return nil
}

// readArtifacts lists the output directory and takes the compiler version
// from the first package file that declares one.
func readArtifacts(ws vfs.VFS, output string, result *Result) error {
	infos, err := ws.ReadDir(output)
	if vfs.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("read output: %w", err)
	}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		result.Artifacts = append(result.Artifacts, info.Name())
		if path.Ext(info.Name()) != packageExt || result.Version != "" {
			continue
		}
		content, err := vfs.ReadFile(ws, path.Join(output, info.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", info.Name(), err)
		}
		doc, err := document.Parse(bytes.TrimSpace(content))
		if err != nil {
			slog.Debug("Skipping malformed package",
				slog.String("name", info.Name()),
				slog.Any("error", err))
			continue
		}
		result.Version, _ = doc.GetString("compiler.version")
	}
	return nil
}

func removeWorkspace(ws vfs.TemporaryVFS) {
	if err := ws.Close(); err != nil {
		slog.Error("Failed to remove compiler workspace",
			slog.String("path", ws.Root()),
			slog.Any("error", err))
	}
}

// LookPath reports whether the compiler binary can be found.
func (e *Exec) LookPath() error {
	if _, err := exec.LookPath(e.Binary); err != nil {
		return fmt.Errorf("compiler: %w", err)
	}
	return nil
}
