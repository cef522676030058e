package compiler_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/nicolagi/tactbot/internal/compiler"
	"github.com/nicolagi/tactbot/internal/ovfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler writes an executable shell script acting as compiler.
func fakeCompiler(t *testing.T, script string) *compiler.Exec {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	bin := filepath.Join(t.TempDir(), "tact")
	err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)

	return &compiler.Exec{Binary: bin}
}

func newRequest(t *testing.T, source string) compiler.Request {
	t.Helper()

	return compiler.Request{
		Project: compiler.NewProject(source),
		Stdlib:  newLibrary(t),
		Config:  compiler.DefaultConfig,
	}
}

func TestExec(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := fakeCompiler(t, `set -e
test "$1" = "--config"
grep -q '"path":"./contract.tact"' "$2"
grep -q '"debug":true' "$2"
test -f contract.tact
test -f lib/types.tact
test ! -e libs
mkdir -p output
echo '{"name":"Counter_Counter","compiler":{"name":"tact","version":"1.5.3"}}' > output/Counter_Counter.pkg
echo 'te6cck' > output/Counter_Counter.code.boc
`)
		req := newRequest(t, "import \"@stdlib/deploy\";\nimport \"./lib/types\";\ncontract Counter {}")
		req.Project.WriteFile("lib/types.tact", []byte("struct Pair {}"))

		result, err := c.Build(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Empty(t, result.Errors)
		assert.Equal(t, "1.5.3", result.Version)
		assert.ElementsMatch(t, []string{"Counter_Counter.pkg", "Counter_Counter.code.boc"}, result.Artifacts)
	})

	t.Run("no output", func(t *testing.T) {
		c := fakeCompiler(t, "exit 0\n")

		result, err := c.Build(context.Background(), newRequest(t, "contract Counter {}"))
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Empty(t, result.Version)
		assert.Empty(t, result.Artifacts)
	})

	t.Run("rejected", func(t *testing.T) {
		c := fakeCompiler(t, `printf 'Compilation error:\nLine 1, col 10:\n> 1 | contract {}\n\n' >&2
exit 30
`)

		result, err := c.Build(context.Background(), newRequest(t, "contract {}"))
		require.NoError(t, err)
		assert.False(t, result.OK)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Compilation error:\nLine 1, col 10:\n> 1 | contract {}", result.Errors[0].Message)
	})

	t.Run("missing import", func(t *testing.T) {
		c := fakeCompiler(t, "exit 1\n")

		_, err := c.Build(context.Background(), newRequest(t, "import \"./nope\";\ncontract Counter {}"))
		require.ErrorIs(t, err, ovfs.ErrNotFound)
	})

	t.Run("missing binary", func(t *testing.T) {
		c := &compiler.Exec{Binary: filepath.Join(t.TempDir(), "tact")}

		_, err := c.Build(context.Background(), newRequest(t, "contract Counter {}"))
		require.Error(t, err)
		require.Error(t, c.LookPath())
	})

	t.Run("canceled", func(t *testing.T) {
		c := fakeCompiler(t, "sleep 10\n")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Build(ctx, newRequest(t, "contract Counter {}"))
		require.ErrorIs(t, err, context.Canceled)
	})
}
