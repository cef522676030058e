package compiler_test

import (
	"testing"

	"github.com/nicolagi/tactbot/internal/compiler"
	"github.com/nicolagi/tactbot/internal/ovfs"
	"github.com/nicolagi/tactbot/internal/stdlib"
	"github.com/rainycape/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLibrary(t *testing.T) *stdlib.FileSet {
	t.Helper()

	mem, err := vfs.Map(map[string]*vfs.File{
		"libs/deploy.tact":  {Data: []byte("import \"./ownable\";\ntrait Deployable {}\n")},
		"libs/ownable.tact": {Data: []byte("trait Ownable {}\n")},
		"std/stdlib.fc":     {Data: []byte(";; primitives\n")},
	})
	require.NoError(t, err)

	lib, err := stdlib.New(mem)
	require.NoError(t, err)

	return lib
}

func paths(sources []compiler.Source) []string {
	var names []string
	for _, src := range sources {
		names = append(names, src.Path)
	}
	return names
}

func TestImports(t *testing.T) {
	content := []byte(`import "@stdlib/deploy";
  import "./messages.tact" ;
// import "commented.tact";
contract Counter with Deployable {
    init() { let s: String = "import \"nope\";"; }
}
`)

	assert.Equal(t, []string{"@stdlib/deploy", "./messages.tact"}, compiler.Imports(content))
	assert.Empty(t, compiler.Imports([]byte("contract Counter {}")))
}

func TestSources(t *testing.T) {
	lib := newLibrary(t)

	t.Run("single file", func(t *testing.T) {
		project := compiler.NewProject("contract Counter {}")

		sources, err := compiler.Sources(project, lib, "/contract.tact")
		require.NoError(t, err)
		require.Len(t, sources, 1)
		assert.Equal(t, "/contract.tact", sources[0].Path)
		assert.Equal(t, "contract Counter {}", string(sources[0].Content))
		assert.False(t, sources[0].Aliased())
	})

	t.Run("relative and library imports", func(t *testing.T) {
		project := ovfs.New("/")
		project.WriteFile("contract.tact", []byte(`import "@stdlib/deploy";
import "lib/messages";
contract Counter with Deployable {}
`))
		project.WriteFile("lib/messages.tact", []byte(`import "../contract.tact";
import "types.tact";
message Add {}
`))
		project.WriteFile("lib/types.tact", []byte("struct Pair {}\n"))

		sources, err := compiler.Sources(project, lib, "/contract.tact")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/contract.tact",
			"@stdlib/libs/deploy.tact",
			"@stdlib/libs/ownable.tact",
			"/lib/messages.tact",
			"/lib/types.tact",
		}, paths(sources))
		assert.True(t, sources[1].Aliased())
	})

	t.Run("missing entry", func(t *testing.T) {
		project := ovfs.New("/")

		_, err := compiler.Sources(project, lib, "/contract.tact")
		require.ErrorIs(t, err, ovfs.ErrNotFound)
		assert.NotErrorIs(t, err, &compiler.ImportError{})
	})

	t.Run("missing project import", func(t *testing.T) {
		project := compiler.NewProject("import \"./missing\";\ncontract Counter {}")

		_, err := compiler.Sources(project, lib, "/contract.tact")
		require.ErrorIs(t, err, &compiler.ImportError{})
		require.ErrorIs(t, err, ovfs.ErrNotFound)

		var importErr *compiler.ImportError
		require.ErrorAs(t, err, &importErr)
		assert.Equal(t, "/contract.tact", importErr.Importer)
		assert.Equal(t, "./missing.tact", importErr.Target)
		assert.EqualError(t, err, `/contract.tact: import "./missing.tact": file /missing.tact not found`)
	})

	t.Run("missing library", func(t *testing.T) {
		project := compiler.NewProject("import \"@stdlib/jetton\";\ncontract Counter {}")

		_, err := compiler.Sources(project, lib, "/contract.tact")
		require.ErrorIs(t, err, ovfs.ErrNotFound)
		assert.ErrorContains(t, err, "@stdlib/libs/jetton.tact")
	})
}
