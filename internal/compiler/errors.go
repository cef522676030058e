package compiler

import (
	"fmt"
)

// UnknownError is the message of a failed build without diagnostics.
const UnknownError = "Unknown compilation error"

// ImportError is returned if an import statement references a file that is
// in neither file set.
type ImportError struct {
	Importer string
	Target   string
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: import %q: %v", e.Importer, e.Target, e.Err)
}

// Is implements the [errors.Is] interface.
func (*ImportError) Is(other error) bool {
	_, ok := other.(*ImportError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// BuildError is returned by Compile if the compiler rejected the sources.
type BuildError struct {
	Message string
}

func (e *BuildError) Error() string {
	return e.Message
}

// Is implements the [errors.Is] interface.
func (*BuildError) Is(other error) bool {
	_, ok := other.(*BuildError)
	return ok
}
