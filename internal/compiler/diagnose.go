package compiler

import (
	"fmt"
	"regexp"
	"strconv"
)

var errorLocation = regexp.MustCompile(`(?s)Line (\d+), col (\d+):\n(.*?)\n\n`)

// Diagnostic is a build failure prepared for humans.
type Diagnostic struct {
	// Line and Column are zero if the message carries no location.
	Line    int
	Column  int
	Context string
	Message string
}

// Diagnose extracts the first "Line N, col M:" block from err's message.
func Diagnose(err error) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}
	d := Diagnostic{Message: err.Error()}
	m := errorLocation.FindStringSubmatch(d.Message)
	if m == nil {
		return d
	}
	d.Line, _ = strconv.Atoi(m[1])
	d.Column, _ = strconv.Atoi(m[2])
	d.Context = m[3]
	return d
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("Compilation error at line %d, position %d:\n%s\nPlease check your contract syntax.",
			d.Line, d.Column, d.Context)
	}
	return fmt.Sprintf("Compilation error: %s\nPlease check your contract syntax.", d.Message)
}
