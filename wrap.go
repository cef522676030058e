package main

import (
	"strings"
	"unicode/utf8"
)

// wrap joins the words of text into lines of at most width runes, each
// starting with prefix. A single word longer than width gets a line of its
// own.
func wrap(text string, prefix string, width int) string {
	var b strings.Builder
	prefixLen := utf8.RuneCountInString(prefix)
	offset := 0
	for i, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if i > 0 && offset+1+n <= width {
			b.WriteByte(' ')
			b.WriteString(word)
			offset += 1 + n
			continue
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefix)
		b.WriteString(word)
		offset = prefixLen + n
	}
	return b.String()
}
