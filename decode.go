package main

import (
	"bytes"
	"errors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errBinarySource = errors.New("the file does not look like text")

// decodeSource converts an uploaded file to UTF-8. A byte order mark selects
// UTF-16 or UTF-8 and is dropped; without one the file is read as UTF-8.
func decodeSource(b []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, b)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(text, 0) >= 0 {
		return "", errBinarySource
	}
	return string(text), nil
}
