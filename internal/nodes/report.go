package nodes

import (
	"io"
)

// Report is the immutable, in-memory content of a report file. It
// implements io.ReaderAt, as needed by srv.FReadOp.
type Report struct {
	buffer []byte
}

// NewReport creates a Report with the given contents.
//
// It does not retain the passed slice.
func NewReport(contents []byte) *Report {
	var r Report
	r.buffer = make([]byte, len(contents))
	copy(r.buffer, contents)
	return &r
}

// Size returns the length of the report in bytes.
func (r *Report) Size() int64 {
	return len64(r.buffer)
}

// ReadAt implements io.ReaderAt.
func (r *Report) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, io.ErrUnexpectedEOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= len64(r.buffer) {
		return 0, io.EOF
	}
	n = copy(p, r.buffer[off:])
	if n < len(p) {
		err = io.EOF
	}
	return
}

func len64(p []byte) int64 {
	return int64(len(p))
}
