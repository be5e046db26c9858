// Copyright © 2018 The ELPS authors

package token

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/klisp/lisp"
)

// PushbackViolation is the panic value raised when Unread is called
// while a byte is already pending.
type PushbackViolation struct {
	Pending byte
	Unread  byte
}

func (p PushbackViolation) Error() string {
	return fmt.Sprintf("pushback violation: unread %q while %q is pending", p.Unread, p.Pending)
}

// PushbackReader supplies bytes from an io.Reader one at a time and allows a
// single byte to be returned to the stream.
type PushbackReader struct {
	file string
	r    io.ByteReader

	pending    byte
	hasPending bool

	pos     int // offset of the next byte
	line    int
	col     int
	prevCol int // column before the last newline, for unreading it
}

// NewPushbackReader returns a PushbackReader reading from r.  File names the
// stream in locations.
func NewPushbackReader(file string, r io.Reader) *PushbackReader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &PushbackReader{
		file: file,
		r:    br,
		line: 1,
	}
}

// ReadByte returns the next byte.  It returns lisp.ErrEndOfInput when the
// underlying reader is exhausted.  Other read errors are returned as they
// are.
func (s *PushbackReader) ReadByte() (byte, error) {
	var c byte
	if s.hasPending {
		c = s.pending
		s.hasPending = false
	} else {
		var err error
		c, err = s.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, lisp.ErrEndOfInput
		}
		if err != nil {
			return 0, err
		}
	}
	s.pos++
	if c == '\n' {
		s.line++
		s.prevCol = s.col
		s.col = 0
	} else {
		s.col++
	}
	return c, nil
}

// Unread returns c to the stream so that it is produced by the next call
// to ReadByte.  Unread panics with a PushbackViolation if a byte is
// already pending.
func (s *PushbackReader) Unread(c byte) {
	if s.hasPending {
		panic(PushbackViolation{Pending: s.pending, Unread: c})
	}
	s.pending = c
	s.hasPending = true
	s.pos--
	if c == '\n' {
		s.line--
		s.col = s.prevCol
	} else {
		s.col--
	}
}

// Loc returns the location of the byte most recently read.
func (s *PushbackReader) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos - 1,
		Line: s.line,
		Col:  s.col,
	}
}
