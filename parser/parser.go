// Copyright © 2018 The ELPS authors

package parser

import (
	"io"
	"strings"

	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser/token"
)

// Reader parses klisp source text.  Reader implements lisp.Reader.
type Reader struct {
	symbols *lisp.SymbolTable
}

var _ lisp.Reader = (*Reader)(nil)

// Option configures a Reader.
type Option func(*Reader)

// WithSymbolTable makes the reader intern symbols into t instead of the
// process-wide lisp.Symbols table.
func WithSymbolTable(t *lisp.SymbolTable) Option {
	return func(p *Reader) {
		p.symbols = t
	}
}

// NewReader returns a new Reader.
func NewReader(opts ...Option) *Reader {
	p := &Reader{symbols: lisp.Symbols}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Read parses all forms in r and returns them as a single (do ...) form.
func (p *Reader) Read(name string, r io.Reader) (*lisp.LVal, error) {
	return p.ReadAll(token.NewPushbackReader(name, r))
}

// ReadString parses a single form from source.  It returns
// lisp.ErrEndOfInput if source contains no form.
func (p *Reader) ReadString(source string) (*lisp.LVal, error) {
	return p.ReadForm(token.NewPushbackReader("string", strings.NewReader(source)))
}
