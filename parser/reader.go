// Copyright © 2018 The ELPS authors

package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser/token"
)

// ErrSyntax is wrapped by errors for input that can never form a valid
// expression, regardless of what follows it.
var ErrSyntax = errors.New("syntax error")

var errUnexpectedEnd = fmt.Errorf("unexpected %w", lisp.ErrEndOfInput)

// ReadForm reads one form from s.  If the input ends before a form begins
// ReadForm returns lisp.ErrEndOfInput itself.  If the input ends inside a
// form the returned error wraps lisp.ErrEndOfInput.
func (p *Reader) ReadForm(s *token.PushbackReader) (*lisp.LVal, error) {
	c, err := skipAtmosphere(s)
	if err != nil {
		return nil, err
	}
	switch c {
	case '(':
		return p.readList(s, ')')
	case '[':
		return p.readList(s, ']')
	case ')', ']':
		return nil, syntaxErrorf(s, "unexpected %q", c)
	case '"':
		return p.readString(s)
	case '\'':
		return p.readQuote(s)
	}
	if !isConstituent(c) {
		return nil, syntaxErrorf(s, "unexpected character %q", c)
	}
	return p.readAtom(s, c)
}

// ReadAll reads forms from s until the input is exhausted and returns them
// as the list (do form1 ... formN).
func (p *Reader) ReadAll(s *token.PushbackReader) (*lisp.LVal, error) {
	forms := []*lisp.LVal{p.symbols.Intern("do")}
	for {
		form, err := p.ReadForm(s)
		if err == lisp.ErrEndOfInput {
			return lisp.List(forms...), nil
		}
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

// skipAtmosphere consumes whitespace and comments and returns the first
// byte of the next token.
func skipAtmosphere(s *token.PushbackReader) (byte, error) {
	for {
		c, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		if isWhitespace(c) {
			continue
		}
		if c == ';' {
			for c != '\n' {
				c, err = s.ReadByte()
				if err != nil {
					return 0, err
				}
			}
			continue
		}
		return c, nil
	}
}

func (p *Reader) readList(s *token.PushbackReader, term byte) (*lisp.LVal, error) {
	var forms []*lisp.LVal
	for {
		c, err := skipAtmosphere(s)
		if err != nil {
			return nil, incomplete(s, err)
		}
		if c == term {
			return lisp.List(forms...), nil
		}
		if c == ')' || c == ']' {
			return nil, syntaxErrorf(s, "mismatched %q, expected %q", c, term)
		}
		s.Unread(c)
		form, err := p.ReadForm(s)
		if err != nil {
			return nil, incomplete(s, err)
		}
		forms = append(forms, form)
	}
}

func (p *Reader) readString(s *token.PushbackReader) (*lisp.LVal, error) {
	var buf []byte
	for {
		c, err := s.ReadByte()
		if err != nil {
			return nil, incomplete(s, err)
		}
		if c == '"' {
			return lisp.String(string(buf)), nil
		}
		buf = append(buf, c)
	}
}

func (p *Reader) readQuote(s *token.PushbackReader) (*lisp.LVal, error) {
	form, err := p.ReadForm(s)
	if err != nil {
		return nil, incomplete(s, err)
	}
	return lisp.List(p.symbols.Intern("quote"), form), nil
}

func (p *Reader) readAtom(s *token.PushbackReader, c byte) (*lisp.LVal, error) {
	buf := []byte{c}
	for {
		c, err := s.ReadByte()
		if err == lisp.ErrEndOfInput {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isConstituent(c) {
			s.Unread(c)
			break
		}
		buf = append(buf, c)
	}
	return p.atom(s, string(buf))
}

func (p *Reader) atom(s *token.PushbackReader, text string) (*lisp.LVal, error) {
	switch text {
	case "true":
		return lisp.True(), nil
	case "false":
		return lisp.False(), nil
	case "nil":
		return lisp.Nil(), nil
	}
	if isDigit(text[0]) || (text[0] == '-' && len(text) > 1 && isDigit(text[1])) {
		x, err := strconv.Atoi(text)
		if err != nil {
			return nil, syntaxErrorf(s, "invalid integer literal %q", text)
		}
		return lisp.Int(x), nil
	}
	return p.symbols.Intern(text), nil
}

// incomplete marks a clean end of input encountered inside a form as an
// unexpected one.  Other errors are returned unchanged.
func incomplete(s *token.PushbackReader, err error) error {
	if err != lisp.ErrEndOfInput {
		return err
	}
	return &token.LocationError{Err: errUnexpectedEnd, Source: s.Loc()}
}

func syntaxErrorf(s *token.PushbackReader, format string, v ...interface{}) error {
	return &token.LocationError{
		Err:    fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, v...)),
		Source: s.Loc(),
	}
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isConstituent(c byte) bool {
	switch {
	case isDigit(c), 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	}
	switch c {
	case '_', '!', '-', '+', '*', '/', '<', '>', '=', '?':
		return true
	}
	return false
}
