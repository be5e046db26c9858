// Copyright © 2024 The ELPS authors

// Package diagnostic renders reader and evaluation errors as annotated
// source snippets for CLI output.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single error or note with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// maxNotes limits the continuation frames listed for an evaluation error.
const maxNotes = 8

// FromError converts err into a diagnostic.  Reader errors are annotated
// with the location of the offending character.  Evaluation errors list the
// frame that failed and the innermost pending frames.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}
	var lerr *token.LocationError
	if errors.As(err, &lerr) && lerr.Source != nil {
		d.Message = lerr.Err.Error()
		span := Span{File: lerr.Source.File, Line: lerr.Source.Line, Col: lerr.Source.Col}
		if errors.Is(err, lisp.ErrEndOfInput) {
			span.Label = "input ends here"
		}
		d.Spans = append(d.Spans, span)
		return d
	}
	var eval *lisp.ErrorVal
	if !errors.As(err, &eval) {
		return d
	}
	if eval.Frame != nil {
		d.Notes = append(d.Notes, fmt.Sprintf("in %v", eval.Frame))
	}
	s := eval.Stack
	for i := 0; s != nil; i, s = i+1, s.Prev {
		if i == maxNotes {
			d.Notes = append(d.Notes, fmt.Sprintf("... %d more frames", s.Len()))
			break
		}
		d.Notes = append(d.Notes, fmt.Sprintf("pending %v", s.Frame))
	}
	return d
}
