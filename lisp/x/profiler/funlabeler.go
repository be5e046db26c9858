package profiler

import (
	"regexp"
	"strings"

	"github.com/luthersystems/klisp/lisp"
)

// FunLabeler provides an alternative name for a function in traces.  An
// empty result keeps the function's own name.
type FunLabeler func(runtime *lisp.Runtime, fun *lisp.LVal) string

// WithDocLabeler labels spans with the @trace{Label} annotation found in a
// function's docstring.
func WithDocLabeler() Option {
	return WithFunLabeler(docFunLabeler)
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// DocLabel matches the label annotation in a docstring.
const DocLabel = `@trace\s*{([^}]+)}`

var (
	docLabelRegExp = regexp.MustCompile(DocLabel)
	separatorRun   = regexp.MustCompile(`[\s_]+`)
)

// cleanLabel extracts the annotated label from doc.  Runs of whitespace
// and underscores become one underscore and the label stops at the first
// non-printable character.
func cleanLabel(doc string) string {
	m := docLabelRegExp.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	label := separatorRun.ReplaceAllString(strings.TrimSpace(m[1]), "_")
	if i := strings.IndexFunc(label, func(r rune) bool { return r < '!' || r > '~' }); i >= 0 {
		label = label[:i]
	}
	return label
}

func docFunLabeler(runtime *lisp.Runtime, fun *lisp.LVal) string {
	return cleanLabel(fun.FunData().Doc)
}
