package profiler

import (
	"regexp"

	"github.com/luthersystems/klisp/lisp"
)

type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun.FunData() == nil
}

// WithDocFilter filters to only include spans for functions with
// documentation that denotes tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithBuiltinFilter excludes builtin functions from traces.
func WithBuiltinFilter() Option {
	return WithSkipFilter(func(fun *lisp.LVal) bool {
		return fun.FunData().IsBuiltin()
	})
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All functions with a doc string that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun *lisp.LVal) bool {
	docStr := fun.FunData().Doc
	if docStr == "" {
		return true
	}
	// do not skip docs that include trace constant
	return !docTraceRegExp.MatchString(docStr)
}
