// Copyright © 2018 The ELPS authors

// Package lisplib is used to conveniently load the optional library of
// functions into a klisp runtime.
package lisplib

import (
	"bytes"

	"github.com/luthersystems/klisp/klisputil"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/lisp/lisplib/libhelp"
	"github.com/luthersystems/klisp/parser"
)

// Libraries returns every optional library.
func Libraries() []klisputil.Library {
	return []klisputil.Library{
		libhelp.Library{},
	}
}

// Builtins returns every library function.
func Builtins() []*lisp.LVal {
	var fns []*lisp.LVal
	for _, lib := range Libraries() {
		fns = append(fns, lib.Builtins()...)
	}
	return fns
}

// WithLibrary returns a Config that installs the library functions in a
// runtime.  They survive Runtime.Reset like the default builtins.
func WithLibrary() lisp.Config {
	return klisputil.WithLibraries(Libraries()...)
}

// NewDocRuntime creates a runtime with the library loaded, suitable for
// documentation queries.  Embedders can extend the runtime with their own
// builtins through opts, or create their own runtime and use the
// libhelp.Render* functions and libhelp.CheckMissing directly.
func NewDocRuntime(opts ...lisp.Config) (*lisp.Runtime, error) {
	base := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(&bytes.Buffer{}),
		WithLibrary(),
	}
	return lisp.NewRuntime(append(base, opts...)...)
}
