// Copyright © 2018 The ELPS authors

// Package klisputil helps embedders extend a runtime with libraries
// implemented in Go.
package klisputil

import (
	"context"
	"fmt"

	"github.com/luthersystems/klisp/lisp"
)

// Library is a set of builtins implemented in Go.
type Library interface {
	LibraryName() string
	Builtins() []*lisp.LVal
}

// LibraryDocumented allows a library to provide a documentation string.
type LibraryDocumented interface {
	Library
	LibraryDoc() string
}

// LibraryDoc returns the documentation of lib, if it provides any.
func LibraryDoc(lib Library) string {
	if d, ok := lib.(LibraryDocumented); ok {
		return d.LibraryDoc()
	}
	return ""
}

// WithLibraries returns a Config that installs the builtins of each library
// in order.  A builtin shadows any earlier builtin of the same name.
func WithLibraries(libs ...Library) lisp.Config {
	return func(rt *lisp.Runtime) error {
		for _, lib := range libs {
			if err := lisp.WithBuiltins(lib.Builtins()...)(rt); err != nil {
				return fmt.Errorf("library %s: %w", lib.LibraryName(), err)
			}
		}
		return nil
	}
}

// LoadAll returns a Loader that runs each loader in order and returns the
// value of the last one.  The first error stops loading.
func LoadAll(fn ...lisp.Loader) lisp.Loader {
	return func(ctx context.Context, rt *lisp.Runtime) (*lisp.LVal, error) {
		v := lisp.Nil()
		for _, fn := range fn {
			var err error
			v, err = fn(ctx, rt)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}
