// Copyright © 2018 The ELPS authors

package lisp

import (
	"context"
	"io"
	"os"
	"strings"
)

// Loader evaluates code in a runtime.
type Loader func(ctx context.Context, rt *Runtime) (*LVal, error)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return them as a single (do ...) form.
	// Name identifies the stream in error messages.
	Read(name string, r io.Reader) (*LVal, error)
}

// TextLoader parses a text stream using r and returns a Loader which evaluates
// the stream's forms when called.  The reader is invoked only once so the
// Loader may be run repeatedly, e.g. against freshly reset runtimes.
func TextLoader(r Reader, name string, stream io.Reader) (Loader, error) {
	forms, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, rt *Runtime) (*LVal, error) {
		return rt.EvalContext(ctx, forms)
	}, nil
}

// Load reads all forms from r and evaluates them in sequence, returning the
// value of the last one.
func (rt *Runtime) Load(name string, r io.Reader) (*LVal, error) {
	return rt.LoadContext(rt.context(), name, r)
}

// LoadContext is like Load but evaluation is bounded by ctx.
func (rt *Runtime) LoadContext(ctx context.Context, name string, r io.Reader) (*LVal, error) {
	if rt.Reader == nil {
		return nil, Errorf(CondIO, "runtime has no reader")
	}
	forms, err := rt.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	return rt.EvalContext(ctx, forms)
}

// LoadString evaluates the forms in source.
func (rt *Runtime) LoadString(name, source string) (*LVal, error) {
	return rt.Load(name, strings.NewReader(source))
}

// LoadFile evaluates the forms in the file at path.
func (rt *Runtime) LoadFile(path string) (*LVal, error) {
	forms, err := rt.readFile(path)
	if err != nil {
		return nil, err
	}
	return rt.Eval(forms)
}

// readFile parses the file at path into a (do ...) form.
func (rt *Runtime) readFile(path string) (*LVal, error) {
	if rt.Reader == nil {
		return nil, Errorf(CondIO, "runtime has no reader")
	}
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return nil, Errorf(CondIO, "%w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file
	forms, err := rt.Reader.Read(path, f)
	if err != nil {
		return nil, err
	}
	rt.Logger.WithField("path", path).Debug("read source file")
	return forms, nil
}
