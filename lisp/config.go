// Copyright © 2018 The ELPS authors

package lisp

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a runtime.
type Config func(rt *Runtime) error

// WithReader returns a Config that makes the runtime use r to parse source
// streams for load-file, read-file and Runtime.Load.  There is no default
// Reader.
func WithReader(r Reader) Config {
	return func(rt *Runtime) error {
		rt.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes println write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes the runtime write diagnostic output
// to w instead of the default, os.Stderr.  Unless WithLogger is also given
// the runtime's logger writes to w.
func WithStderr(w io.Writer) Config {
	return func(rt *Runtime) error {
		rt.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that makes the runtime log through logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(rt *Runtime) error {
		rt.Logger = logger
		return nil
	}
}

// WithMaxSteps returns a Config that sets the maximum number of frames an
// evaluation may step before it fails with ErrStepLimitExceeded.  A value of
// 0 means unlimited (the default).
func WithMaxSteps(n int64) Config {
	return func(rt *Runtime) error {
		if n < 0 {
			return fmt.Errorf("negative step limit: %d", n)
		}
		rt.MaxSteps = n
		return nil
	}
}

// WithContext returns a Config that sets the context bounding evaluations
// started with Runtime.Eval.  The context is checked periodically by the
// trampoline; once it is done evaluation fails with the context's error.
func WithContext(ctx context.Context) Config {
	return func(rt *Runtime) error {
		rt.ctx = ctx
		return nil
	}
}

// WithBuiltins returns a Config that adds fns to the runtime's builtins.
// Each fn must be created with Builtin.  Builtins added this way survive
// Runtime.Reset and shadow default builtins of the same name.
func WithBuiltins(fns ...*LVal) Config {
	return func(rt *Runtime) error {
		for _, fn := range fns {
			if fn.Type != LFun || fn.FunData().Builtin == nil {
				return fmt.Errorf("not a builtin: %v", fn)
			}
		}
		rt.builtins = append(rt.builtins, fns...)
		return nil
	}
}

// WithSymbolTable returns a Config that makes the runtime intern builtin
// names into t.  Readers used with the runtime must intern into the same
// table.
func WithSymbolTable(t *SymbolTable) Config {
	return func(rt *Runtime) error {
		rt.Symbols = t
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  The
// profiler is only consulted while p.IsEnabled returns true.
func WithProfiler(p Profiler) Config {
	return func(rt *Runtime) error {
		rt.Profiler = p
		return nil
	}
}
