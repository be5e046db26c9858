// Copyright © 2018 The ELPS authors

package lisp

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Runtime holds the state shared by every evaluation: the global binding
// table, the symbol table that readers intern into, output streams and
// evaluation limits.  A Runtime is not safe for concurrent use.
type Runtime struct {
	Symbols  *SymbolTable
	Globals  *Globals
	Reader   Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *logrus.Logger
	Profiler Profiler

	// MaxSteps bounds the number of frames a single evaluation may step.
	// Zero means unlimited.
	MaxSteps int64

	ctx      context.Context
	builtins []*LVal
	steps    int64
}

// NewRuntime returns a runtime configured by opts with its global table
// populated by the default builtins and any added with WithBuiltins.
func NewRuntime(opts ...Config) (*Runtime, error) {
	rt := &Runtime{
		Symbols:  Symbols,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		builtins: DefaultBuiltins(),
	}
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return nil, err
		}
	}
	if rt.Logger == nil {
		rt.Logger = logrus.New()
		rt.Logger.SetOutput(rt.Stderr)
		rt.Logger.SetLevel(logrus.WarnLevel)
	}
	rt.Globals = NewGlobals(rt.Symbols, rt.builtins)
	return rt, nil
}

// Reset clears all global definitions and re-installs the builtins.
func (rt *Runtime) Reset() {
	rt.Globals.Reset()
	rt.Logger.WithField("bindings", rt.Globals.Len()).Debug("globals reset")
}

// Steps returns the number of frames stepped by the most recent evaluation.
func (rt *Runtime) Steps() int64 {
	return rt.steps
}

// Intern returns the canonical symbol named name in the runtime's table.
func (rt *Runtime) Intern(name string) *LVal {
	return rt.Symbols.Intern(name)
}

// Define binds the symbol named name in the global table.
func (rt *Runtime) Define(name string, val *LVal) {
	rt.Globals.Define(rt.Intern(name), val)
}

// Resolve returns the global value bound to the symbol named name.
func (rt *Runtime) Resolve(name string) (*LVal, error) {
	return rt.Globals.Resolve(rt.Intern(name))
}

func (rt *Runtime) context() context.Context {
	if rt.ctx == nil {
		return context.Background()
	}
	return rt.ctx
}

func (rt *Runtime) profiling() bool {
	return rt.Profiler != nil && rt.Profiler.IsEnabled()
}
