// Copyright © 2018 The ELPS authors

package klisptest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser"
	"github.com/sirupsen/logrus"
)

// NewRuntime returns a runtime for use in t.  Diagnostic output and log
// entries are written to the test log.
func NewRuntime(t testing.TB, opts ...lisp.Config) *lisp.Runtime {
	t.Helper()
	logger := NewLogger(t)
	t.Cleanup(logger.Flush)
	log := logrus.New()
	log.SetOutput(logger)
	log.SetLevel(logrus.DebugLevel)
	base := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(logger),
		lisp.WithLogger(log),
	}
	rt, err := lisp.NewRuntime(append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to initialize runtime: %v", err)
	}
	return rt
}

// LispError reports err to t, including the continuation stack pending when
// the error occurred.
func LispError(t testing.TB, err error) {
	t.Helper()
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// RunFile evaluates the source file at path in a fresh runtime and reports
// any error to t.
func RunFile(t *testing.T, path string, opts ...lisp.Config) *lisp.LVal {
	t.Helper()
	rt := NewRuntime(t, opts...)
	v, err := rt.LoadFile(path)
	if err != nil {
		LispError(t, err)
		return nil
	}
	return v
}

// TestSequence is a sequence of lisp expressions which are evaluated sequentially
// by a lisp.Runtime.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the printed result, or the error message
	Output string // text written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on an isolated lisp.Runtime.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for _, test := range tests {
		test := test
		t.Run(test.Name, func(t *testing.T) {
			var out bytes.Buffer
			rt := NewRuntime(t, lisp.WithStdout(&out))
			reader := parser.NewReader()
			for j, expr := range test.TestSequence {
				out.Reset()
				v, err := reader.ReadString(expr.Expr)
				if err != nil {
					t.Errorf("expr %d: parse error: %v", j, err)
					continue
				}
				var result string
				v, err = rt.Eval(v)
				if err != nil {
					result = err.Error()
				} else {
					result = v.String()
				}
				if result != expr.Result {
					t.Errorf("expr %d: %s: expected result %s (got %s)", j, expr.Expr, expr.Result, result)
				}
				if out.String() != expr.Output {
					t.Errorf("expr %d: %s: expected output %q (got %q)", j, expr.Expr, expr.Output, out.String())
				}
			}
		})
	}
}

// RunBenchmark runs a standard benchmark that executes the forms in source
// against a runtime that is reset before each iteration.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	loader, err := lisp.TextLoader(parser.NewReader(), "benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	rt, err := lisp.NewRuntime(
		lisp.WithStdout(io.Discard),
		lisp.WithStderr(io.Discard),
	)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		rt.Reset()
		b.StartTimer()
		_, err := loader(ctx, rt)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}
