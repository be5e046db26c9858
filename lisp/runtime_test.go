// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeReset(t *testing.T) {
	rt := klisptest.NewRuntime(t)
	builtins := rt.Globals.Len()

	_, err := rt.LoadString("test", `(def x 1) (def car 2)`)
	require.NoError(t, err)
	v, err := rt.Resolve("car")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Int)

	rt.Reset()
	assert.Equal(t, builtins, rt.Globals.Len())
	_, err = rt.Resolve("x")
	assert.ErrorIs(t, err, lisp.ErrUnboundSymbol)
	v, err = rt.LoadString("test", `(car '(1 2))`)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Int)
}

func TestRuntimeDeterministicAfterReset(t *testing.T) {
	const source = `
(def acc 0)
(def add (fn (n) (def acc (+ acc n))))
(add 3)
(add 4)
(println acc)
acc`
	var out bytes.Buffer
	rt := klisptest.NewRuntime(t, lisp.WithStdout(&out))
	var results []string
	for i := 0; i < 3; i++ {
		rt.Reset()
		out.Reset()
		v, err := rt.LoadString("test", source)
		require.NoError(t, err)
		results = append(results, v.String()+"|"+out.String())
	}
	assert.Equal(t, []string{"7|7\n", "7|7\n", "7|7\n"}, results)
}

func TestRuntimeMaxSteps(t *testing.T) {
	rt := klisptest.NewRuntime(t, lisp.WithMaxSteps(1000))
	_, err := rt.LoadString("test", `(def spin (fn () (spin))) (spin)`)
	assert.ErrorIs(t, err, lisp.ErrStepLimitExceeded)
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.CondStepLimitExceeded, lerr.Condition)
	assert.EqualValues(t, 1001, rt.Steps())

	v, err := rt.LoadString("test", `(+ 1 2)`)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Int)

	_, err = lisp.NewRuntime(lisp.WithMaxSteps(-1))
	assert.Error(t, err)
}

func TestRuntimeContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rt := klisptest.NewRuntime(t, lisp.WithContext(ctx))
	_, err := rt.LoadString("test", `(def spin (fn () (spin)))`)
	require.NoError(t, err)

	cancel()
	_, err = rt.LoadString("test", `(spin)`)
	assert.ErrorIs(t, err, context.Canceled)

	reader := parser.NewReader()
	expr, err := reader.ReadString(`(spin)`)
	require.NoError(t, err)
	tctx, tcancel := context.WithTimeout(context.Background(), 0)
	defer tcancel()
	_, err = rt.EvalContext(tctx, expr)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.CondContextCancelled, lerr.Condition)
}

func TestRuntimeWithBuiltins(t *testing.T) {
	double := lisp.Builtin("double", []string{"n"}, func(rt *lisp.Runtime, args *lisp.LVal, s *lisp.Stack) (*lisp.LVal, *lisp.Stack, error) {
		n := args.Cells[0]
		if n.Type != lisp.LInt {
			return nil, nil, lisp.Errorf(lisp.CondType, "double: argument is not an int: %v", n)
		}
		return lisp.Int(2 * n.Int), s, nil
	}, "Returns twice n.")
	rt := klisptest.NewRuntime(t, lisp.WithBuiltins(double))

	v, err := rt.LoadString("test", `(double 21)`)
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int)

	rt.Reset()
	v, err = rt.LoadString("test", `(double (double 1))`)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Int)

	_, err = lisp.NewRuntime(lisp.WithBuiltins(lisp.Int(1)))
	assert.Error(t, err)
}

func TestRuntimeSymbolTable(t *testing.T) {
	symbols := lisp.NewSymbolTable()
	rt := klisptest.NewRuntime(t,
		lisp.WithSymbolTable(symbols),
		lisp.WithReader(parser.NewReader(parser.WithSymbolTable(symbols))))
	v, err := rt.LoadString("test", `(def isolated 5) (symbol? 'isolated)`)
	require.NoError(t, err)
	assert.Equal(t, lisp.True(), v)
	_, ok := symbols.Lookup("isolated")
	assert.True(t, ok)
	_, err = rt.Globals.Resolve(symbols.Intern("isolated"))
	assert.NoError(t, err)
}

func TestRuntimeLoadFile(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.lisp")
	require.NoError(t, os.WriteFile(lib, []byte(`
; library
(def square (fn (x) (* x x)))
(println "loaded")
(square 3)
`), 0600))
	main := filepath.Join(dir, "main.lisp")
	require.NoError(t, os.WriteFile(main, []byte(`(load-file "`+lib+`") (square 5)`), 0600))

	var out bytes.Buffer
	rt := klisptest.NewRuntime(t, lisp.WithStdout(&out))
	v, err := rt.LoadFile(main)
	require.NoError(t, err)
	assert.Equal(t, 25, v.Int)
	assert.Equal(t, "loaded\n", out.String())

	v, err = rt.LoadString("test", `(load-file "`+lib+`")`)
	require.NoError(t, err)
	assert.Equal(t, 9, v.Int)

	v, err = rt.LoadString("test", `(read-file "`+lib+`")`)
	require.NoError(t, err)
	assert.Equal(t, `(do (def square (fn (x) (* x x))) (println "loaded") (square 3))`, v.String())

	_, err = rt.LoadString("test", `(load-file "`+filepath.Join(dir, "missing.lisp")+`")`)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.lisp")
	require.NoError(t, os.WriteFile(bad, []byte(`(def x`), 0600))
	_, err = rt.LoadString("test", `(read-file "`+bad+`")`)
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.CondParse, lerr.Condition)
	assert.ErrorIs(t, err, lisp.ErrEndOfInput)
}

func TestRuntimeNoReader(t *testing.T) {
	rt, err := lisp.NewRuntime()
	require.NoError(t, err)
	_, err = rt.LoadString("test", `1`)
	assert.Error(t, err)
}
