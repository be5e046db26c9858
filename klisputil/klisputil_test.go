// Copyright © 2018 The ELPS authors

package klisputil

import (
	"context"
	"strings"
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLibrary struct {
	name string
	fns  []*lisp.LVal
}

func (lib *testLibrary) LibraryName() string    { return lib.name }
func (lib *testLibrary) Builtins() []*lisp.LVal { return lib.fns }
func (lib *testLibrary) LibraryDoc() string     { return "Test helpers." }

func constant(v *lisp.LVal) lisp.LBuiltin {
	return func(rt *lisp.Runtime, args *lisp.LVal, s *lisp.Stack) (*lisp.LVal, *lisp.Stack, error) {
		return v, s, nil
	}
}

func TestWithLibraries(t *testing.T) {
	one := &testLibrary{name: "one", fns: []*lisp.LVal{
		lisp.Builtin("answer", nil, constant(lisp.Int(41)), "Returns 41."),
	}}
	two := &testLibrary{name: "two", fns: []*lisp.LVal{
		lisp.Builtin("answer", nil, constant(lisp.Int(42)), "Returns 42."),
	}}
	rt := klisptest.NewRuntime(t, WithLibraries(one, two))
	v, err := rt.LoadString("test", "(answer)")
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int)

	rt.Reset()
	v, err = rt.LoadString("test", "(answer)")
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int)
}

func TestWithLibraries_Invalid(t *testing.T) {
	bad := &testLibrary{name: "bad", fns: []*lisp.LVal{lisp.Int(1)}}
	_, err := lisp.NewRuntime(WithLibraries(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "library bad")
}

func TestLibraryDoc(t *testing.T) {
	assert.Equal(t, "Test helpers.", LibraryDoc(&testLibrary{}))
}

func TestLoadAll(t *testing.T) {
	r := parser.NewReader()
	prelude, err := lisp.TextLoader(r, "prelude", strings.NewReader("(def x 20)"))
	require.NoError(t, err)
	body, err := lisp.TextLoader(r, "main", strings.NewReader("(+ x x) (* x 2) (+ x 22)"))
	require.NoError(t, err)

	rt := klisptest.NewRuntime(t)
	v, err := LoadAll(prelude, body)(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, 42, v.Int)

	broken, err := lisp.TextLoader(r, "broken", strings.NewReader("(car 1)"))
	require.NoError(t, err)
	ran := false
	after := func(ctx context.Context, rt *lisp.Runtime) (*lisp.LVal, error) {
		ran = true
		return lisp.Nil(), nil
	}
	_, err = LoadAll(prelude, broken, after)(context.Background(), rt)
	assert.Error(t, err)
	assert.False(t, ran)

	v, err = LoadAll()(context.Background(), rt)
	require.NoError(t, err)
	assert.True(t, v.IsNil())
}
