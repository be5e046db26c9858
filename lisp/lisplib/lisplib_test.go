// Copyright © 2024 The ELPS authors

package lisplib_test

import (
	"testing"

	"github.com/luthersystems/klisp/klisputil"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/lisp/lisplib"
	"github.com/luthersystems/klisp/lisp/lisplib/libhelp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocRuntime(t *testing.T) {
	rt, err := lisplib.NewDocRuntime()
	require.NoError(t, err)
	for _, fn := range lisplib.Builtins() {
		v, err := rt.Resolve(fn.FunData().Name)
		if assert.NoError(t, err) {
			assert.Equal(t, lisp.LFun, v.Type)
		}
	}
	assert.Empty(t, libhelp.CheckMissing(rt))

	rt.Reset()
	_, err = rt.Resolve("help")
	assert.NoError(t, err, "library survives reset")

	_, err = rt.LoadString("test", `(def x 1)`)
	assert.NoError(t, err)
}

func TestNewDocRuntimeOptions(t *testing.T) {
	_, err := lisplib.NewDocRuntime(lisp.WithMaxSteps(-1))
	assert.Error(t, err)
}

func TestLibraries(t *testing.T) {
	names := map[string]bool{}
	for _, lib := range lisplib.Libraries() {
		assert.False(t, names[lib.LibraryName()], "duplicate library %s", lib.LibraryName())
		names[lib.LibraryName()] = true
		assert.NotEmpty(t, klisputil.LibraryDoc(lib), lib.LibraryName())
		assert.NotEmpty(t, lib.Builtins(), lib.LibraryName())
	}
	assert.True(t, names["help"])
}
