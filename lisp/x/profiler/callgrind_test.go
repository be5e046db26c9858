package profiler_test

import (
	"bytes"
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallgrind(t *testing.T) {
	rt := klisptest.NewRuntime(t)
	var buf bytes.Buffer
	p := profiler.NewCallgrindProfiler(rt, &buf)
	require.NoError(t, p.Enable())
	assert.Same(t, p, rt.Profiler)

	_, err := rt.LoadString("test.lisp", `
(def add-it (fn (x y) (+ x y)))
(def recurse-it (fn (x) (if (< x 4) (add-it x 3) (recurse-it (dec x)))))
(println (add-it (recurse-it 5) 8))`)
	require.NoError(t, err)
	require.NoError(t, p.Complete())

	out := buf.String()
	assert.Contains(t, out, "version: 1\n")
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)\n")
	assert.Contains(t, out, ") add-it\n")
	assert.Contains(t, out, ") recurse-it\n")
	assert.Contains(t, out, ") ENTRYPOINT\n")
	assert.Contains(t, out, "calls=1 0 0\n")
	assert.Contains(t, out, "summary ")
}

func TestCallgrindError(t *testing.T) {
	rt := klisptest.NewRuntime(t)
	p := profiler.NewCallgrindProfiler(rt, nil)
	assert.Error(t, p.Enable())
	assert.Error(t, p.Complete())

	var buf bytes.Buffer
	p = profiler.NewCallgrindProfiler(rt, &buf)
	require.NoError(t, p.Enable())
	_, err := rt.LoadString("test.lisp", `(def f (fn () (car 1))) (f)`)
	assert.Error(t, err)
	require.NoError(t, p.Complete())
	assert.Contains(t, buf.String(), ") f\n")
}
