package profiler

import (
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPprofAnnotator(t *testing.T) {
	var ppa *pprofAnnotator
	var seen []string
	record := lisp.Builtin("record-label", nil, func(rt *lisp.Runtime, args *lisp.LVal, s *lisp.Stack) (*lisp.LVal, *lisp.Stack, error) {
		label, _ := ppa.currentLabel()
		seen = append(seen, label)
		return lisp.Nil(), s, nil
	}, "Records the current pprof label.")
	rt := klisptest.NewRuntime(t, lisp.WithBuiltins(record))
	ppa = NewPprofAnnotator(rt, nil, WithBuiltinFilter(), WithDocLabeler())
	require.NoError(t, ppa.Enable())

	_, err := rt.LoadString("test.lisp", `
(def outer (fn () "@trace{ Outer Fun }" (inner) (record-label)))
(def inner (fn () (record-label)))
(outer)
(record-label)`)
	require.NoError(t, err)
	assert.NoError(t, ppa.Complete())
	assert.Equal(t, []string{"inner", "Outer_Fun", ""}, seen)
	assert.False(t, ppa.IsEnabled())
}
