// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	rt := klisptest.NewRuntime(t)
	tests := []struct {
		source    string
		condition string
		sentinel  error
	}{
		{`nope`, lisp.CondUnboundSymbol, lisp.ErrUnboundSymbol},
		{`(let (a 1) (resolve 'a))`, lisp.CondUnboundSymbol, lisp.ErrUnboundSymbol},
		{`(if 1 2)`, lisp.CondMalformedForm, lisp.ErrMalformedForm},
		{`(let (a) a)`, lisp.CondMalformedForm, lisp.ErrMalformedForm},
		{`("x" 1)`, lisp.CondMalformedForm, lisp.ErrMalformedForm},
		{`(car 1 2)`, lisp.CondArity, nil},
		{`(+ 1 "2")`, lisp.CondType, nil},
		{`(/ 1 0)`, lisp.CondArithmetic, nil},
		{`(die "x")`, lisp.CondDie, nil},
	}
	for _, test := range tests {
		_, err := rt.LoadString("test", test.source)
		var lerr *lisp.ErrorVal
		if !assert.ErrorAs(t, err, &lerr, test.source) {
			continue
		}
		assert.Equal(t, test.condition, lerr.Condition, test.source)
		if test.sentinel != nil {
			assert.ErrorIs(t, err, test.sentinel, test.source)
		}
	}
}

func TestErrorTrace(t *testing.T) {
	rt := klisptest.NewRuntime(t)
	_, err := rt.LoadString("test", `(def f (fn (x) (+ 1 (car x)))) (f 2)`)
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "type-error: car: argument is not a pair: 2", lerr.Error())
	require.NotNil(t, lerr.Frame)
	require.NotNil(t, lerr.Stack)

	var buf bytes.Buffer
	_, err = lerr.WriteTrace(&buf)
	require.NoError(t, err)
	trace := buf.String()
	assert.Contains(t, trace, "type-error: car: argument is not a pair: 2\n")
	assert.Contains(t, trace, "Continuation Stack [")
	assert.Contains(t, trace, "apply")
}

func TestErrorfWrapping(t *testing.T) {
	cause := errors.New("cause")
	err := lisp.Errorf("custom", "failed: %w", cause)
	assert.Equal(t, "custom: failed: cause", err.Error())
	assert.ErrorIs(t, err, cause)

	err = lisp.Errorf("custom", "")
	assert.Equal(t, "custom", err.Error())
	assert.Nil(t, err.Unwrap())
}
