// Copyright © 2024 The ELPS authors

package cmd

import (
	"strings"
	"testing"

	"github.com/luthersystems/klisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocCommand_DefaultFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] QUERY", cmd.Use)

	for _, name := range []string{"source-file", "all", "missing", "guide"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestDocCommand_Builtin(t *testing.T) {
	out, _, err := execute(t, DocCommand(), "cons")
	require.NoError(t, err)
	assert.Contains(t, out, "builtin (cons first rest)\n")
	assert.Contains(t, out, "Returns a new pair of first and rest.")
}

func TestDocCommand_SpecialForm(t *testing.T) {
	out, _, err := execute(t, DocCommand(), "let")
	require.NoError(t, err)
	assert.Contains(t, out, "special form (let (name expr ...) body ...)\n")
}

func TestDocCommand_SourceFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lib.lisp", `
(def sq (fn (x)
  "Returns x squared."
  (* x x)))
`)
	out, _, err := execute(t, DocCommand(), "-f", path, "sq")
	require.NoError(t, err)
	assert.Equal(t, "function (sq x)\n  Returns x squared.\n", out)
}

func TestDocCommand_SourceFileError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.lisp", `(car 1)`)
	_, errOut, err := execute(t, DocCommand(), "-f", path, "car")
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.CondType, lerr.Condition)
	assert.Contains(t, errOut, "error: type-error: car: argument is not a pair: 1\n")
}

func TestDocCommand_WithRuntimeConfig(t *testing.T) {
	helper := lisp.Builtin("my-helper", []string{"x"}, identity, "Returns x.")
	out, _, err := execute(t, DocCommand(WithRuntimeConfig(lisp.WithBuiltins(helper))), "my-helper")
	require.NoError(t, err)
	assert.Equal(t, "builtin (my-helper x)\n  Returns x.\n", out)
}

func TestDocCommand_Missing(t *testing.T) {
	out, _, err := execute(t, DocCommand(), "--missing")
	require.NoError(t, err)
	assert.Empty(t, out)

	bare := lisp.Builtin("bare", []string{"x"}, identity, "")
	out, _, err = execute(t, DocCommand(WithRuntimeConfig(lisp.WithBuiltins(bare))), "--missing")
	assert.ErrorIs(t, err, errMissingDocs)
	assert.Equal(t, "builtin bare\n", out)
}

func TestDocCommand_All(t *testing.T) {
	out, _, err := execute(t, DocCommand(), "-a")
	require.NoError(t, err)
	assert.Contains(t, out, "special form (quote expr)")
	assert.Contains(t, out, "builtin (car pair)")
	assert.Contains(t, out, "builtin (help name)")
}

func TestDocCommand_Args(t *testing.T) {
	_, _, err := execute(t, DocCommand())
	assert.Error(t, err)

	_, _, err = execute(t, DocCommand(), "-a", "car")
	assert.Error(t, err)
}

func TestDocCommand_Unbound(t *testing.T) {
	_, _, err := execute(t, DocCommand(), "no-such-symbol")
	assert.ErrorIs(t, err, lisp.ErrUnboundSymbol)
}

func TestDocCommand_Guide(t *testing.T) {
	out, _, err := execute(t, DocCommand(), "--guide")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# klisp language reference\n"))
	for _, form := range lisp.SpecialForms() {
		assert.Contains(t, out, "("+form+" ", form)
	}
}
