// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/klisp/docs"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/lisp/lisplib"
	"github.com/luthersystems/klisp/lisp/lisplib/libhelp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type docFlags struct {
	sourceFile string
	all        bool
	missing    bool
	guide      bool
}

// DocCommand returns the doc command.  Options add runtime configuration so
// embedders can document their own builtins.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var flags docFlags
	cmd := &cobra.Command{
		Use:   "doc [flags] QUERY",
		Short: "Show documentation for special forms, builtins and globals",
		Long: `Show built-in documentation for klisp special forms, builtin functions
and global definitions.

Use -f to load a source file first (useful for documenting your own code).
A string that begins the body of a function with two or more body forms
is that function's documentation.

Examples:
  klisp doc cons                   Show docs for the cons builtin
  klisp doc let                    Show docs for the let special form
  klisp doc -f mylib.lisp my-func  Load a file, then show docs for my-func
  klisp doc -a                     Show docs for every global symbol
  klisp doc --missing              List functions without documentation
  klisp doc --guide                Show the language reference`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.all || flags.missing || flags.guide {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return docExec(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, &flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.sourceFile, "source-file", "f", "",
		"Evaluate a lisp source file before querying documentation (presumably desired docs are in source code).")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false,
		"Render documentation for every special form and global binding.")
	cmd.Flags().BoolVar(&flags.missing, "missing", false,
		"List functions and special forms that lack documentation; exits non-zero if any are found.")
	cmd.Flags().BoolVar(&flags.guide, "guide", false,
		"Print the language reference.")
	return cmd
}

// errMissingDocs is returned by the doc command when --missing finds
// undocumented symbols.
var errMissingDocs = errors.New("undocumented symbols found")

func docExec(stdout, stderr io.Writer, cfg *cmdConfig, flags *docFlags, args []string) error {
	if flags.guide {
		_, err := io.WriteString(stdout, docs.LangGuide)
		return err
	}
	// runtime output is typically discarded but a buffer is maintained in
	// case of an error while loading user source files.
	errbuf := &bytes.Buffer{}
	rtOpts := []lisp.Config{
		lisp.WithStdout(errbuf),
		lisp.WithStderr(errbuf),
		lisp.WithLogger(logger),
		lisp.WithMaxSteps(viper.GetInt64("max-steps")),
	}
	rt, err := lisplib.NewDocRuntime(append(rtOpts, cfg.runtimeOpts...)...)
	if err != nil {
		return fmt.Errorf("runtime initialization failure: %w", err)
	}
	if flags.sourceFile != "" {
		if _, err := rt.LoadFile(flags.sourceFile); err != nil {
			_, _ = stderr.Write(errbuf.Bytes())
			return reportError(stderr, err, false)
		}
	}
	out := bufio.NewWriter(stdout)
	defer out.Flush() //nolint:errcheck // best-effort flush on exit
	switch {
	case flags.missing:
		missing := libhelp.CheckMissing(rt)
		for _, m := range missing {
			fmt.Fprintf(out, "%s %s\n", m.Kind, m.Name) //nolint:errcheck // flushed below
		}
		if len(missing) > 0 {
			return errMissingDocs
		}
		return nil
	case flags.all:
		return libhelp.RenderGlobals(out, rt)
	}
	return libhelp.RenderVar(out, rt, args[0])
}
