// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/lisp/x/profiler"
	"github.com/spf13/cobra"
)

type runFlags struct {
	expression bool
	print      bool
	callgrind  string
	cpuProfile string
	trace      bool
}

// RunCommand returns the run command.  Options add runtime configuration
// for embedders that ship their own builtins.
func RunCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run lisp code",
		Long: `Run lisp code supplied via the command line or files.

Each argument is evaluated in order in a single runtime, so definitions made
by one file are visible to the next.  An argument ending in "/..." expands to
every .lisp file below that directory.

Examples:
  klisp run prog.lisp
  klisp run -e -p '(def sq (fn (x) (* x x)))' '(sq 12)'
  klisp run --callgrind prog.callgrind prog.lisp
  klisp run --cpuprofile cpu.pprof lib/...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, cfg, &flags, args)
		},
	}
	cmd.Flags().BoolVarP(&flags.expression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false,
		"Print expression values to stdout")
	cmd.Flags().BoolVar(&flags.trace, "trace", false,
		"Print the full continuation stack of evaluation errors")
	cmd.Flags().StringVar(&flags.callgrind, "callgrind", "",
		"Write a callgrind profile of lisp function calls to this file")
	cmd.Flags().StringVar(&flags.cpuProfile, "cpuprofile", "",
		"Write a Go CPU profile labeled with lisp function names to this file")
	return cmd
}

func runExec(cmd *cobra.Command, cfg *cmdConfig, flags *runFlags, args []string) (err error) {
	out := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()
	rtOpts := append(baseRuntimeConfig(), lisp.WithStdout(out), lisp.WithStderr(errw))
	rt, err := lisp.NewRuntime(append(rtOpts, cfg.runtimeOpts...)...)
	if err != nil {
		return fmt.Errorf("runtime initialization failure: %w", err)
	}
	stop, err := startProfiling(cmd.Context(), rt, flags)
	if err != nil {
		return err
	}
	defer func() {
		if perr := stop(); perr != nil && err == nil {
			err = perr
		}
	}()

	eval := func(i int, input string) (*lisp.LVal, error) {
		if flags.expression {
			return rt.LoadString(fmt.Sprintf("expr%d", i+1), input)
		}
		return rt.LoadFile(input)
	}
	inputs := args
	if !flags.expression {
		inputs, err = expandArgs(args)
		if err != nil {
			return err
		}
	}
	for i, input := range inputs {
		v, err := eval(i, input)
		if err != nil {
			return reportError(errw, err, flags.trace)
		}
		if flags.print {
			fmt.Fprintln(out, v) //nolint:errcheck // best-effort output
		}
	}
	rt.Logger.WithField("steps", rt.Steps()).Debug("run complete")
	return nil
}

// startProfiling enables the profilers requested by flags.  The returned
// function completes them.
func startProfiling(ctx context.Context, rt *lisp.Runtime, flags *runFlags) (func() error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case flags.callgrind != "" && flags.cpuProfile != "":
		return nil, errors.New("--callgrind and --cpuprofile cannot be combined")
	case flags.callgrind != "":
		f, err := os.Create(flags.callgrind) //#nosec G304
		if err != nil {
			return nil, err
		}
		p := profiler.NewCallgrindProfiler(rt, f)
		if err := p.Enable(); err != nil {
			_ = f.Close()
			return nil, err
		}
		return p.Complete, nil
	case flags.cpuProfile != "":
		f, err := os.Create(flags.cpuProfile) //#nosec G304
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		p := profiler.NewPprofAnnotator(rt, ctx)
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			_ = f.Close()
			return nil, err
		}
		return func() error {
			perr := p.Complete()
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				return err
			}
			return perr
		}, nil
	}
	return func() error { return nil }, nil
}
