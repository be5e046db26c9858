// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/klisp/diagnostic"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/lisp/lisplib"
	"github.com/luthersystems/klisp/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logger  = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "klisp",
	Short: "A small Lisp with an explicit continuation stack",
	Long: `klisp is a minimal Lisp interpreter implemented in Go.  Evaluation runs
on a trampoline over a persistent continuation stack, so tail calls run in
constant space and deep recursion never exhausts the Go stack.

Getting started:
  klisp run file.lisp          Run a Lisp source file
  klisp run -e '(+ 1 2)' -p    Evaluate an expression and print its value
  klisp repl                   Start an interactive REPL
  klisp doc cons               Show documentation for a builtin

Language overview:
  Special forms: quote if do def cond resolve let fn.
  Booleans are the literals true and false.  The empty list () is nil.
  Functions are created with (fn (args) body) and named with def.

Configuration is read from $HOME/.klisp.yaml and KLISP_* environment
variables, e.g. KLISP_MAX_STEPS=100000.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configure()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err) //nolint:errcheck // exiting
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.klisp.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warning",
		`Runtime log level: "debug", "info", "warning" or "error".`)
	rootCmd.PersistentFlags().Int64("max-steps", 0,
		"Maximum number of evaluation steps per top-level form (0 is unlimited).")
	rootCmd.PersistentFlags().String("color", "auto",
		`Control colored error output: "auto", "always", or "never".`)
	bindFlag("log-level")
	bindFlag("max-steps")
	bindFlag("color")

	rootCmd.AddCommand(RunCommand())
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(DocCommand())
}

func bindFlag(name string) {
	if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".klisp" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".klisp")
		}
	}

	viper.SetEnvPrefix("klisp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// configure validates the bound settings and applies them to the command
// logger.
func configure() error {
	if _, err := diagnostic.ParseColorMode(viper.GetString("color")); err != nil {
		return err
	}
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return nil
}

// baseRuntimeConfig returns the configuration shared by every command's
// runtime: the standard reader, the library, the command logger and the
// configured step limit.
func baseRuntimeConfig() []lisp.Config {
	return []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLogger(logger),
		lisp.WithMaxSteps(viper.GetInt64("max-steps")),
		lisplib.WithLibrary(),
	}
}

// errReported marks errors that a command already rendered.
var errReported = errors.New("error reported")

type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() []error { return []error{e.err, errReported} }

// reportError renders err to w as a diagnostic and returns it marked as
// reported.  If trace is true the full continuation stack of an evaluation
// error follows the diagnostic.
func reportError(w io.Writer, err error, trace bool) error {
	mode, perr := diagnostic.ParseColorMode(viper.GetString("color"))
	if perr != nil {
		mode = diagnostic.ColorNever
	}
	r := &diagnostic.Renderer{Color: mode}
	if rerr := r.Render(w, diagnostic.FromError(err)); rerr != nil {
		logger.WithError(rerr).Warn("failed to render error")
	}
	var lerr *lisp.ErrorVal
	if trace && errors.As(err, &lerr) {
		_, _ = lerr.WriteTrace(w)
	}
	return &reportedError{err: err}
}
