// Copyright © 2018 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/klisp/lisp"
	"github.com/luthersystems/klisp/parser"
	"github.com/luthersystems/klisp/parser/token"
	"github.com/sirupsen/logrus"
)

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
	noHistory   bool
	runtimeOpts []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.  Values, errors and
// anything the session prints are written to stderr.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file that input history is persisted in.  An
// empty path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
		c.noHistory = path == ""
	}
}

// WithRuntimeConfig passes opts to the runtime created by RunRepl.
func WithRuntimeConfig(opts ...lisp.Config) Option {
	return func(c *config) {
		c.runtimeOpts = append(c.runtimeOpts, opts...)
	}
}

// RunRepl runs a simple repl in a fresh runtime.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	rtOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}
	if cfg.stderr != nil {
		rtOpts = append(rtOpts,
			lisp.WithStdout(cfg.stderr),
			lisp.WithStderr(cfg.stderr))
	}
	rtOpts = append(rtOpts, cfg.runtimeOpts...)
	rt, err := lisp.NewRuntime(rtOpts...)
	if err != nil {
		errlnf("Runtime initialization failure: %v", err)
		os.Exit(1)
	}
	RunRuntime(rt, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunRuntime runs a simple repl evaluating input in rt.  Input lines are
// accumulated until they hold only complete forms; cont is the prompt shown
// while a form is incomplete.
func RunRuntime(rt *lisp.Runtime, prompt, cont string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		rt.Stderr = cfg.stderr
	}
	history := cfg.historyFile
	if history == "" && !cfg.noHistory {
		history = historyPath()
	}
	ensureHistoryFilePermissions(history)

	rlCfg := &readline.Config{
		Stdout:            rt.Stderr,
		Stderr:            rt.Stderr,
		Prompt:            prompt,
		HistoryFile:       history,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{rt: rt},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	reader := parser.NewReader(parser.WithSymbolTable(rt.Symbols))
	var pending strings.Builder
	for {
		line, err := rl.ReadLine()
		if err == readline.ErrInterrupt {
			pending.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			pending.WriteString(line)
			if strings.TrimSpace(pending.String()) != "" {
				evalInput(rt, reader, pending.String())
			}
			return
		}
		pending.WriteString(line)
		pending.WriteByte('\n')
		if strings.TrimSpace(pending.String()) == "" {
			pending.Reset()
			continue
		}
		if evalInput(rt, reader, pending.String()) {
			rl.SetPrompt(cont)
			continue
		}
		pending.Reset()
		rl.SetPrompt(prompt)
	}
}

// evalInput reads every form in input and evaluates them in order, printing
// each value.  It returns true without evaluating anything if input ends
// inside a form.
func evalInput(rt *lisp.Runtime, reader *parser.Reader, input string) (incomplete bool) {
	s := token.NewPushbackReader("stdin", strings.NewReader(input))
	var forms []*lisp.LVal
	for {
		form, err := reader.ReadForm(s)
		if err == lisp.ErrEndOfInput {
			break
		}
		if errors.Is(err, lisp.ErrEndOfInput) {
			return true
		}
		if err != nil {
			fmt.Fprintln(rt.Stderr, err) //nolint:errcheck // best-effort error display
			return false
		}
		forms = append(forms, form)
	}
	for _, form := range forms {
		v, err := rt.Eval(form)
		if err != nil {
			rt.Logger.WithFields(logrus.Fields{"steps": rt.Steps()}).Debug("repl evaluation failed")
			renderError(rt.Stderr, err)
			return false
		}
		fmt.Fprintln(rt.Stderr, v) //nolint:errcheck // best-effort REPL output
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".klisp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
