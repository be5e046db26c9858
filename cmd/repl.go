// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/klisp/repl"
	"github.com/spf13/cobra"
)

var replHistory string

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive klisp REPL",
	Long: `Start an interactive read-eval-print loop.

Input is evaluated once it holds only complete forms; an unfinished form is
continued on the next line.  Line editing, tab completion of bound symbols
and persistent history are supported via readline.  Use Ctrl-D to exit and
Ctrl-C to discard pending input.

Example REPL session:
  klisp> (def square (fn (x) "Returns x squared." (* x x)))
  <lambda>
  klisp> (square 5)
  25
  klisp> (help 'square)
  function (square x)
    Returns x squared.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := []repl.Option{
			repl.WithRuntimeConfig(baseRuntimeConfig()...),
		}
		if cmd.Flags().Changed("history") {
			opts = append(opts, repl.WithHistoryFile(replHistory))
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
	},
}

func init() {
	replCmd.Flags().StringVar(&replHistory, "history", "",
		"History file (default is $HOME/.klisp_history, empty disables history)")
}
