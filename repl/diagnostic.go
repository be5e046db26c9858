// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/klisp/lisp"
)

// renderError writes err and the frame that raised it.  The pending stack is
// summarized by its depth since interactive input rarely needs the full
// trace.
func renderError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err) //nolint:errcheck // best-effort error display
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		return
	}
	if lerr.Frame != nil {
		fmt.Fprintf(w, "  in %v\n", lerr.Frame) //nolint:errcheck // best-effort error display
	}
	if n := lerr.Stack.Len(); n > 0 {
		fmt.Fprintf(w, "  %d pending frames\n", n) //nolint:errcheck // best-effort error display
	}
	if errors.Is(err, lisp.ErrUnboundSymbol) {
		fmt.Fprintln(w, "  note: press tab to complete bound symbols") //nolint:errcheck // best-effort error display
	}
}
