// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors.  Every error produced by the evaluator, the builtins or
// the reader wraps one of these (or a condition specific cause) so callers
// can classify failures with errors.Is.
var (
	// ErrEndOfInput signals an exhausted character source.  The reader
	// returns it unwrapped when input ends cleanly between forms.
	ErrEndOfInput = errors.New("end of input")
	// ErrUnboundSymbol is wrapped when a symbol has no lexical or global
	// binding.
	ErrUnboundSymbol = errors.New("unbound symbol")
	// ErrMalformedForm is wrapped when a form does not have the structure
	// its evaluation requires.
	ErrMalformedForm = errors.New("malformed form")
	// ErrStepLimitExceeded is wrapped when evaluation runs more steps than
	// the runtime allows.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// Condition names attached to ErrorVal values.
const (
	CondUnboundSymbol     = "unbound-symbol"
	CondMalformedForm     = "malformed-form"
	CondArity             = "arity-error"
	CondType              = "type-error"
	CondArithmetic        = "arithmetic-error"
	CondIO                = "io-error"
	CondDie               = "die"
	CondStepLimitExceeded = "step-limit-exceeded"
	CondContextCancelled  = "context-cancelled"
)

// ErrorVal is an evaluation failure.  The Stack field holds the continuation
// stack that was pending when the failure occurred.
type ErrorVal struct {
	Condition string
	Message   string
	Err       error
	Frame     Frame
	Stack     *Stack
}

// Errorf returns an ErrorVal with the given condition and a formatted
// message.  If an argument is an error and the format uses %w it becomes the
// cause.
func Errorf(condition string, format string, v ...interface{}) *ErrorVal {
	err := fmt.Errorf(format, v...)
	return &ErrorVal{
		Condition: condition,
		Message:   err.Error(),
		Err:       errors.Unwrap(err),
	}
}

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	if e.Message == "" {
		return e.Condition
	}
	return fmt.Sprintf("%s: %s", e.Condition, e.Message)
}

// Unwrap returns the cause of e.
func (e *ErrorVal) Unwrap() error {
	return e.Err
}

// WriteTrace writes the error and the pending continuation stack to w.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Frame != nil {
		if !wrote(fmt.Fprintf(bw, "  in %v\n", e.Frame)) {
			return n, err
		}
	}
	if !wrote(e.Stack.DebugPrint(bw)) {
		return n, err
	}
	return n, bw.Flush()
}

func unboundSymbol(sym *LVal) *ErrorVal {
	return &ErrorVal{
		Condition: CondUnboundSymbol,
		Message:   sym.Str,
		Err:       ErrUnboundSymbol,
	}
}

func malformedf(format string, v ...interface{}) *ErrorVal {
	return &ErrorVal{
		Condition: CondMalformedForm,
		Message:   fmt.Sprintf(format, v...),
		Err:       ErrMalformedForm,
	}
}

// first returns the first element of v or a malformed-form error if v is not
// a pair.
func first(v *LVal) (*LVal, error) {
	if v.Type != LPair {
		return nil, malformedf("expected a pair, found %v", v)
	}
	return v.Cells[0], nil
}

// rest returns the rest of v or a malformed-form error if v is not a pair.
func rest(v *LVal) (*LVal, error) {
	if v.Type != LPair {
		return nil, malformedf("expected a pair, found %v", v)
	}
	return v.Cells[1], nil
}

// second returns the second element of v.
func second(v *LVal) (*LVal, error) {
	r, err := rest(v)
	if err != nil {
		return nil, err
	}
	return first(r)
}
