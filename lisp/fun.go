// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"strings"
)

// LBuiltin implements a builtin function.  A builtin receives its evaluated
// arguments as a list.  It may compute a value and return s unchanged, or it
// may push frames onto s to schedule further evaluation, in which case the
// returned value is passed to the topmost pushed frame.
type LBuiltin func(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error)

// FunData is the payload of an LFun.  A FunData is either a builtin (Builtin
// is non-nil) or a closure (Params, Body and Env describe a fn form).
type FunData struct {
	Name string

	// Builtin fields
	Builtin LBuiltin
	Formals []string
	Doc     string

	// Closure fields
	Env    *Env
	Params *LVal
	Body   *LVal
}

// VarArgSymbol marks the remaining formals of a builtin as optional.  Any
// number of arguments may be passed in their place.
const VarArgSymbol = "&rest"

// Builtin returns an LFun for a builtin named name.  The formals are used for
// arity checking and documentation.
func Builtin(name string, formals []string, fn LBuiltin, doc string) *LVal {
	return &LVal{
		Type: LFun,
		Native: &FunData{
			Name:    name,
			Builtin: fn,
			Formals: formals,
			Doc:     doc,
		},
	}
}

// Lambda returns a closure over env.  Body is evaluated in env extended with
// params bound to the actual arguments.
func Lambda(env *Env, params, body *LVal) *LVal {
	return &LVal{
		Type: LFun,
		Native: &FunData{
			Env:    env,
			Params: params,
			Body:   body,
		},
	}
}

// FunData returns the function payload of v or nil if v is not a function.
func (v *LVal) FunData() *FunData {
	if v.Type != LFun {
		return nil
	}
	fd, _ := v.Native.(*FunData)
	return fd
}

// IsBuiltin returns true if fd is implemented in Go.
func (fd *FunData) IsBuiltin() bool {
	return fd.Builtin != nil
}

// Invoke calls the function with args, a proper list of evaluated values.
// Closures do not evaluate their body directly.  They push it onto s so the
// trampoline evaluates it.
func (fd *FunData) Invoke(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	if fd.Builtin != nil {
		if err := fd.checkArity(args); err != nil {
			return nil, nil, err
		}
		return fd.Builtin(rt, args, s)
	}
	env := fd.Env
	params := fd.Params
	for ; args.Type == LPair; args = args.Cells[1] {
		sym, err := first(params)
		if err != nil {
			return nil, nil, malformedf("too many arguments to %v", fd)
		}
		env = env.Extend(sym, args.Cells[0])
		params = params.Cells[1]
	}
	return Nil(), s.Push(&EvalExpr{Env: env, Expr: fd.Body}), nil
}

func (fd *FunData) checkArity(args *LVal) error {
	required := len(fd.Formals)
	variadic := false
	for i, f := range fd.Formals {
		if f == VarArgSymbol {
			required = i
			variadic = true
			break
		}
	}
	n := args.Len()
	if n < required || (!variadic && n > required) {
		return Errorf(CondArity, "%s: expected %d arguments (got %d)", fd.Name, required, n)
	}
	return nil
}

// Usage returns a call template such as "(cons head tail)".
func (fd *FunData) Usage() string {
	if !fd.IsBuiltin() {
		return fmt.Sprintf("(fn %v ...)", fd.Params)
	}
	parts := append([]string{fd.Name}, fd.Formals...)
	return "(" + strings.Join(parts, " ") + ")"
}

func (fd *FunData) String() string {
	if fd.IsBuiltin() {
		return "<builtin " + fd.Name + ">"
	}
	return "<lambda>"
}
