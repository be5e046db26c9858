// Copyright © 2018 The ELPS authors

package lisp

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// contextCheckInterval is the number of steps between checks of the
// evaluation context.
const contextCheckInterval = 256

// Eval evaluates expr in an empty lexical environment and returns its value.
func (rt *Runtime) Eval(expr *LVal) (*LVal, error) {
	return rt.EvalContext(rt.context(), expr)
}

// EvalContext evaluates expr in an empty lexical environment.  Evaluation is
// driven by a single loop that pops a frame off the continuation stack and
// steps it with the current value until the stack is empty, so the depth of
// the evaluated program never grows the Go call stack.
func (rt *Runtime) EvalContext(ctx context.Context, expr *LVal) (*LVal, error) {
	debug := rt.Logger.IsLevelEnabled(logrus.DebugLevel)
	if debug {
		rt.Logger.WithField("expr", abbrev(expr)).Debug("evaluation start")
	}
	if err := ctx.Err(); err != nil {
		return nil, rt.fail(Errorf(CondContextCancelled, "%w", err), nil, nil)
	}
	var steps int64
	v, s, err := rt.evalOne(nil, expr, nil)
	if err != nil {
		return nil, rt.fail(err, &EvalExpr{Expr: expr}, nil)
	}
	for s != nil {
		steps++
		if rt.MaxSteps > 0 && steps > rt.MaxSteps {
			rt.steps = steps
			err = Errorf(CondStepLimitExceeded, "%w: %d", ErrStepLimitExceeded, rt.MaxSteps)
			return nil, rt.fail(err, nil, s)
		}
		if steps%contextCheckInterval == 0 {
			if cerr := ctx.Err(); cerr != nil {
				rt.steps = steps
				return nil, rt.fail(Errorf(CondContextCancelled, "%w", cerr), nil, s)
			}
		}
		k, pending := s.Pop()
		v, s, err = k.Step(rt, v, pending)
		if err != nil {
			rt.steps = steps
			return nil, rt.fail(err, k, pending)
		}
	}
	rt.steps = steps
	if debug {
		rt.Logger.WithFields(logrus.Fields{
			"steps":  steps,
			"result": abbrev(v),
		}).Debug("evaluation complete")
	}
	return v, nil
}

// fail attaches the failing frame and the pending stack to err and closes
// any profiler spans left open on the stack.
func (rt *Runtime) fail(err error, k Frame, s *Stack) error {
	var lerr *ErrorVal
	if !errors.As(err, &lerr) {
		lerr = &ErrorVal{Condition: "error", Message: err.Error(), Err: err}
		err = lerr
	}
	if lerr.Stack == nil && lerr.Frame == nil {
		lerr.Frame = k
		lerr.Stack = s
	}
	for c := s; c != nil; c = c.Prev {
		if pe, ok := c.Frame.(*profileEnd); ok {
			pe.stop()
		}
	}
	rt.Logger.WithFields(logrus.Fields{
		"condition": lerr.Condition,
		"depth":     s.Len(),
	}).WithError(err).Debug("evaluation failed")
	return err
}

// evalOne evaluates expr without suspending when possible.  Symbols and
// self-evaluating atoms produce a value immediately; lists push the frames
// needed to evaluate them.
func (rt *Runtime) evalOne(env *Env, expr *LVal, s *Stack) (*LVal, *Stack, error) {
	switch expr.Type {
	case LPair:
		head := expr.Cells[0]
		if head.Type == LSymbol && head.Form != FormNone {
			return rt.evalSpecial(env, head.Form, expr.Cells[1], s)
		}
		s = s.Push(&EvalApply{Env: env, Exprs: expr.Cells[1]})
		return Nil(), s.Push(&EvalExpr{Env: env, Expr: head}), nil
	case LSymbol:
		v, err := env.Lookup(rt.Globals, expr)
		if err != nil {
			return nil, nil, err
		}
		return v, s, nil
	default:
		return expr, s, nil
	}
}

// evalSpecial pushes the frames for a reserved form.  Args is the
// unevaluated tail of the form.
func (rt *Runtime) evalSpecial(env *Env, form SpecialForm, args *LVal, s *Stack) (*LVal, *Stack, error) {
	switch form {
	case FormQuote:
		v, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		return v, s, nil
	case FormIf:
		test, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		branches, err := rest(args)
		if err != nil {
			return nil, nil, err
		}
		then, err := first(branches)
		if err != nil {
			return nil, nil, err
		}
		els, err := second(branches)
		if err != nil {
			return nil, nil, err
		}
		s = s.Push(&IfFrame{Env: env, Then: then, Else: els})
		return Nil(), s.Push(&EvalExpr{Env: env, Expr: test}), nil
	case FormDo:
		return Nil(), s.Push(&DoFrame{Env: env, Body: args}), nil
	case FormDef:
		sym, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		if sym.Type != LSymbol {
			return nil, nil, malformedf("def: expected a symbol, found %v", sym)
		}
		expr, err := second(args)
		if err != nil {
			return nil, nil, err
		}
		s = s.Push(&DefFrame{Sym: sym})
		return Nil(), s.Push(&EvalExpr{Env: env, Expr: expr}), nil
	case FormCond:
		if args.IsNil() {
			return Nil(), s, nil
		}
		test, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		s = s.Push(&CondFrame{Env: env, Clauses: args.Cells[1]})
		return Nil(), s.Push(&EvalExpr{Env: env, Expr: test}), nil
	case FormResolve:
		expr, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		s = s.Push(&ResolveFrame{})
		return Nil(), s.Push(&EvalExpr{Env: env, Expr: expr}), nil
	case FormLet:
		bindings, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		body := args.Cells[1]
		if bindings.IsNil() {
			return Nil(), s.Push(&DoFrame{Env: env, Body: body}), nil
		}
		return pushBinding(env, bindings, body, s)
	case FormFn:
		params, err := first(args)
		if err != nil {
			return nil, nil, err
		}
		tail := args.Cells[1]
		fn := Lambda(env, params, Cons(rt.Symbols.Intern("do"), tail))
		// A leading string in a body of two or more forms is documentation.
		if tail.Type == LPair && tail.Cells[0].Type == LString && tail.Cells[1].Type == LPair {
			fn.FunData().Doc = tail.Cells[0].Str
		}
		return fn, s, nil
	}
	return nil, nil, malformedf("unknown special form %d", form)
}
