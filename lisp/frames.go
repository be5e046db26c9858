// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"log"
	"unicode/utf8"
)

// EvalExpr evaluates Expr in Env.  The incoming value is ignored.
type EvalExpr struct {
	Env  *Env
	Expr *LVal
}

func (k *EvalExpr) Step(rt *Runtime, _ *LVal, s *Stack) (*LVal, *Stack, error) {
	return rt.evalOne(k.Env, k.Expr, s)
}

func (k *EvalExpr) String() string {
	return "eval " + abbrev(k.Expr)
}

// EvalApply evaluates the argument expressions of a function call.  The
// function and the arguments evaluated so far are held beneath it on the
// stack as Count PushedValue frames.  The incoming value is the most recently
// evaluated operand.
type EvalApply struct {
	Env   *Env
	Exprs *LVal
	Count int
}

func (k *EvalApply) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	if k.Exprs.Type == LPair {
		s = s.Push(&PushedValue{Val: v})
		s = s.Push(&EvalApply{Env: k.Env, Exprs: k.Exprs.Cells[1], Count: k.Count + 1})
		s = s.Push(&EvalExpr{Env: k.Env, Expr: k.Exprs.Cells[0]})
		return Nil(), s, nil
	}
	if !k.Exprs.IsNil() {
		return nil, nil, malformedf("improper argument list: %v", k.Exprs)
	}
	fun := v
	args := Nil()
	if k.Count > 0 {
		args = Cons(v, args)
		for i := 0; i < k.Count-1; i++ {
			var arg *LVal
			arg, s = popValue(s)
			args = Cons(arg, args)
		}
		fun, s = popValue(s)
	}
	if fun.Type != LFun {
		return nil, nil, malformedf("not a function: %v", fun)
	}
	if rt.profiling() {
		return rt.invokeProfiled(fun, args, s)
	}
	return fun.FunData().Invoke(rt, args, s)
}

func (k *EvalApply) String() string {
	return fmt.Sprintf("apply [%d evaluated] %s", k.Count, abbrev(k.Exprs))
}

func popValue(s *Stack) (*LVal, *Stack) {
	k, rest := s.Pop()
	pv, ok := k.(*PushedValue)
	if !ok {
		log.Panicf("inconsistent stack: expected a pushed value, found %v", k)
	}
	return pv.Val, rest
}

// PushedValue holds an evaluated operand while the remaining operands of a
// call are evaluated.  It is consumed by EvalApply and passes values through
// unchanged if ever stepped.
type PushedValue struct {
	Val *LVal
}

func (k *PushedValue) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	return v, s, nil
}

func (k *PushedValue) String() string {
	return "value " + abbrev(k.Val)
}

// DoFrame evaluates Body in sequence and produces the value of the last
// expression.  An empty body produces nil.
type DoFrame struct {
	Env  *Env
	Body *LVal
}

func (k *DoFrame) Step(rt *Runtime, _ *LVal, s *Stack) (*LVal, *Stack, error) {
	if k.Body.IsNil() {
		return Nil(), s, nil
	}
	expr, err := first(k.Body)
	if err != nil {
		return nil, nil, err
	}
	next := k.Body.Cells[1]
	if !next.IsNil() {
		s = s.Push(&DoFrame{Env: k.Env, Body: next})
	}
	return Nil(), s.Push(&EvalExpr{Env: k.Env, Expr: expr}), nil
}

func (k *DoFrame) String() string {
	return "do " + abbrev(k.Body)
}

// DefFrame stores the incoming value in the global table under Sym.  An
// anonymous closure takes the name of the first symbol it is bound to.
type DefFrame struct {
	Sym *LVal
}

func (k *DefFrame) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	if fd := v.FunData(); fd != nil && !fd.IsBuiltin() && fd.Name == "" {
		fd.Name = k.Sym.Str
	}
	rt.Globals.Define(k.Sym, v)
	return v, s, nil
}

func (k *DefFrame) String() string {
	return "def " + k.Sym.Str
}

// IfFrame chooses a branch based on the truthiness of the incoming value.
type IfFrame struct {
	Env  *Env
	Then *LVal
	Else *LVal
}

func (k *IfFrame) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	branch := k.Else
	if v.Truthy() {
		branch = k.Then
	}
	return Nil(), s.Push(&EvalExpr{Env: k.Env, Expr: branch}), nil
}

func (k *IfFrame) String() string {
	return fmt.Sprintf("if %s %s", abbrev(k.Then), abbrev(k.Else))
}

// CondFrame receives the value of a clause test.  Clauses begins with the
// result expression paired with that test, followed by the remaining
// test/result pairs.
type CondFrame struct {
	Env     *Env
	Clauses *LVal
}

func (k *CondFrame) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	if v.Truthy() {
		result, err := first(k.Clauses)
		if err != nil {
			return nil, nil, err
		}
		return Nil(), s.Push(&EvalExpr{Env: k.Env, Expr: result}), nil
	}
	next, err := rest(k.Clauses)
	if err != nil {
		return nil, nil, err
	}
	if next.IsNil() {
		return Nil(), s, nil
	}
	test, err := first(next)
	if err != nil {
		return nil, nil, err
	}
	s = s.Push(&CondFrame{Env: k.Env, Clauses: next.Cells[1]})
	return Nil(), s.Push(&EvalExpr{Env: k.Env, Expr: test}), nil
}

func (k *CondFrame) String() string {
	return "cond " + abbrev(k.Clauses)
}

// LetFrame binds Sym to the incoming value and then evaluates the next
// binding, or the body once Bindings is exhausted.  Each binding expression
// sees every binding before it.
type LetFrame struct {
	Env      *Env
	Sym      *LVal
	Bindings *LVal
	Body     *LVal
}

func (k *LetFrame) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	env := k.Env.Extend(k.Sym, v)
	if k.Bindings.IsNil() {
		return Nil(), s.Push(&DoFrame{Env: env, Body: k.Body}), nil
	}
	return pushBinding(env, k.Bindings, k.Body, s)
}

func (k *LetFrame) String() string {
	return "let " + k.Sym.String()
}

// pushBinding schedules evaluation of the first binding in bindings.
func pushBinding(env *Env, bindings, body *LVal, s *Stack) (*LVal, *Stack, error) {
	sym, err := first(bindings)
	if err != nil {
		return nil, nil, err
	}
	expr, err := second(bindings)
	if err != nil {
		return nil, nil, err
	}
	s = s.Push(&LetFrame{Env: env, Sym: sym, Bindings: bindings.Cells[1].Cells[1], Body: body})
	return Nil(), s.Push(&EvalExpr{Env: env, Expr: expr}), nil
}

// ResolveFrame looks the incoming symbol up in the global table, ignoring
// lexical bindings.
type ResolveFrame struct{}

func (k *ResolveFrame) Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error) {
	if v.Type != LSymbol {
		return nil, nil, malformedf("resolve: expected a symbol, found %v", v)
	}
	val, err := rt.Globals.Resolve(v)
	if err != nil {
		return nil, nil, err
	}
	return val, s, nil
}

func (k *ResolveFrame) String() string {
	return "resolve"
}

const abbrevLen = 60

func abbrev(v *LVal) string {
	str := v.String()
	if len(str) <= abbrevLen {
		return str
	}
	n := abbrevLen - 3
	for n > 0 && !utf8.RuneStart(str[n]) {
		n--
	}
	return str[:n] + "..."
}
