// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"io"
)

// CondParse is the condition of errors produced by read-file and load-file
// when their source cannot be parsed.
const CondParse = "parse-error"

type langBuiltin struct {
	name    string
	formals []string
	fun     LBuiltin
	doc     string
}

var langBuiltins = []*langBuiltin{
	{"println", []string{VarArgSymbol, "values"}, builtinPrintln,
		"Writes values to standard output followed by a newline.  Strings are written without quotes."},
	{"load-file", []string{"path"}, builtinLoadFile,
		"Reads the file at path and evaluates its forms in sequence in an empty lexical environment.  Returns the value of the last form."},
	{"read-file", []string{"path"}, builtinReadFile,
		"Reads the file at path and returns its forms, unevaluated, as a single (do ...) form."},
	{"<", []string{"a", "b"}, builtinLT, "Returns true if integer a is less than integer b."},
	{">", []string{"a", "b"}, builtinGT, "Returns true if integer a is greater than integer b."},
	{"<=", []string{"a", "b"}, builtinLEQ, "Returns true if integer a is less than or equal to integer b."},
	{">=", []string{"a", "b"}, builtinGEQ, "Returns true if integer a is greater than or equal to integer b."},
	{"=", []string{"a", "b"}, builtinEqual,
		"Returns true if a and b are equal integers or are the same object.  Symbols with the same name are always the same object."},
	{"car", []string{"pair"}, builtinCar, "Returns the first element of pair."},
	{"cdr", []string{"pair"}, builtinCdr, "Returns the rest of pair."},
	{"cons", []string{"first", "rest"}, builtinCons,
		"Returns a new pair of first and rest.  When rest is a list the result is a list one element longer."},
	{"nil?", []string{"value"}, builtinIsNil, "Returns true if value is nil."},
	{"cons?", []string{"value"}, builtinIsCons, "Returns true if value is a pair."},
	{"symbol?", []string{"value"}, builtinIsSymbol, "Returns true if value is a symbol."},
	{"inc", []string{"n"}, builtinInc, "Returns n plus one."},
	{"dec", []string{"n"}, builtinDec, "Returns n minus one."},
	{"+", []string{"a", "b"}, builtinAdd, "Returns the sum of integers a and b."},
	{"-", []string{"a", "b"}, builtinSub, "Returns integer a minus integer b."},
	{"*", []string{"a", "b"}, builtinMul, "Returns the product of integers a and b."},
	{"/", []string{"a", "b"}, builtinDiv,
		"Returns integer a divided by integer b, rounded toward negative infinity.  Dividing by zero is an error."},
	{"vararg", []string{"fun"}, builtinVarArg,
		"Returns a function that calls fun with a single argument, the list of all arguments it was given."},
	{"apply", []string{"fun", "args"}, builtinApply, "Calls fun with the elements of the list args as its arguments."},
	{"die", []string{VarArgSymbol, "values"}, builtinDie,
		"Aborts evaluation.  The values are included in the error message."},
}

// DefaultBuiltins returns the builtin functions installed in every runtime's
// global table.
func DefaultBuiltins() []*LVal {
	fns := make([]*LVal, len(langBuiltins))
	for i, b := range langBuiltins {
		fns[i] = Builtin(b.name, b.formals, b.fun, b.doc)
	}
	return fns
}

func builtinPrintln(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	var buf bytes.Buffer
	writeDisplay(&buf, args)
	buf.WriteByte('\n')
	if _, err := rt.Stdout.Write(buf.Bytes()); err != nil {
		return nil, nil, Errorf(CondIO, "%w", err)
	}
	return Nil(), s, nil
}

// writeDisplay writes each value of the list vals with strings unquoted.
func writeDisplay(w io.Writer, vals *LVal) {
	for ; vals.Type == LPair; vals = vals.Cells[1] {
		v := vals.Cells[0]
		if v.Type == LString {
			_, _ = io.WriteString(w, v.Str)
		} else {
			_, _ = io.WriteString(w, v.String())
		}
	}
}

func builtinLoadFile(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	path, err := stringArg(args.Cells[0])
	if err != nil {
		return nil, nil, err
	}
	forms, err := rt.readFile(path)
	if err != nil {
		return nil, nil, wrapReadError(err)
	}
	rt.Logger.WithField("path", path).Info("load-file")
	return Nil(), s.Push(&EvalExpr{Expr: forms}), nil
}

func builtinReadFile(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	path, err := stringArg(args.Cells[0])
	if err != nil {
		return nil, nil, err
	}
	forms, err := rt.readFile(path)
	if err != nil {
		return nil, nil, wrapReadError(err)
	}
	return forms, s, nil
}

func wrapReadError(err error) error {
	if _, ok := err.(*ErrorVal); ok {
		return err
	}
	return Errorf(CondParse, "%w", err)
}

func builtinLT(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return compareInts(args, s, func(a, b int) bool { return a < b })
}

func builtinGT(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return compareInts(args, s, func(a, b int) bool { return a > b })
}

func builtinLEQ(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return compareInts(args, s, func(a, b int) bool { return a <= b })
}

func builtinGEQ(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return compareInts(args, s, func(a, b int) bool { return a >= b })
}

func compareInts(args *LVal, s *Stack, cmp func(a, b int) bool) (*LVal, *Stack, error) {
	a, b, err := intArgs(args)
	if err != nil {
		return nil, nil, err
	}
	return Bool(cmp(a, b)), s, nil
}

func builtinEqual(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	a, b := args.Cells[0], args.Cells[1].Cells[0]
	if a.Type == LInt && b.Type == LInt {
		return Bool(a.Int == b.Int), s, nil
	}
	return Bool(a == b), s, nil
}

func builtinCar(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	v := args.Cells[0]
	if v.Type != LPair {
		return nil, nil, Errorf(CondType, "car: argument is not a pair: %v", v)
	}
	return v.Cells[0], s, nil
}

func builtinCdr(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	v := args.Cells[0]
	if v.Type != LPair {
		return nil, nil, Errorf(CondType, "cdr: argument is not a pair: %v", v)
	}
	return v.Cells[1], s, nil
}

func builtinCons(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return Cons(args.Cells[0], args.Cells[1].Cells[0]), s, nil
}

func builtinIsNil(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return Bool(args.Cells[0].IsNil()), s, nil
}

func builtinIsCons(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return Bool(args.Cells[0].Type == LPair), s, nil
}

func builtinIsSymbol(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return Bool(args.Cells[0].Type == LSymbol), s, nil
}

func builtinInc(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	n, err := intArg(args.Cells[0])
	if err != nil {
		return nil, nil, err
	}
	return Int(n + 1), s, nil
}

func builtinDec(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	n, err := intArg(args.Cells[0])
	if err != nil {
		return nil, nil, err
	}
	return Int(n - 1), s, nil
}

func builtinAdd(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return arith(args, s, func(a, b int) int { return a + b })
}

func builtinSub(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return arith(args, s, func(a, b int) int { return a - b })
}

func builtinMul(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	return arith(args, s, func(a, b int) int { return a * b })
}

func builtinDiv(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	a, b, err := intArgs(args)
	if err != nil {
		return nil, nil, err
	}
	if b == 0 {
		return nil, nil, Errorf(CondArithmetic, "division by zero")
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return Int(q), s, nil
}

func arith(args *LVal, s *Stack, op func(a, b int) int) (*LVal, *Stack, error) {
	a, b, err := intArgs(args)
	if err != nil {
		return nil, nil, err
	}
	return Int(op(a, b)), s, nil
}

func builtinVarArg(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	fun := args.Cells[0]
	if fun.Type != LFun {
		return nil, nil, Errorf(CondType, "vararg: argument is not a function: %v", fun)
	}
	wrapped := func(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
		return fun.FunData().Invoke(rt, List(args), s)
	}
	return Builtin("vararg", []string{VarArgSymbol, "args"}, wrapped, ""), s, nil
}

func builtinApply(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	fun := args.Cells[0]
	if fun.Type != LFun {
		return nil, nil, Errorf(CondType, "apply: first argument is not a function: %v", fun)
	}
	lis := args.Cells[1].Cells[0]
	if lis.Type != LPair && !lis.IsNil() {
		return nil, nil, Errorf(CondType, "apply: second argument is not a list: %v", lis)
	}
	if rt.profiling() {
		return rt.invokeProfiled(fun, lis, s)
	}
	return fun.FunData().Invoke(rt, lis, s)
}

func builtinDie(rt *Runtime, args *LVal, s *Stack) (*LVal, *Stack, error) {
	var buf bytes.Buffer
	writeDisplay(&buf, args)
	return nil, nil, Errorf(CondDie, "%s", buf.String())
}

func stringArg(v *LVal) (string, error) {
	if v.Type != LString {
		return "", Errorf(CondType, "argument is not a string: %v", v)
	}
	return v.Str, nil
}

func intArg(v *LVal) (int, error) {
	if v.Type != LInt {
		return 0, Errorf(CondType, "argument is not an int: %v", v)
	}
	return v.Int, nil
}

func intArgs(args *LVal) (int, int, error) {
	a, err := intArg(args.Cells[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := intArg(args.Cells[1].Cells[0])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
