// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/klisp/klisptest"
	"github.com/luthersystems/klisp/lisp"
	"github.com/stretchr/testify/assert"
)

func TestBuiltins(t *testing.T) {
	tests := klisptest.TestSuite{
		{"comparison", klisptest.TestSequence{
			{`(< 1 2)`, `true`, ``},
			{`(< 2 2)`, `false`, ``},
			{`(> 3 -1)`, `true`, ``},
			{`(<= 2 2)`, `true`, ``},
			{`(>= 1 2)`, `false`, ``},
			{`(< 1 "2")`, `type-error: argument is not an int: "2"`, ``},
		}},
		{"equality", klisptest.TestSequence{
			{`(= 3 3)`, `true`, ``},
			{`(= 'a 'a)`, `true`, ``},
			{`(= 'a 'b)`, `false`, ``},
			{`(= nil '())`, `true`, ``},
			{`(= '(1) '(1))`, `false`, ``},
			{`(= car car)`, `true`, ``},
			{`(= "a" "a")`, `false`, ``},
		}},
		{"arithmetic", klisptest.TestSequence{
			{`(+ 2 3)`, `5`, ``},
			{`(- 2 3)`, `-1`, ``},
			{`(* -4 3)`, `-12`, ``},
			{`(/ 9 3)`, `3`, ``},
			{`(/ 7 -2)`, `-4`, ``},
			{`(/ -8 -3)`, `2`, ``},
			{`(/ 1 0)`, `arithmetic-error: division by zero`, ``},
			{`(inc 41)`, `42`, ``},
			{`(dec 0)`, `-1`, ``},
			{`(inc nil)`, `type-error: argument is not an int: nil`, ``},
		}},
		{"arity", klisptest.TestSequence{
			{`(car)`, `arity-error: car: expected 1 arguments (got 0)`, ``},
			{`(+ 1 2 3)`, `arity-error: +: expected 2 arguments (got 3)`, ``},
			{`(println)`, `nil`, "\n"},
		}},
		{"pairs", klisptest.TestSequence{
			{`(car '(a b))`, `a`, ``},
			{`(cdr '(a b))`, `(b)`, ``},
			{`(cdr '(a))`, `nil`, ``},
			{`(car nil)`, `type-error: car: argument is not a pair: nil`, ``},
			{`(cons? '(a))`, `true`, ``},
			{`(cons? nil)`, `false`, ``},
			{`(nil? nil)`, `true`, ``},
			{`(nil? '())`, `true`, ``},
			{`(nil? false)`, `false`, ``},
			{`(symbol? 'a)`, `true`, ``},
			{`(symbol? "a")`, `false`, ``},
		}},
		{"println", klisptest.TestSequence{
			{`(println "a" 1 'b)`, `nil`, "a1b\n"},
			{`(println '("x" 2))`, `nil`, "(\"x\" 2)\n"},
		}},
		{"vararg and apply", klisptest.TestSequence{
			{`(def list (vararg (fn (args) args)))`, `<builtin vararg>`, ``},
			{`(list 1 2 3)`, `(1 2 3)`, ``},
			{`(list)`, `nil`, ``},
			{`(apply + '(1 2))`, `3`, ``},
			{`(apply (fn (a b) (- a b)) (list 10 4))`, `6`, ``},
			{`(apply list '(a b))`, `(a b)`, ``},
			{`(apply car 1)`, `type-error: apply: second argument is not a list: 1`, ``},
			{`(vararg 1)`, `type-error: vararg: argument is not a function: 1`, ``},
		}},
		{"die", klisptest.TestSequence{
			{`(die)`, `die`, ``},
			{`(die "bad value: " '(1 2))`, `die: bad value: (1 2)`, ``},
		}},
	}
	klisptest.RunTestSuite(t, tests)
}

func TestBuiltinDocs(t *testing.T) {
	for _, fn := range lisp.DefaultBuiltins() {
		fd := fn.FunData()
		if assert.NotNil(t, fd) {
			assert.True(t, fd.IsBuiltin(), fd.Name)
			assert.NotEmpty(t, fd.Doc, fd.Name)
		}
	}
	assert.Equal(t, "(cons first rest)", lisp.DefaultBuiltins()[indexOf(t, "cons")].FunData().Usage())
}

func indexOf(t *testing.T, name string) int {
	for i, fn := range lisp.DefaultBuiltins() {
		if fn.FunData().Name == name {
			return i
		}
	}
	t.Fatalf("no builtin %s", name)
	return -1
}

func BenchmarkFactorial(b *testing.B) {
	klisptest.RunBenchmark(b, `
	(def fact (fn (n) (if (<= n 1) 1 (* n (fact (dec n))))))
	(fact 20)
	`)
}
