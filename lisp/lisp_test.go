// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/klisp/klisptest"
)

func TestEval(t *testing.T) {
	tests := klisptest.TestSuite{
		{"self-evaluating atoms", klisptest.TestSequence{
			{`3`, `3`, ``},
			{`-12`, `-12`, ``},
			{`"abc"`, `"abc"`, ``},
			{`nil`, `nil`, ``},
			{`true`, `true`, ``},
			{`false`, `false`, ``},
		}},
		{"application", klisptest.TestSequence{
			{`(+ 1 2)`, `3`, ``},
			{`(+ (* 2 3) (- 10 4))`, `12`, ``},
			{`(/ 7 2)`, `3`, ``},
			{`(/ -7 2)`, `-4`, ``},
			{`((fn (x) (* x x)) 4)`, `16`, ``},
			{`((fn () 5))`, `5`, ``},
		}},
		{"quote", klisptest.TestSequence{
			{`'a`, `a`, ``},
			{`'(1 2 3)`, `(1 2 3)`, ``},
			{`(quote (a [b c]))`, `(a (b c))`, ``},
			{`''a`, `(quote a)`, ``},
		}},
		{"if", klisptest.TestSequence{
			{`(if nil 1 2)`, `2`, ``},
			{`(if false 1 2)`, `2`, ``},
			{`(if 0 1 2)`, `1`, ``},
			{`(if '() 1 2)`, `2`, ``},
			{`(if "" 1 2)`, `1`, ``},
			{`(if true (println "then") (println "else"))`, `nil`, "then\n"},
		}},
		{"do", klisptest.TestSequence{
			{`(do 1 2 3)`, `3`, ``},
			{`(do)`, `nil`, ``},
			{`(do (println "a") (println "b") 7)`, `7`, "a\nb\n"},
		}},
		{"let", klisptest.TestSequence{
			{`(let (x 1 y 2) (+ x y))`, `3`, ``},
			{`(let (x 1 x 2) x)`, `2`, ``},
			{`(let (x 1 y (+ x 1)) y)`, `2`, ``},
			{`(let [x 1] (println x) x)`, `1`, "1\n"},
			{`(let () 4)`, `4`, ``},
			{`(let (x 1))`, `nil`, ``},
		}},
		{"def and resolve", klisptest.TestSequence{
			{`(def inc2 (fn (n) (+ n 2)))`, `<lambda>`, ``},
			{`(inc2 5)`, `7`, ``},
			{`(= (resolve 'inc2) inc2)`, `true`, ``},
			{`(def x 10)`, `10`, ``},
			{`(let (x 1) (resolve 'x))`, `10`, ``},
			{`(let (x 1) (def y x))`, `1`, ``},
			{`y`, `1`, ``},
		}},
		{"cond", klisptest.TestSequence{
			{`(cond false 1 false 2 true 3)`, `3`, ``},
			{`(cond false 1)`, `nil`, ``},
			{`(cond)`, `nil`, ``},
			{`(cond 1 (println "first") true (println "second"))`, `nil`, "first\n"},
		}},
		{"lists", klisptest.TestSequence{
			{`(cons 1 (cons 2 nil))`, `(1 2)`, ``},
			{`(car (cdr (cons 1 (cons 2 nil))))`, `2`, ``},
			{`(cons 1 2)`, `(1 . 2)`, ``},
			{`(cons 1 (cons 2 3))`, `(1 2 . 3)`, ``},
		}},
		{"closures", klisptest.TestSequence{
			{`(def adder (fn (n) (fn (m) (+ n m))))`, `<lambda>`, ``},
			{`(def add3 (adder 3))`, `<lambda>`, ``},
			{`(add3 4)`, `7`, ``},
			{`(let (n 100) (add3 1))`, `4`, ``},
			{`(def n 50)`, `50`, ``},
			{`(add3 1)`, `4`, ``},
		}},
		{"recursion", klisptest.TestSequence{
			{`(def fact (fn (n) (if (<= n 1) 1 (* n (fact (dec n))))))`, `<lambda>`, ``},
			{`(fact 10)`, `3628800`, ``},
			{`(def even? (fn (n) (if (= n 0) true (odd? (dec n)))))`, `<lambda>`, ``},
			{`(def odd? (fn (n) (if (= n 0) false (even? (dec n)))))`, `<lambda>`, ``},
			{`(even? 1001)`, `false`, ``},
		}},
		{"errors", klisptest.TestSequence{
			{`undefined-thing`, `unbound-symbol: undefined-thing`, ``},
			{`(resolve 'undefined-thing)`, `unbound-symbol: undefined-thing`, ``},
			{`(let (x 1) (resolve 'x))`, `unbound-symbol: x`, ``},
			{`(if true)`, `malformed-form: expected a pair, found nil`, ``},
			{`(quote)`, `malformed-form: expected a pair, found nil`, ``},
			{`(1 2)`, `malformed-form: not a function: 1`, ``},
			{`((fn (x) x) 1 2)`, `malformed-form: too many arguments to <lambda>`, ``},
			{`((fn (x y) y) 1)`, `unbound-symbol: y`, ``},
			{`(def 1 2)`, `malformed-form: def: expected a symbol, found 1`, ``},
			{`(resolve 1)`, `malformed-form: resolve: expected a symbol, found 1`, ``},
			{`(cond false 1 true)`, `malformed-form: expected a pair, found nil`, ``},
			{`(die "boom " 1)`, `die: boom 1`, ``},
		}},
	}
	klisptest.RunTestSuite(t, tests)
}
