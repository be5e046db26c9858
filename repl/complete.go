// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/klisp/lisp"
)

// wordBreaks end the symbol being completed.
const wordBreaks = " \t\n([',"

// symbolCompleter implements readline.AutoCompleter over the reserved forms
// and the global bindings of a runtime.
type symbolCompleter struct {
	rt *lisp.Runtime
}

// Do returns the suffixes that complete the symbol ending at pos and the
// length of the typed part, in runes.
func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !strings.ContainsRune(wordBreaks, line[start-1]) {
		start--
	}
	if start == pos {
		return nil, 0
	}
	prefix := string(line[start:pos])
	var suffixes [][]rune
	for _, name := range c.candidates(prefix) {
		suffixes = append(suffixes, []rune(strings.TrimPrefix(name, prefix)))
	}
	if len(suffixes) == 0 {
		return nil, 0
	}
	return suffixes, pos - start
}

// candidates returns the sorted, distinct names beginning with prefix.
func (c *symbolCompleter) candidates(prefix string) []string {
	names := append(lisp.SpecialForms(), c.rt.Globals.Symbols()...)
	sort.Strings(names)
	var out []string
	for i, name := range names {
		if i > 0 && names[i-1] == name {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}
