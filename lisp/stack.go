// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
)

// Frame is a unit of pending computation on the continuation stack.  Step
// receives the value produced by the computation above it and returns the
// next value along with the stack evaluation should continue on.
type Frame interface {
	Step(rt *Runtime, v *LVal, s *Stack) (*LVal, *Stack, error)
}

// Stack is a persistent continuation stack.  Push never modifies the
// receiver so stacks may share tails.  The nil *Stack is the empty stack.
type Stack struct {
	Frame Frame
	Prev  *Stack
}

// Push returns a new stack with k on top of s.
func (s *Stack) Push(k Frame) *Stack {
	return &Stack{Frame: k, Prev: s}
}

// Pop returns the top frame of s and the stack beneath it.  Pop panics if s
// is empty.
func (s *Stack) Pop() (Frame, *Stack) {
	if s == nil {
		panic("pop called on an empty stack")
	}
	return s.Frame, s.Prev
}

// Top returns the frame at the top of the stack or nil if s is empty.
func (s *Stack) Top() Frame {
	if s == nil {
		return nil
	}
	return s.Frame
}

// Empty returns true if s has no frames.
func (s *Stack) Empty() bool {
	return s == nil
}

// Len returns the number of frames in s.
func (s *Stack) Len() int {
	n := 0
	for ; s != nil; s = s.Prev {
		n++
	}
	return n
}

// maxDebugFrames limits the frames written by DebugPrint.
const maxDebugFrames = 32

// DebugPrint prints s, top first.
func (s *Stack) DebugPrint(w io.Writer) (int, error) {
	height := s.Len()
	n, err := fmt.Fprintf(w, "Continuation Stack [%d frames -- top first]:\n", height)
	if err != nil {
		return n, err
	}
	indent := "  "
	i := 0
	for c := s; c != nil; c = c.Prev {
		if i == maxDebugFrames {
			_n, err := fmt.Fprintf(w, "%s... %d more\n", indent, height-i)
			return n + _n, err
		}
		_n, err := fmt.Fprintf(w, "%sheight %d: %v\n", indent, height-1-i, c.Frame)
		n += _n
		if err != nil {
			return n, err
		}
		i++
	}
	return n, nil
}
