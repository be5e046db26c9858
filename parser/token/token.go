// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Location is a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset (starting at 0)
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error that occurred at a known source location.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

// Unwrap returns the underlying error.
func (err *LocationError) Unwrap() error {
	return err.Err
}
