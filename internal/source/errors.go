package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for the source taxonomy. Callers distinguish them
// with errors.Is: ErrNotFound and ErrMalformedShape are fatal for the
// sweep that needs the input, ErrMalformedRow is scoped to one row.
var (
	ErrNotFound       = errors.New("input not found")
	ErrMalformedRow   = errors.New("malformed row")
	ErrMalformedShape = errors.New("malformed input shape")
)

// RowError records a single skippable row failure with its 1-based
// position in the input, so the reporter can log it and move on.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }
