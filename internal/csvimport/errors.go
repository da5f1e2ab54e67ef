package csvimport

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput      = errors.New("csv file is empty or has no header row")
	ErrInvalidEncoding = errors.New("csv file is not valid UTF-8")
)

// InputError rejects an upload before any row is processed.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// RowError is a validation failure of a single data row. The row is skipped and the
// import carries on.
type RowError struct {
	Line int
	Msg  string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// PersistenceError means the batch could not be stored. Nothing from the batch was kept.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
