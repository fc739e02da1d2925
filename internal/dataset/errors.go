package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is matched by every error that means the dataset cannot
// be used at all: missing file, unreadable header, missing required columns.
var ErrDataUnavailable = errors.New("data unavailable")

// UnavailableError reports why a dataset could not be loaded.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return "data unavailable"
	}
	if e.Path != "" {
		return fmt.Sprintf("data unavailable: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("data unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataUnavailable) hold for any UnavailableError.
func (e *UnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// FieldError indicates a malformed value in a single cell. Row is 1-based and
// counts data rows only (the header is not row 1).
type FieldError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var (
	errEmptyValue  = errors.New("empty value")
	errNotNumeric  = errors.New("not a number")
	errNotADate    = errors.New("unrecognized date")
	errExtraFields = errors.New("more fields than header columns")
)
