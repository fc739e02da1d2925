package extract

import (
	"errors"
	"fmt"
)

// ErrConnection is matched by every failure to reach the source database.
var ErrConnection = errors.New("database connection failed")

// ConnectionError indicates the database could not be opened or pinged.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to mysql at %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConnection) hold for any ConnectionError.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// IdentifierError reports a table or column name that cannot be quoted safely.
type IdentifierError struct {
	Kind string
	Name string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid %s name %q", e.Kind, e.Name)
}
