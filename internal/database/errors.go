package database

import (
	"errors"
	"fmt"
)

// ConnectionError means no connection to the store could be acquired.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// StatementError wraps a failure reported by the store while running a
// statement. Error returns the driver message unchanged.
type StatementError struct {
	Op  string
	Err error
}

func (e *StatementError) Error() string { return e.Err.Error() }

func (e *StatementError) Unwrap() error { return e.Err }

func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

func IsStatement(err error) bool {
	var target *StatementError
	return errors.As(err, &target)
}
