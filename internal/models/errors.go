package models

import (
	"errors"
	"fmt"
)

const (
	ReasonMissing = "Missing field"
	ReasonInvalid = "Invalid field"
)

// ValidationError reports a booking field that is absent or malformed.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Field)
}

func (e ValidationError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}
