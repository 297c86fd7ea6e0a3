package records

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownEntity       = errors.New("records: unknown entity type")
	ErrMissingParentFilter = errors.New("records: parent filter required")
	ErrHierarchyCycle      = errors.New("records: parent assignment creates a cycle")
	ErrParentNotAllowed    = errors.New("records: entity does not accept a parent")
	ErrDuplicateKey        = errors.New("records: key already used by another record")
	ErrRecordInvalid       = errors.New("records: record invalid")
)

// NotFoundError reports a missing or inactive record.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// MissingParentFilterError is returned when a listing that must be scoped
// to a parent is requested without one.
type MissingParentFilterError struct {
	Entity string
	Param  string
}

func (e *MissingParentFilterError) Error() string {
	return fmt.Sprintf("parameter %q is required to list %s", e.Param, e.Entity)
}

func (e *MissingParentFilterError) Is(target error) bool {
	return target == ErrMissingParentFilter
}

// IsNotFound reports whether err marks a missing record or entity type.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrUnknownEntity)
}
