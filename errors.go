package unicms

import "github.com/goliatone/go-unicms/internal/records"

var (
	ErrUnknownEntity       = records.ErrUnknownEntity
	ErrMissingParentFilter = records.ErrMissingParentFilter
)

type (
	// NotFoundError reports a missing or inactive record.
	NotFoundError = records.NotFoundError
	// MissingParentFilterError names the query parameter a listing needs.
	MissingParentFilterError = records.MissingParentFilterError
)

// IsNotFound reports whether err marks a missing record or entity type.
func IsNotFound(err error) bool {
	return records.IsNotFound(err)
}
