package records

import (
	"context"

	"github.com/google/uuid"
)

// Store is the storage collaborator behind the service. FindOne and
// FindByKey return *NotFoundError when nothing matches, regardless of the
// active flag; the service decides visibility.
type Store interface {
	Find(ctx context.Context, query Query) ([]*Record, error)
	FindOne(ctx context.Context, entityType string, id uuid.UUID) (*Record, error)
	FindByKey(ctx context.Context, entityType, key string) (*Record, error)
	Save(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, entityType string, id uuid.UUID) error
}
