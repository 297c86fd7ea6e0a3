package records

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewRecordRepository returns the go-repository-bun repository for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.Key
		},
	})
}

// BunStore persists records through bun. Point reads go through the
// optional go-repository-cache layer; filtered listings always hit the
// database.
type BunStore struct {
	base   repository.Repository[*Record]
	cached repository.Repository[*Record]
}

func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	base := NewRecordRepository(db)
	cached := base
	if cacheService != nil && keySerializer != nil {
		cached = repositorycache.New(base, cacheService, keySerializer)
	}
	return &BunStore{base: base, cached: cached}
}

func (s *BunStore) Find(ctx context.Context, query Query) ([]*Record, error) {
	records, _, err := s.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.Where("?TableAlias.entity_type = ?", query.EntityType)
		if query.ActiveOnly {
			q = q.Where("?TableAlias.is_active = ?", true)
		}
		switch {
		case len(query.ParentIDs) > 0:
			q = q.Where("?TableAlias.parent_id IN (?)", bun.In(query.ParentIDs))
		case query.RootsOnly:
			q = q.Where("?TableAlias.parent_id IS NULL")
		}
		return q.OrderExpr("?TableAlias.sort_order ASC").OrderExpr("?TableAlias.id ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("records: find %s: %w", query.EntityType, err)
	}
	return records, nil
}

func (s *BunStore) FindOne(ctx context.Context, entityType string, id uuid.UUID) (*Record, error) {
	record, err := s.cached.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, entityType, id.String())
	}
	if record.EntityType != entityType {
		return nil, &NotFoundError{Entity: entityType, Key: id.String()}
	}
	return record, nil
}

func (s *BunStore) FindByKey(ctx context.Context, entityType, key string) (*Record, error) {
	records, _, err := s.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.entity_type = ?", entityType).
				Where("?TableAlias.key = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, entityType, key)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Entity: entityType, Key: key}
	}
	return records[0], nil
}

func (s *BunStore) Save(ctx context.Context, record *Record) (*Record, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrRecordInvalid
	}
	_, err := s.cached.GetByID(ctx, record.ID.String())
	switch {
	case err == nil:
		updated, err := s.cached.Update(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("records: update %s: %w", record.EntityType, err)
		}
		return updated, nil
	case goerrors.IsCategory(err, repository.CategoryDatabaseNotFound):
		created, err := s.cached.Create(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("records: create %s: %w", record.EntityType, err)
		}
		return created, nil
	default:
		return nil, mapRepositoryError(err, record.EntityType, record.ID.String())
	}
}

func (s *BunStore) Delete(ctx context.Context, entityType string, id uuid.UUID) error {
	if _, err := s.FindOne(ctx, entityType, id); err != nil {
		return err
	}
	if err := s.cached.Delete(ctx, &Record{ID: id}); err != nil {
		return fmt.Errorf("records: delete %s: %w", entityType, err)
	}
	return nil
}

func mapRepositoryError(err error, entity, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Entity: entity, Key: key}
	}
	return fmt.Errorf("records: %s repository: %w", entity, err)
}
