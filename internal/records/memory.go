package records

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process. Records are cloned on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[uuid.UUID]*Record{}}
}

func (m *MemoryStore) Find(_ context.Context, query Query) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Record{}
	for _, record := range m.records {
		if query.Matches(record) {
			out = append(out, record.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *Record) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

func (m *MemoryStore) FindOne(_ context.Context, entityType string, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	if !ok || record.EntityType != entityType {
		return nil, &NotFoundError{Entity: entityType, Key: id.String()}
	}
	return record.Clone(), nil
}

func (m *MemoryStore) FindByKey(_ context.Context, entityType, key string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, record := range m.records {
		if record.EntityType == entityType && record.Key == key && key != "" {
			return record.Clone(), nil
		}
	}
	return nil, &NotFoundError{Entity: entityType, Key: key}
}

func (m *MemoryStore) Save(_ context.Context, record *Record) (*Record, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, ErrRecordInvalid
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[record.ID] = record.Clone()
	return record.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, entityType string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok || record.EntityType != entityType {
		return &NotFoundError{Entity: entityType, Key: id.String()}
	}
	delete(m.records, id)
	return nil
}
