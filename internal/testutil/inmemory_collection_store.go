package testutil

import (
	"context"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

// InMemoryCollectionStore implements collection.Repository
type InMemoryCollectionStore struct {
	*InMemoryStore[*collection.Collection]
}

// NewInMemoryCollectionStore creates a new in-memory collection store
func NewInMemoryCollectionStore() *InMemoryCollectionStore {
	return &InMemoryCollectionStore{
		InMemoryStore: NewInMemoryStore[*collection.Collection](),
	}
}

func copyCollection(c *collection.Collection) *collection.Collection {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryCollectionStore) Create(ctx context.Context, c *collection.Collection) error {
	if c == nil {
		return ierr.NewError("collection cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCollection(c))
}

func (s *InMemoryCollectionStore) Get(ctx context.Context, id string) (*collection.Collection, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyCollection(c), nil
}

func (s *InMemoryCollectionStore) Update(ctx context.Context, c *collection.Collection) error {
	if c == nil {
		return ierr.NewError("collection cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyCollection(c))
}

func (s *InMemoryCollectionStore) ListActive(ctx context.Context) ([]*collection.Collection, error) {
	items := s.InMemoryStore.List(ctx, func(ctx context.Context, c *collection.Collection) bool {
		return c.IsActive
	}, func(a, b *collection.Collection) bool {
		return a.ID < b.ID
	})
	result := make([]*collection.Collection, 0, len(items))
	for _, c := range items {
		result = append(result, copyCollection(c))
	}
	return result, nil
}

func (s *InMemoryCollectionStore) IncrementIssuedCount(ctx context.Context, id string) error {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return err
	}
	updated := copyCollection(c)
	updated.IssuedCount++
	return s.InMemoryStore.Update(ctx, id, updated)
}
