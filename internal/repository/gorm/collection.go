package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

type collectionRepository struct {
	store *Store
}

// NewCollectionRepository returns the postgres-backed pass collection
// repository.
func NewCollectionRepository(store *Store) collection.Repository {
	return &collectionRepository{store: store}
}

func (r *collectionRepository) Create(ctx context.Context, c *collection.Collection) error {
	if c.ID == "" {
		c.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PASS_COLLECTION)
	}
	if err := r.store.dbFrom(ctx).Create(c).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create pass collection").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *collectionRepository) Get(ctx context.Context, id string) (*collection.Collection, error) {
	var c collection.Collection
	err := r.store.dbFrom(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewErrorf("pass collection %s not found", id).Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *collectionRepository) Update(ctx context.Context, c *collection.Collection) error {
	c.UpdatedAt = time.Now().UTC()
	res := r.store.dbFrom(ctx).Model(&collection.Collection{}).
		Where("id = ?", c.ID).
		Select("name", "price_per_period", "currency", "billing_period", "supply_cap", "is_active", "updated_at", "updated_by").
		Updates(c)
	if res.Error != nil {
		return ierr.WithError(res.Error).Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewErrorf("pass collection %s not found", c.ID).Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *collectionRepository) ListActive(ctx context.Context) ([]*collection.Collection, error) {
	var out []*collection.Collection
	err := r.store.dbFrom(ctx).
		Where("is_active = ?", true).
		Order("created_at asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Active collection query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *collectionRepository) IncrementIssuedCount(ctx context.Context, id string) error {
	res := r.store.dbFrom(ctx).Model(&collection.Collection{}).
		Where("id = ?", id).
		UpdateColumn("issued_count", gorm.Expr("issued_count + 1"))
	if res.Error != nil {
		return ierr.WithError(res.Error).Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewErrorf("pass collection %s not found", id).Mark(ierr.ErrNotFound)
	}
	return nil
}
