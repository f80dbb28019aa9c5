// Package gormstore holds the postgres-backed repository implementations.
// Each repository resolves its *gorm.DB from the context so that the
// two-table deactivation update can run inside one transaction via WithTx.
package gormstore

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/communitymember"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/membership"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
)

type txKey struct{}

// Store owns the gorm connection and hands out repositories.
type Store struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewStore opens the postgres connection and optionally migrates the
// schema.
func NewStore(cfg *config.Configuration, log *logger.Logger) (*Store, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), gormCfg)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to postgres").
			Mark(ierr.ErrDatabase)
	}

	store := &Store{db: db, logger: log}

	if cfg.Postgres.AutoMigrate {
		if err := store.Migrate(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Migrate creates or updates the engine's tables.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&membership.Membership{},
		&collection.Collection{},
		&communitymember.CommunityMember{},
		&analytics.DailyRecord{},
		&jobs.ExecutionRecord{},
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Schema migration failed").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WithTx runs fn inside one database transaction. Repository calls made
// with the context fn receives share that transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction bound to ctx, or the base connection.
func (s *Store) dbFrom(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}
