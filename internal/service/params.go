package service

import (
	"context"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/cache"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/communitymember"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/membership"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/minting"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/notification"
)

// TxManager runs a function inside one store transaction. Repository calls
// made with the context the function receives share that transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ServiceParams bundles the dependencies every service needs. Services
// embed it, which keeps constructors uniform.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     TxManager
	Cache  cache.Cache

	MembershipRepo      membership.Repository
	CollectionRepo      collection.Repository
	CommunityMemberRepo communitymember.Repository
	AnalyticsRepo       analytics.Repository
	JobExecutionRepo    jobs.Repository

	Minter   minting.Minter
	Notifier notification.Notifier
}
