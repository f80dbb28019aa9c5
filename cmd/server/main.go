package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	cronapi "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/api/cron"
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
	gormstore "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/repository/gorm"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/scheduler"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			gormstore.NewStore,
			gormstore.NewMembershipRepository,
			gormstore.NewCollectionRepository,
			gormstore.NewCommunityMemberRepository,
			gormstore.NewAnalyticsRepository,
			gormstore.NewJobExecutionRepository,
			cache.Initialize,
			minting.NewClient,
			notification.NewEmailNotifier,
			newServiceParams,
			service.NewLifecycleService,
			service.NewMembershipService,
			service.NewAnalyticsService,
			newRunner,
			newScheduler,
			cronapi.NewLifecycleCronHandler,
			newRouter,
		),
		fx.Invoke(registerJobs),
		fx.Invoke(startServer),
	)
	app.Run()
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	store *gormstore.Store,
	cacheClient cache.Cache,
	membershipRepo membership.Repository,
	collectionRepo collection.Repository,
	communityMemberRepo communitymember.Repository,
	analyticsRepo analytics.Repository,
	jobExecutionRepo jobs.Repository,
	minter minting.Minter,
	notifier notification.Notifier,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:              log,
		Config:              cfg,
		DB:                  store,
		Cache:               cacheClient,
		MembershipRepo:      membershipRepo,
		CollectionRepo:      collectionRepo,
		CommunityMemberRepo: communityMemberRepo,
		AnalyticsRepo:       analyticsRepo,
		JobExecutionRepo:    jobExecutionRepo,
		Minter:              minter,
		Notifier:            notifier,
	}
}

func newRunner(params service.ServiceParams) *scheduler.Runner {
	return scheduler.NewRunner(params.JobExecutionRepo, params.Logger)
}

func newScheduler(runner *scheduler.Runner, cfg *config.Configuration, log *logger.Logger) *scheduler.Scheduler {
	return scheduler.New(runner, log, cfg.SchedulerLocation())
}

func registerJobs(s *scheduler.Scheduler, lifecycle service.LifecycleService, cfg *config.Configuration) error {
	return scheduler.RegisterLifecycleJobs(s, lifecycle, cfg)
}

func newRouter(cfg *config.Configuration, log *logger.Logger, cronHandler *cronapi.LifecycleCronHandler) *gin.Engine {
	if cfg.Deployment.Mode == config.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(log.GetGinLogger()))

	cronHandler.RegisterRoutes(router.Group("/v1/cron"))
	return router
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	log *logger.Logger,
	router *gin.Engine,
	s *scheduler.Scheduler,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorw("server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down")
			s.Shutdown()
			return srv.Shutdown(ctx)
		},
	})
}
