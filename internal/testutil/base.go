package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/cache"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
)

// Stores bundles the in-memory repositories handed to services under test.
type Stores struct {
	MembershipRepo      *InMemoryMembershipStore
	CollectionRepo      *InMemoryCollectionStore
	CommunityMemberRepo *InMemoryCommunityMemberStore
	AnalyticsRepo       *InMemoryAnalyticsStore
	JobExecutionRepo    *InMemoryJobExecutionStore
}

// NewStores creates a fresh set of in-memory stores.
func NewStores() *Stores {
	return &Stores{
		MembershipRepo:      NewInMemoryMembershipStore(),
		CollectionRepo:      NewInMemoryCollectionStore(),
		CommunityMemberRepo: NewInMemoryCommunityMemberStore(),
		AnalyticsRepo:       NewInMemoryAnalyticsStore(),
		JobExecutionRepo:    NewInMemoryJobExecutionStore(),
	}
}

// BaseServiceTestSuite provides common setup for service tests: fresh
// stores, fakes, config and a context per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Configuration
	log      *logger.Logger
	stores   *Stores
	cache    cache.Cache
	minter   *FakeMinter
	notifier *FakeNotifier
}

// SetupTest resets all state between tests.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.stores = NewStores()
	s.cache = cache.NewInMemoryCache()
	s.minter = NewFakeMinter()
	s.notifier = NewFakeNotifier()
}

func (s *BaseServiceTestSuite) GetContext() context.Context       { return s.ctx }
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration  { return s.cfg }
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger         { return s.log }
func (s *BaseServiceTestSuite) GetStores() *Stores                { return s.stores }
func (s *BaseServiceTestSuite) GetCache() cache.Cache             { return s.cache }
func (s *BaseServiceTestSuite) GetDB() NopTxManager               { return NopTxManager{} }
func (s *BaseServiceTestSuite) GetMinter() *FakeMinter            { return s.minter }
func (s *BaseServiceTestSuite) GetNotifier() *FakeNotifier        { return s.notifier }
