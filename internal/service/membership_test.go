package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/testutil"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

type MembershipServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MembershipService
	params  ServiceParams
}

func TestMembershipService(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}

func (s *MembershipServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Logger:              s.GetLogger(),
		Config:              s.GetConfig(),
		DB:                  s.GetDB(),
		Cache:               s.GetCache(),
		MembershipRepo:      s.GetStores().MembershipRepo,
		CollectionRepo:      s.GetStores().CollectionRepo,
		CommunityMemberRepo: s.GetStores().CommunityMemberRepo,
		AnalyticsRepo:       s.GetStores().AnalyticsRepo,
		JobExecutionRepo:    s.GetStores().JobExecutionRepo,
		Minter:              s.GetMinter(),
		Notifier:            s.GetNotifier(),
	}
	s.service = NewMembershipService(s.params)
}

func (s *MembershipServiceSuite) seedCollection(mutate ...func(*collection.Collection)) *collection.Collection {
	coll := &collection.Collection{
		ID:             "coll-1",
		ArtistID:       "artist-1",
		CommunityID:    "community-1",
		Name:           "Gold Tier",
		PricePerPeriod: decimal.NewFromInt(10),
		Currency:       "usd",
		BillingPeriod:  types.BillingPeriodMonthly,
		IsActive:       true,
		BaseModel:      types.GetDefaultBaseModel(),
	}
	for _, fn := range mutate {
		fn(coll)
	}
	s.NoError(s.GetStores().CollectionRepo.Create(s.GetContext(), coll))
	return coll
}

func (s *MembershipServiceSuite) TestPurchasePass() {
	s.Run("creates membership, member row and analytics", func() {
		s.SetupTest()
		coll := s.seedCollection()

		m, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.NoError(err)
		s.True(m.IsActive)
		s.True(m.AutoRenew)
		s.False(m.ReminderSent)
		s.NotEmpty(m.ProofToken)
		s.True(m.ExpiresAt.After(time.Now().UTC()))

		updated, err := s.GetStores().CollectionRepo.Get(s.GetContext(), coll.ID)
		s.NoError(err)
		s.Equal(int64(1), updated.IssuedCount)

		member, err := s.GetStores().CommunityMemberRepo.GetBySubscriberAndCommunity(s.GetContext(), "sub-1", coll.CommunityID)
		s.NoError(err)
		s.True(member.IsActive)

		key := analytics.NewDailyKey(coll.ArtistID, coll.CommunityID, time.Now().UTC())
		record, err := s.GetStores().AnalyticsRepo.FindByKey(s.GetContext(), key)
		s.NoError(err)
		s.Equal(1, record.NewSubscriptions)
		s.True(record.Revenue.Equal(coll.PricePerPeriod))
	})

	s.Run("rejects a second active pass for the same community", func() {
		s.SetupTest()
		coll := s.seedCollection()

		_, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.NoError(err)

		_, err = s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.Error(err)
		s.True(ierr.Is(err, ierr.ErrAlreadyExists))
	})

	s.Run("rejects an inactive collection", func() {
		s.SetupTest()
		coll := s.seedCollection(func(c *collection.Collection) {
			c.IsActive = false
		})

		_, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.Error(err)
		s.Empty(s.GetMinter().MintCalls)
	})

	s.Run("rejects a sold out collection", func() {
		s.SetupTest()
		coll := s.seedCollection(func(c *collection.Collection) {
			c.SupplyCap = 1
			c.IssuedCount = 1
		})

		_, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.Error(err)
		s.Empty(s.GetMinter().MintCalls)
	})

	s.Run("persists nothing when minting fails", func() {
		s.SetupTest()
		coll := s.seedCollection()
		s.GetMinter().MintErr = testutil.MintingDown()

		_, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.Error(err)

		unchanged, err := s.GetStores().CollectionRepo.Get(s.GetContext(), coll.ID)
		s.NoError(err)
		s.Equal(int64(0), unchanged.IssuedCount)

		_, err = s.GetStores().CommunityMemberRepo.GetBySubscriberAndCommunity(s.GetContext(), "sub-1", coll.CommunityID)
		s.True(ierr.IsNotFound(err))
	})
}

func (s *MembershipServiceSuite) TestAutoRenewToggle() {
	s.Run("cancel and re-enable round trip", func() {
		s.SetupTest()
		coll := s.seedCollection()
		m, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.NoError(err)

		s.NoError(s.service.CancelAutoRenew(s.GetContext(), m.ID))
		stored, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
		s.NoError(err)
		s.False(stored.AutoRenew)
		s.NotNil(stored.CancelledAt)

		// The cancellation reaches the ledger when the pass actually runs
		// out, not at cancel time, so a lapse is never counted twice.
		key := analytics.NewDailyKey(coll.ArtistID, coll.CommunityID, time.Now().UTC())
		record, err := s.GetStores().AnalyticsRepo.FindByKey(s.GetContext(), key)
		s.NoError(err)
		s.Equal(0, record.CancelledSubscriptions)

		s.NoError(s.service.EnableAutoRenew(s.GetContext(), m.ID))
		stored, err = s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
		s.NoError(err)
		s.True(stored.AutoRenew)
		s.Nil(stored.CancelledAt)

		record, err = s.GetStores().AnalyticsRepo.FindByKey(s.GetContext(), key)
		s.NoError(err)
		s.Equal(1, record.NewSubscriptions)
		s.Equal(0, record.CancelledSubscriptions)
	})

	s.Run("rejects an inactive membership", func() {
		s.SetupTest()
		coll := s.seedCollection()
		m, err := s.service.PurchasePass(s.GetContext(), "sub-1", coll.ID)
		s.NoError(err)

		stored, err := s.GetStores().MembershipRepo.Get(s.GetContext(), m.ID)
		s.NoError(err)
		stored.IsActive = false
		s.NoError(s.GetStores().MembershipRepo.Update(s.GetContext(), stored))

		err = s.service.CancelAutoRenew(s.GetContext(), m.ID)
		s.Error(err)
	})
}
