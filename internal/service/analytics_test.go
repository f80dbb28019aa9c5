package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/testutil"
)

type AnalyticsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AnalyticsService
	params  ServiceParams
}

func TestAnalyticsService(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceSuite))
}

func (s *AnalyticsServiceSuite) SetupTest() {
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
	s.service = NewAnalyticsService(s.params)
}

func (s *AnalyticsServiceSuite) upsert(day time.Time, delta analytics.DailyDelta) {
	key := analytics.NewDailyKey("artist-1", "community-1", day)
	s.NoError(s.GetStores().AnalyticsRepo.UpsertByKey(s.GetContext(), key, delta))
}

func (s *AnalyticsServiceSuite) TestOverview() {
	s.Run("sums counts and revenue over the range", func() {
		s.SetupTest()
		now := time.Now().UTC()
		s.upsert(now.AddDate(0, 0, -2), analytics.DailyDelta{
			NewSubscriptions: 3,
			Revenue:          decimal.NewFromInt(30),
			Currency:         "usd",
		})
		s.upsert(now.AddDate(0, 0, -1), analytics.DailyDelta{
			RenewedSubscriptions: 2,
			ExpiredSubscriptions: 4,
			Revenue:              decimal.NewFromInt(20),
		})
		snapshot := 12
		s.upsert(now, analytics.DailyDelta{ActiveSnapshot: &snapshot})

		overview, err := s.service.Overview(s.GetContext(), "artist-1", now.AddDate(0, 0, -7), now)
		s.NoError(err)
		s.Equal(3, overview.NewSubscriptions)
		s.Equal(2, overview.RenewedSubscriptions)
		s.Equal(4, overview.ExpiredSubscriptions)
		s.Equal(12, overview.PeakActiveSubscribers)
		s.True(overview.Revenue.Equal(decimal.NewFromInt(50)))
		// 2 renewed / 4 expired.
		s.True(overview.RenewalRate.Equal(decimal.NewFromInt(50)))
	})

	s.Run("renewal rate is zero when nothing expired", func() {
		s.SetupTest()
		now := time.Now().UTC()
		s.upsert(now, analytics.DailyDelta{RenewedSubscriptions: 5})

		overview, err := s.service.Overview(s.GetContext(), "artist-1", now.AddDate(0, 0, -7), now)
		s.NoError(err)
		s.True(overview.RenewalRate.IsZero())
	})

	s.Run("rejects an inverted date range", func() {
		s.SetupTest()
		now := time.Now().UTC()
		_, err := s.service.Overview(s.GetContext(), "artist-1", now, now.AddDate(0, 0, -1))
		s.Error(err)
		s.True(ierr.Is(err, ierr.ErrValidation))
	})

	s.Run("requires an artist ID", func() {
		s.SetupTest()
		now := time.Now().UTC()
		_, err := s.service.Overview(s.GetContext(), "", now.AddDate(0, 0, -1), now)
		s.Error(err)
	})
}

func (s *AnalyticsServiceSuite) TestUpsertMergeSemantics() {
	s.Run("counts add and snapshot keeps its maximum", func() {
		s.SetupTest()
		now := time.Now().UTC()
		key := analytics.NewDailyKey("artist-1", "community-1", now)

		s.upsert(now, analytics.DailyDelta{NewSubscriptions: 1, Revenue: decimal.NewFromInt(10)})
		s.upsert(now, analytics.DailyDelta{NewSubscriptions: 2, Revenue: decimal.NewFromInt(20)})

		high, low := 9, 4
		s.upsert(now, analytics.DailyDelta{ActiveSnapshot: &high})
		s.upsert(now, analytics.DailyDelta{ActiveSnapshot: &low})

		record, err := s.GetStores().AnalyticsRepo.FindByKey(s.GetContext(), key)
		s.NoError(err)
		s.Equal(3, record.NewSubscriptions)
		s.True(record.Revenue.Equal(decimal.NewFromInt(30)))
		s.Equal(9, record.TotalActiveSubscriptions)
	})

	s.Run("different days get different rows", func() {
		s.SetupTest()
		now := time.Now().UTC()
		s.upsert(now.AddDate(0, 0, -1), analytics.DailyDelta{NewSubscriptions: 1})
		s.upsert(now, analytics.DailyDelta{NewSubscriptions: 1})

		records, err := s.GetStores().AnalyticsRepo.ListByArtist(s.GetContext(), "artist-1", now.AddDate(0, 0, -1), now)
		s.NoError(err)
		s.Len(records, 2)
	})
}

func (s *AnalyticsServiceSuite) TestTrends() {
	s.Run("computes week over week growth", func() {
		s.SetupTest()
		now := analytics.DayOf(time.Now().UTC())
		// Two weeks: 100 revenue then 150.
		s.upsert(now.AddDate(0, 0, -8), analytics.DailyDelta{Revenue: decimal.NewFromInt(100)})
		s.upsert(now.AddDate(0, 0, -1), analytics.DailyDelta{Revenue: decimal.NewFromInt(150)})

		points, err := s.service.Trends(s.GetContext(), "artist-1", 2)
		s.NoError(err)
		s.Len(points, 2)
		s.True(points[0].Revenue.Equal(decimal.NewFromInt(100)))
		s.True(points[1].Revenue.Equal(decimal.NewFromInt(150)))
		s.True(points[1].GrowthPercent.Equal(decimal.NewFromInt(50)))
	})

	s.Run("growth is zero when the previous week was empty", func() {
		s.SetupTest()
		now := analytics.DayOf(time.Now().UTC())
		s.upsert(now, analytics.DailyDelta{Revenue: decimal.NewFromInt(75)})

		points, err := s.service.Trends(s.GetContext(), "artist-1", 2)
		s.NoError(err)
		s.True(points[1].GrowthPercent.IsZero())
	})
}
