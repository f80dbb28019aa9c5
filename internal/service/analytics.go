package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

// AnalyticsOverview is the summed view of a date range for one artist.
type AnalyticsOverview struct {
	ArtistID               string          `json:"artist_id"`
	From                   time.Time       `json:"from"`
	To                     time.Time       `json:"to"`
	NewSubscriptions       int             `json:"new_subscriptions"`
	RenewedSubscriptions   int             `json:"renewed_subscriptions"`
	ExpiredSubscriptions   int             `json:"expired_subscriptions"`
	CancelledSubscriptions int             `json:"cancelled_subscriptions"`
	PeakActiveSubscribers  int             `json:"peak_active_subscribers"`
	Revenue                decimal.Decimal `json:"revenue"`
	// RenewalRate is renewed/expired as a percentage; 0 when nothing
	// expired in the range.
	RenewalRate decimal.Decimal `json:"renewal_rate"`
}

// TrendPoint compares one week against the one before it.
type TrendPoint struct {
	WeekStart        time.Time       `json:"week_start"`
	Revenue          decimal.Decimal `json:"revenue"`
	NewSubscriptions int             `json:"new_subscriptions"`
	// GrowthPercent is week-over-week revenue growth; 0 when the previous
	// week had no revenue.
	GrowthPercent decimal.Decimal `json:"growth_percent"`
}

// AnalyticsService answers read-only questions over the daily ledger.
type AnalyticsService interface {
	Overview(ctx context.Context, artistID string, from, to time.Time) (*AnalyticsOverview, error)
	History(ctx context.Context, artistID string, from, to time.Time) ([]*analytics.DailyRecord, error)
	Trends(ctx context.Context, artistID string, weeks int) ([]*TrendPoint, error)
}

type analyticsService struct {
	ServiceParams
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(params ServiceParams) AnalyticsService {
	return &analyticsService{ServiceParams: params}
}

func (s *analyticsService) Overview(ctx context.Context, artistID string, from, to time.Time) (*AnalyticsOverview, error) {
	if artistID == "" {
		return nil, ierr.NewError("artist ID is required").Mark(ierr.ErrValidation)
	}
	if to.Before(from) {
		return nil, ierr.NewError("invalid date range").
			WithHint("'to' must not be before 'from'").
			Mark(ierr.ErrValidation)
	}

	records, err := s.AnalyticsRepo.ListByArtist(ctx, artistID, from, to)
	if err != nil {
		return nil, err
	}

	overview := &AnalyticsOverview{
		ArtistID: artistID,
		From:     analytics.DayOf(from),
		To:       analytics.DayOf(to),
		Revenue:  decimal.Zero,
	}
	for _, r := range records {
		overview.NewSubscriptions += r.NewSubscriptions
		overview.RenewedSubscriptions += r.RenewedSubscriptions
		overview.ExpiredSubscriptions += r.ExpiredSubscriptions
		overview.CancelledSubscriptions += r.CancelledSubscriptions
		overview.Revenue = overview.Revenue.Add(r.Revenue)
		if r.TotalActiveSubscriptions > overview.PeakActiveSubscribers {
			overview.PeakActiveSubscribers = r.TotalActiveSubscriptions
		}
	}

	overview.RenewalRate = ratePercent(overview.RenewedSubscriptions, overview.ExpiredSubscriptions)
	return overview, nil
}

func (s *analyticsService) History(ctx context.Context, artistID string, from, to time.Time) ([]*analytics.DailyRecord, error) {
	if artistID == "" {
		return nil, ierr.NewError("artist ID is required").Mark(ierr.ErrValidation)
	}
	return s.AnalyticsRepo.ListByArtist(ctx, artistID, from, to)
}

// Trends returns the last n weeks, oldest first, with week-over-week
// revenue growth.
func (s *analyticsService) Trends(ctx context.Context, artistID string, weeks int) ([]*TrendPoint, error) {
	if artistID == "" {
		return nil, ierr.NewError("artist ID is required").Mark(ierr.ErrValidation)
	}
	if weeks <= 0 {
		weeks = 4
	}

	to := analytics.DayOf(time.Now().UTC())
	from := to.AddDate(0, 0, -7*weeks+1)

	records, err := s.AnalyticsRepo.ListByArtist(ctx, artistID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]*TrendPoint, weeks)
	for i := 0; i < weeks; i++ {
		points[i] = &TrendPoint{
			WeekStart: from.AddDate(0, 0, 7*i),
			Revenue:   decimal.Zero,
		}
	}

	for _, r := range records {
		idx := int(r.Day.Sub(from).Hours() / 24 / 7)
		if idx < 0 || idx >= weeks {
			continue
		}
		points[idx].Revenue = points[idx].Revenue.Add(r.Revenue)
		points[idx].NewSubscriptions += r.NewSubscriptions
	}

	for i := 1; i < weeks; i++ {
		prev := points[i-1].Revenue
		if prev.IsZero() {
			continue
		}
		points[i].GrowthPercent = points[i].Revenue.Sub(prev).
			Div(prev).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return points, nil
}

func ratePercent(numerator, denominator int) decimal.Decimal {
	if denominator == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(numerator)).
		Div(decimal.NewFromInt(int64(denominator))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
