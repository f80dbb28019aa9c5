package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/cache"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/collection"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

const cacheKeyCollection = "lifecycle:collection:%s"

// LifecycleService owns the time-driven membership state machine: expiry,
// reminders, auto-renewal, and the daily active snapshot. Every operation
// is idempotent and safe to run concurrently with the others: selection
// re-reads state at query time and all writes are single-row updates or
// unique-keyed upserts.
type LifecycleService interface {
	ExpireDueMemberships(ctx context.Context) (*jobs.RunSummary, error)
	SendRenewalReminders(ctx context.Context) (*jobs.RunSummary, error)
	AutoRenewDueMemberships(ctx context.Context) (*jobs.RunSummary, error)
	RefreshDailyActiveSnapshot(ctx context.Context) (*jobs.RunSummary, error)
	RunAllDailyJobs(ctx context.Context) (*jobs.RunSummary, error)
}

type lifecycleService struct {
	ServiceParams
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(params ServiceParams) LifecycleService {
	return &lifecycleService{ServiceParams: params}
}

// ExpireDueMemberships deactivates every active membership whose ExpiresAt
// has passed and propagates the deactivation to the community member row in
// the same transaction. One failing membership never blocks the rest; a
// failing candidate query aborts the whole run.
func (s *lifecycleService) ExpireDueMemberships(ctx context.Context) (*jobs.RunSummary, error) {
	now := time.Now().UTC()

	due, err := s.MembershipRepo.ListExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	type communityAgg struct {
		artistID  string
		expired   int
		cancelled int
	}

	processed := 0
	byCommunity := make(map[string]*communityAgg)

	for _, m := range due {
		m := m
		err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
			m.IsActive = false
			if err := s.MembershipRepo.Update(txCtx, m); err != nil {
				return err
			}
			return s.CommunityMemberRepo.Deactivate(txCtx, m.SubscriberID, m.CommunityID, now)
		})
		if err != nil {
			s.Logger.Errorw("failed to expire membership",
				"error", err,
				"membership_id", m.ID,
				"community_id", m.CommunityID)
			continue
		}

		// Best-effort goodbye note; access is already revoked either way.
		data := map[string]any{"community_name": m.CommunityID}
		if err := s.Notifier.Notify(ctx, m.SubscriberID, types.TemplateMembershipEnded, data); err != nil {
			s.Logger.Warnw("membership-ended notification failed",
				"error", err,
				"membership_id", m.ID)
		}

		processed++
		agg := byCommunity[m.CommunityID]
		if agg == nil {
			agg = &communityAgg{}
			byCommunity[m.CommunityID] = agg
		}
		// A lapse lands in exactly one ledger counter: memberships the
		// subscriber cancelled earlier are booked as cancellations, the
		// rest as expiries.
		if m.CancelledAt != nil {
			agg.cancelled++
		} else {
			agg.expired++
		}
		if agg.artistID == "" {
			if coll, err := s.getCollection(ctx, m.CollectionID); err == nil {
				agg.artistID = coll.ArtistID
			} else {
				s.Logger.Warnw("could not resolve collection for expiry analytics",
					"error", err,
					"collection_id", m.CollectionID)
			}
		}
	}

	summary := &jobs.RunSummary{
		Processed:   processed,
		ByCommunity: make(map[string]int, len(byCommunity)),
	}
	summary.Counters.CommunitiesAffected = len(byCommunity)

	// One upsert per community for today's ledger row. An upsert failure is
	// logged, not fatal: the memberships are already deactivated and
	// re-running would not re-count them.
	for communityID, agg := range byCommunity {
		summary.ByCommunity[communityID] = agg.expired + agg.cancelled
		summary.Counters.ExpiredCount += agg.expired
		summary.Counters.CancelledCount += agg.cancelled
		if agg.artistID == "" {
			// A row keyed by an empty artist would never surface in any
			// artist query; better a gap in the ledger than a malformed row.
			s.Logger.Warnw("skipping expiry ledger write, artist unresolved",
				"community_id", communityID)
			continue
		}
		key := analytics.NewDailyKey(agg.artistID, communityID, now)
		delta := analytics.DailyDelta{
			ExpiredSubscriptions:   agg.expired,
			CancelledSubscriptions: agg.cancelled,
		}
		if err := s.AnalyticsRepo.UpsertByKey(ctx, key, delta); err != nil {
			s.Logger.Errorw("failed to record expiry analytics",
				"error", err,
				"community_id", communityID)
		}
	}

	s.Logger.Infow("expiry sweep complete",
		"processed", processed,
		"candidates", len(due),
		"communities", len(byCommunity))
	return summary, nil
}

// SendRenewalReminders notifies members whose pass expires within the
// reminder window. Delivery is advisory: the reminder flag is set on
// attempt, not on delivery success, so one member gets at most one
// reminder per billing period.
func (s *lifecycleService) SendRenewalReminders(ctx context.Context) (*jobs.RunSummary, error) {
	now := time.Now().UTC()
	windowDays := s.Config.Scheduler.ReminderWindowDays
	to := now.AddDate(0, 0, windowDays)

	candidates, err := s.MembershipRepo.ListDueForReminder(ctx, now, to)
	if err != nil {
		return nil, err
	}

	summary := &jobs.RunSummary{}
	summary.Counters.Candidates = len(candidates)

	for _, m := range candidates {
		data := map[string]any{
			"community_name": m.CommunityID,
			"expires_at":     m.ExpiresAt.Format("January 2, 2006"),
			"auto_renew":     m.AutoRenew,
		}
		if err := s.Notifier.Notify(ctx, m.SubscriberID, types.TemplateRenewalReminder, data); err != nil {
			summary.Counters.FailedDeliveries++
			s.Logger.Warnw("reminder delivery failed",
				"error", err,
				"membership_id", m.ID,
				"subscriber_id", m.SubscriberID)
		}

		m.ReminderSent = true
		if err := s.MembershipRepo.Update(ctx, m); err != nil {
			s.Logger.Errorw("failed to mark reminder sent",
				"error", err,
				"membership_id", m.ID)
			continue
		}
		summary.Processed++
		summary.Counters.RemindersSent++
	}

	s.Logger.Infow("reminder sweep complete",
		"processed", summary.Processed,
		"candidates", len(candidates),
		"failed_deliveries", summary.Counters.FailedDeliveries)
	return summary, nil
}

// AutoRenewDueMemberships renews memberships expiring within the renewal
// window through the minting collaborator. A failed renewal turns
// auto-renew off for that membership so a failing wallet is not retried
// every sweep. Memberships already expired by the time this runs are
// skipped: expiry wins.
func (s *lifecycleService) AutoRenewDueMemberships(ctx context.Context) (*jobs.RunSummary, error) {
	now := time.Now().UTC()
	window := time.Duration(s.Config.Scheduler.AutoRenewWindowHours) * time.Hour

	candidates, err := s.MembershipRepo.ListDueForAutoRenew(ctx, now, now.Add(window))
	if err != nil {
		return nil, err
	}

	summary := &jobs.RunSummary{}
	summary.Counters.Candidates = len(candidates)

	for _, m := range candidates {
		// Re-read the row before renewing: the hourly expiry sweep may have
		// deactivated it, or the subscriber may have cancelled, between the
		// candidate query and this iteration. Expiry wins over renewal.
		fresh, err := s.MembershipRepo.Get(ctx, m.ID)
		if err != nil {
			s.Logger.Errorw("could not re-read renewal candidate",
				"error", err,
				"membership_id", m.ID)
			continue
		}
		if !fresh.IsActive || !fresh.AutoRenew {
			continue
		}
		m = fresh

		coll, err := s.getCollection(ctx, m.CollectionID)
		if err != nil {
			s.Logger.Errorw("could not load collection for renewal",
				"error", err,
				"membership_id", m.ID,
				"collection_id", m.CollectionID)
			continue
		}

		result, err := s.Minter.Renew(ctx, m.SubscriberID, m.ID)
		if err != nil {
			m.AutoRenew = false
			if updateErr := s.MembershipRepo.Update(ctx, m); updateErr != nil {
				s.Logger.Errorw("failed to disable auto-renew after failed renewal",
					"error", updateErr,
					"membership_id", m.ID)
			}
			summary.Counters.FailedRenewals++
			s.Logger.Warnw("renewal failed, auto-renew disabled",
				"error", err,
				"membership_id", m.ID,
				"subscriber_id", m.SubscriberID)
			continue
		}

		m.ExtendOnePeriod(coll.BillingPeriod)
		m.TxRef = result.TxHash
		if err := s.MembershipRepo.Update(ctx, m); err != nil {
			s.Logger.Errorw("renewal minted but membership update failed",
				"error", err,
				"membership_id", m.ID,
				"tx_hash", result.TxHash)
			continue
		}

		key := analytics.NewDailyKey(coll.ArtistID, m.CommunityID, now)
		delta := analytics.DailyDelta{
			RenewedSubscriptions: 1,
			Revenue:              coll.PricePerPeriod,
			Currency:             coll.Currency,
		}
		if err := s.AnalyticsRepo.UpsertByKey(ctx, key, delta); err != nil {
			s.Logger.Errorw("failed to record renewal analytics",
				"error", err,
				"membership_id", m.ID)
		}

		summary.Processed++
		summary.Counters.RenewedCount++
	}

	s.Logger.Infow("auto-renew sweep complete",
		"renewed", summary.Counters.RenewedCount,
		"failed", summary.Counters.FailedRenewals,
		"candidates", len(candidates))
	return summary, nil
}

// RefreshDailyActiveSnapshot writes the current active membership count of
// every active collection into today's ledger row. The snapshot column is
// max-of-writes, so running this several times a day is safe.
func (s *lifecycleService) RefreshDailyActiveSnapshot(ctx context.Context) (*jobs.RunSummary, error) {
	now := time.Now().UTC()

	collections, err := s.CollectionRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &jobs.RunSummary{}

	for _, coll := range collections {
		count, err := s.MembershipRepo.CountActiveByCollection(ctx, coll.ID, now)
		if err != nil {
			s.Logger.Errorw("active count failed for collection",
				"error", err,
				"collection_id", coll.ID)
			continue
		}

		snapshot := int(count)
		key := analytics.NewDailyKey(coll.ArtistID, coll.CommunityID, now)
		delta := analytics.DailyDelta{ActiveSnapshot: &snapshot, Currency: coll.Currency}
		if err := s.AnalyticsRepo.UpsertByKey(ctx, key, delta); err != nil {
			s.Logger.Errorw("failed to write active snapshot",
				"error", err,
				"collection_id", coll.ID)
			continue
		}
		summary.Processed++
		summary.Counters.CollectionsSnapshotted++
	}

	s.Logger.Infow("analytics snapshot complete",
		"collections", summary.Processed)
	return summary, nil
}

// RunAllDailyJobs is the consolidated daily sweep: expiry, reminders,
// auto-renewal, then the analytics snapshot. Each step is isolated; a
// systemic failure in one step is reported but does not stop the rest.
func (s *lifecycleService) RunAllDailyJobs(ctx context.Context) (*jobs.RunSummary, error) {
	total := &jobs.RunSummary{}
	var firstErr error

	steps := []struct {
		name string
		run  func(context.Context) (*jobs.RunSummary, error)
	}{
		{"expire", s.ExpireDueMemberships},
		{"remind", s.SendRenewalReminders},
		{"auto-renew", s.AutoRenewDueMemberships},
		{"snapshot", s.RefreshDailyActiveSnapshot},
	}

	for _, step := range steps {
		summary, err := step.run(ctx)
		if err != nil {
			s.Logger.Errorw("daily sweep step failed",
				"step", step.name,
				"error", err)
			if firstErr == nil {
				firstErr = ierr.WithError(err).
					WithHintf("Daily sweep step %q failed", step.name).
					Mark(ierr.ErrSystem)
			}
			continue
		}
		total.Merge(summary)
	}

	return total, firstErr
}

// getCollection reads a pass collection through the cache. Collections
// change rarely and every sweep re-reads the same few rows.
func (s *lifecycleService) getCollection(ctx context.Context, id string) (*collection.Collection, error) {
	key := fmt.Sprintf(cacheKeyCollection, id)
	if cached, found := s.Cache.Get(ctx, key); found {
		if coll, ok := cached.(*collection.Collection); ok {
			return coll, nil
		}
	}

	coll, err := s.CollectionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, coll, cache.ExpiryDefaultInMemory)
	return coll, nil
}
