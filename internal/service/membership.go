package service

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/communitymember"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/membership"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// MembershipService covers the minting-side entry points of the lifecycle:
// purchasing a pass creates the membership the scheduler later manages.
// The scheduler itself never creates or reactivates memberships.
type MembershipService interface {
	PurchasePass(ctx context.Context, subscriberID, collectionID string) (*membership.Membership, error)
	CancelAutoRenew(ctx context.Context, membershipID string) error
	EnableAutoRenew(ctx context.Context, membershipID string) error
}

type membershipService struct {
	ServiceParams
}

// NewMembershipService creates a new membership service.
func NewMembershipService(params ServiceParams) MembershipService {
	return &membershipService{ServiceParams: params}
}

// PurchasePass mints a new pass for the subscriber and creates the
// membership and community member rows. Enforces the at-most-one-active
// invariant per (subscriber, community).
func (s *membershipService) PurchasePass(ctx context.Context, subscriberID, collectionID string) (*membership.Membership, error) {
	if subscriberID == "" || collectionID == "" {
		return nil, ierr.NewError("subscriber ID and collection ID are required").
			WithHint("Both identifiers must be provided").
			Mark(ierr.ErrValidation)
	}

	coll, err := s.CollectionRepo.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !coll.IsActive {
		return nil, ierr.NewError("pass collection is not active").
			WithHint("Passes can only be minted under an active collection").
			Mark(ierr.ErrInvalidOperation)
	}
	if !coll.HasSupply() {
		return nil, ierr.NewError("pass collection is sold out").
			WithReportableDetails(map[string]any{
				"supply_cap": coll.SupplyCap,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if existing, err := s.MembershipRepo.GetActiveBySubscriberAndCommunity(ctx, subscriberID, coll.CommunityID); err == nil && existing != nil {
		return nil, ierr.NewError("subscriber already holds an active pass for this community").
			WithReportableDetails(map[string]any{
				"membership_id": existing.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	minted, err := s.Minter.Mint(ctx, subscriberID, collectionID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Minting failed, no membership was created").
			Mark(ierr.ErrSystem)
	}

	now := time.Now().UTC()
	m := &membership.Membership{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP),
		SubscriberID: subscriberID,
		CommunityID:  coll.CommunityID,
		CollectionID: coll.ID,
		ProofToken:   minted.ProofToken,
		TxRef:        minted.TxHash,
		ExpiresAt:    coll.BillingPeriod.Add(now),
		IsActive:     true,
		AutoRenew:    true,
		BaseModel:    types.GetDefaultBaseModel(),
	}

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.MembershipRepo.Create(txCtx, m); err != nil {
			return err
		}
		if err := s.CollectionRepo.IncrementIssuedCount(txCtx, coll.ID); err != nil {
			return err
		}
		if _, err := s.CommunityMemberRepo.GetBySubscriberAndCommunity(txCtx, subscriberID, coll.CommunityID); err != nil {
			if !ierr.IsNotFound(err) {
				return err
			}
			return s.CommunityMemberRepo.Create(txCtx, &communitymember.CommunityMember{
				ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMUNITY_MEMBER),
				SubscriberID: subscriberID,
				CommunityID:  coll.CommunityID,
				IsActive:     true,
				JoinedAt:     now,
				BaseModel:    types.GetDefaultBaseModel(),
			})
		}
		return nil
	})
	if err != nil {
		// The mint already happened on-chain; the membership row is the
		// source of truth for access, so surface the inconsistency loudly.
		s.Logger.Errorw("mint succeeded but membership persistence failed",
			"error", err,
			"subscriber_id", subscriberID,
			"tx_hash", minted.TxHash)
		return nil, err
	}

	key := analytics.NewDailyKey(coll.ArtistID, coll.CommunityID, now)
	delta := analytics.DailyDelta{
		NewSubscriptions: 1,
		Revenue:          coll.PricePerPeriod,
		Currency:         coll.Currency,
	}
	if err := s.AnalyticsRepo.UpsertByKey(ctx, key, delta); err != nil {
		s.Logger.Errorw("failed to record purchase analytics",
			"error", err,
			"membership_id", m.ID)
	}

	s.Logger.Infow("pass purchased",
		"membership_id", m.ID,
		"subscriber_id", subscriberID,
		"collection_id", coll.ID,
		"tx_hash", minted.TxHash)
	return m, nil
}

// CancelAutoRenew turns off auto-renewal for a membership.
func (s *membershipService) CancelAutoRenew(ctx context.Context, membershipID string) error {
	return s.setAutoRenew(ctx, membershipID, false)
}

// EnableAutoRenew turns auto-renewal back on, e.g. after a failed renewal
// disabled it.
func (s *membershipService) EnableAutoRenew(ctx context.Context, membershipID string) error {
	return s.setAutoRenew(ctx, membershipID, true)
}

func (s *membershipService) setAutoRenew(ctx context.Context, membershipID string, enabled bool) error {
	if membershipID == "" {
		return ierr.NewError("membership ID is required").Mark(ierr.ErrValidation)
	}
	m, err := s.MembershipRepo.Get(ctx, membershipID)
	if err != nil {
		return err
	}
	if !m.IsActive {
		return ierr.NewError("membership is no longer active").
			WithHint("Auto-renew can only be changed on an active membership").
			Mark(ierr.ErrInvalidOperation)
	}
	if m.AutoRenew == enabled {
		return nil
	}

	// Turning auto-renew off is the subscriber's cancellation signal; the
	// pass stays active until it runs out and the expiry sweep books the
	// lapse as a cancellation rather than an expiry.
	m.AutoRenew = enabled
	if enabled {
		m.CancelledAt = nil
	} else {
		now := time.Now().UTC()
		m.CancelledAt = &now
	}
	return s.MembershipRepo.Update(ctx, m)
}
