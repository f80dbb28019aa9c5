package testutil

import (
	"context"
	"fmt"
	"sync"

	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/minting"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// NopTxManager satisfies service.TxManager without a real database: the
// function runs with the caller's context and no transaction is opened.
type NopTxManager struct{}

func (NopTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// FakeMinter is a scriptable minting.Minter. Zero value succeeds every
// call with deterministic tokens.
type FakeMinter struct {
	mu sync.Mutex

	// MintErr and RenewErr, when set, fail the corresponding call.
	MintErr  error
	RenewErr error

	// FailFor fails Renew for specific membership IDs only.
	FailFor map[string]error

	// OnRenew, when set, runs before each Renew returns. Lets a test
	// mutate state mid-sweep the way a concurrent job would.
	OnRenew func(membershipID string)

	MintCalls  []string
	RenewCalls []string
}

func NewFakeMinter() *FakeMinter {
	return &FakeMinter{FailFor: make(map[string]error)}
}

func (f *FakeMinter) Mint(ctx context.Context, subscriberID, collectionID string) (*minting.MintResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MintCalls = append(f.MintCalls, subscriberID)
	if f.MintErr != nil {
		return nil, f.MintErr
	}
	return &minting.MintResult{
		ProofToken: fmt.Sprintf("proof-%s-%s", subscriberID, collectionID),
		TxHash:     fmt.Sprintf("0xmint%04d", len(f.MintCalls)),
	}, nil
}

func (f *FakeMinter) Renew(ctx context.Context, subscriberID, membershipID string) (*minting.RenewResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RenewCalls = append(f.RenewCalls, membershipID)
	if f.OnRenew != nil {
		f.OnRenew(membershipID)
	}
	if err, ok := f.FailFor[membershipID]; ok {
		return nil, err
	}
	if f.RenewErr != nil {
		return nil, f.RenewErr
	}
	return &minting.RenewResult{
		TxHash: fmt.Sprintf("0xrenew%04d", len(f.RenewCalls)),
	}, nil
}

// MintingDown returns an error shaped like a minting collaborator outage.
func MintingDown() error {
	return ierr.NewError("minting service unavailable").
		Mark(ierr.ErrHTTPClient)
}

// NotifyCall is one recorded Notify invocation.
type NotifyCall struct {
	SubscriberRef string
	Template      types.NotificationTemplate
	Data          map[string]any
}

// FakeNotifier records every notification. Zero value delivers everything.
type FakeNotifier struct {
	mu sync.Mutex

	// Err, when set, fails every delivery.
	Err error

	Calls []NotifyCall
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (f *FakeNotifier) Notify(ctx context.Context, subscriberRef string, template types.NotificationTemplate, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, NotifyCall{
		SubscriberRef: subscriberRef,
		Template:      template,
		Data:          data,
	})
	return f.Err
}

// CallCount returns how many notifications were recorded.
func (f *FakeNotifier) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
