// Package minting is the boundary to the blockchain wallet/minting
// collaborator. The engine never inspects failure causes: any error from
// Mint or Renew is treated as "the operation failed".
package minting

import "context"

// MintResult is the proof of a freshly minted pass.
type MintResult struct {
	ProofToken string `json:"proof_token"`
	TxHash     string `json:"tx_hash"`
}

// RenewResult is the transaction reference of a successful renewal.
type RenewResult struct {
	TxHash string `json:"tx_hash"`
}

// Minter mints and renews entitlement proofs. Implementations may be slow
// network operations; callers pass a context and treat errors opaquely.
type Minter interface {
	Mint(ctx context.Context, subscriberID, collectionID string) (*MintResult, error)
	Renew(ctx context.Context, subscriberID, membershipID string) (*RenewResult, error)
}
