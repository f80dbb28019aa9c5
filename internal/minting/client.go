package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
)

// Client talks to the minting service over HTTP with retries on transport
// failures. Application-level failures (insufficient funds, revoked wallet)
// come back as non-2xx responses and are not retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *retryablehttp.Client
	logger     *logger.Logger
}

// NewClient creates a minting client from configuration.
func NewClient(cfg *config.Configuration, log *logger.Logger) Minter {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Minting.RetryMax
	rc.HTTPClient.Timeout = cfg.Minting.Timeout
	rc.Logger = log.GetRetryableHTTPLogger()

	return &Client{
		baseURL:    cfg.Minting.BaseURL,
		apiKey:     cfg.Minting.APIKey,
		httpClient: rc,
		logger:     log,
	}
}

type mintRequest struct {
	SubscriberID string `json:"subscriber_id"`
	CollectionID string `json:"collection_id"`
}

type renewRequest struct {
	SubscriberID string `json:"subscriber_id"`
	MembershipID string `json:"membership_id"`
}

func (c *Client) Mint(ctx context.Context, subscriberID, collectionID string) (*MintResult, error) {
	var out MintResult
	err := c.post(ctx, "/v1/passes/mint", mintRequest{
		SubscriberID: subscriberID,
		CollectionID: collectionID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Renew(ctx context.Context, subscriberID, membershipID string) (*RenewResult, error) {
	var out RenewResult
	err := c.post(ctx, "/v1/passes/renew", renewRequest{
		SubscriberID: subscriberID,
		MembershipID: membershipID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode minting request").
			Mark(ierr.ErrInternal)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Minting service unreachable").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warnw("minting service returned error",
			"path", path,
			"status", resp.StatusCode,
			"body", string(raw))
		return ierr.NewErrorf("minting service returned status %d", resp.StatusCode).
			WithHint(fmt.Sprintf("Request to %s failed", path)).
			Mark(ierr.ErrHTTPClient)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return ierr.WithError(err).
				WithHint("Minting service returned an unreadable response").
				Mark(ierr.ErrHTTPClient)
		}
	}
	return nil
}
