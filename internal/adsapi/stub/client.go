package stub

import (
	"context"
	"sync"

	"sponsored-bid-lab/internal/adsapi"
)

// Client implements adsapi.Client for testing and shadow verification.
// It records every submitted update and accepts them all unless a
// rejection is registered for the keyword.
type Client struct {
	mu        sync.Mutex
	submitted []adsapi.BidUpdate
	rejects   map[string]string // keyword_id -> rejection message
	err       error
}

// NewClient creates a new stub bidding client.
func NewClient() *Client {
	return &Client{rejects: make(map[string]string)}
}

// UpdateBids records the batch and returns per-keyword results.
func (c *Client) UpdateBids(_ context.Context, updates []adsapi.BidUpdate) ([]adsapi.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	c.submitted = append(c.submitted, updates...)

	results := make([]adsapi.UpdateResult, len(updates))
	for i, u := range updates {
		msg, rejected := c.rejects[u.KeywordID]
		results[i] = adsapi.UpdateResult{
			KeywordID: u.KeywordID,
			Accepted:  !rejected,
			Message:   msg,
		}
	}
	return results, nil
}

// Submitted returns a copy of everything submitted so far.
func (c *Client) Submitted() []adsapi.BidUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]adsapi.BidUpdate, len(c.submitted))
	copy(out, c.submitted)
	return out
}

// Reject marks a keyword so its updates come back rejected.
func (c *Client) Reject(keywordID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejects[keywordID] = message
}

// FailWith makes every subsequent batch fail outright.
func (c *Client) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

var _ adsapi.Client = (*Client)(nil)
