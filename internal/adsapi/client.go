// Package adsapi defines the interface to the sponsored-ads bidding API.
// Only the operations the bid engine needs are modeled.
package adsapi

import "context"

// BidUpdate is one keyword bid mutation to submit.
type BidUpdate struct {
	KeywordID  string
	CampaignID string
	AdGroupID  string
	NewBid     float64 // 0 pauses the keyword
}

// UpdateResult is the per-keyword outcome of a submission.
type UpdateResult struct {
	KeywordID string
	Accepted  bool
	Message   string
}

// Client defines the bidding API surface used in APPLY mode.
type Client interface {
	// UpdateBids submits a batch of bid mutations. The result slice is
	// positionally aligned with the input; a non-nil error means the
	// whole batch failed before submission.
	UpdateBids(ctx context.Context, updates []BidUpdate) ([]UpdateResult, error)
}
