package domain

import (
	"context"
	"time"
)

type ReviewStore interface {
	// Read paths
	FindReviewBySourceID(ctx context.Context, sourceReviewID string) (Review, error)
	FindReviewsForProduct(ctx context.Context, productID string, sourceReviewIDs []string) ([]Review, error)
	ProductExists(ctx context.Context, productID string) (bool, error)
	FindProcessedByOriginID(ctx context.Context, orgReviewID string) (int64, error)
	GetProcessed(ctx context.Context, orgReviewID string) (ProcessedReview, error)

	// Write paths
	InsertProcessed(ctx context.Context, pr ProcessedReview) (int64, error)
	UpsertReviews(ctx context.Context, rs []Review) error
}

// The three agent capabilities the orchestrator fans out to. Each may fail;
// implementations must be safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type ReplyGenerator interface {
	GenerateReply(ctx context.Context, text string) (GeneratedReply, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// ReviewSource is an external platform we pull customer reviews from.
// Entries are raw platform documents ({id, attributes{...}}).
type ReviewSource interface {
	CustomerReviews(ctx context.Context, productID string, count int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// RunLock is a best-effort per-review mutual exclusion used to keep two
// concurrent runs of the same review id from both paying for agent calls.
// The store's unique index is the authority; losing a lock is tolerated.
type RunLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
