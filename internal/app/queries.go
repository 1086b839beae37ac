package app

import (
	"context"
	"time"

	"replyflow/internal/domain"
)

// QueryService serves processed-review reads, cache-aside. Processed rows
// are append-only, so a cached copy can only ever go stale by TTL.
type QueryService struct {
	store    domain.ReviewStore
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(store domain.ReviewStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: store, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetProcessed(ctx context.Context, orgReviewID string) (domain.ProcessedReview, error) {
	key := "processed:" + orgReviewID
	var pr domain.ProcessedReview
	if ok, _ := s.cache.Get(ctx, key, &pr); ok {
		return pr, nil
	}
	pr, err := s.store.GetProcessed(ctx, orgReviewID)
	if err != nil {
		return domain.ProcessedReview{}, err
	}
	_ = s.cache.Set(ctx, key, pr, int(s.cacheTTL.Seconds()))
	return pr, nil
}
