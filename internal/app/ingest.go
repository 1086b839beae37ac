package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"replyflow/internal/domain"
)

const sourceAppStore = "app-store"

// IngestionService pulls customer reviews from a source platform into the
// store, keyed by the platform's review id so re-ingestion is idempotent.
type IngestionService struct {
	src   domain.ReviewSource
	store domain.ReviewStore
}

func NewIngestionService(src domain.ReviewSource, store domain.ReviewStore) *IngestionService {
	return &IngestionService{src: src, store: store}
}

func (s *IngestionService) IngestProduct(ctx context.Context, productID string, count int) error {
	entries, err := s.src.CustomerReviews(ctx, productID, count)
	if err != nil {
		return fmt.Errorf("fetch reviews for %s: %w", productID, err)
	}
	if len(entries) == 0 {
		log.Info().Str("product", productID).Msg("no reviews returned")
		return nil
	}

	rs := mapEntries(productID, entries)
	if err := s.store.UpsertReviews(ctx, rs); err != nil {
		return fmt.Errorf("upsert reviews for %s: %w", productID, err)
	}
	log.Info().Str("product", productID).Int("count", len(rs)).Msg("reviews ingested")
	return nil
}

// mapEntries turns raw platform documents into Review rows. Entries without
// an id are dropped: the review id is the idempotency key downstream and a
// row without one can never be processed.
func mapEntries(productID string, entries []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(entries))
	for _, e := range entries {
		id, _ := e["id"].(string)
		if id == "" {
			log.Warn().Str("product", productID).Msg("review entry without id, dropped")
			continue
		}
		raw := map[string]any{}
		if attrs, ok := e["attributes"].(map[string]any); ok {
			raw["attributes"] = attrs
		}
		out = append(out, domain.Review{
			SourceReviewID: id,
			ProductID:      productID,
			Source:         sourceAppStore,
			RawReview:      raw,
		})
	}
	return out
}
