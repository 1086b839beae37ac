package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"replyflow/internal/domain"
)

// ResultWriter assembles and inserts the final ProcessedReview. It never
// updates an existing document; a successful run produces exactly one row.
type ResultWriter struct {
	store domain.ReviewStore
}

func NewResultWriter(store domain.ReviewStore) *ResultWriter {
	return &ResultWriter{store: store}
}

// Persist re-checks the duplicate guard immediately before the insert
// (defense in depth alongside the orchestrator's own re-check), then writes
// a single row. A unique-index conflict surfaces as domain.ErrDuplicate.
func (w *ResultWriter) Persist(ctx context.Context, orgReviewID, translation string, reply domain.GeneratedReply, analysis domain.Analysis, f domain.ExtractedFields) error {
	if recID, err := w.store.FindProcessedByOriginID(ctx, orgReviewID); err == nil {
		log.Info().Str("review", orgReviewID).Int64("processed_id", recID).Msg("already processed, skipping save")
		return domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("pre-insert duplicate check for %s: %w", orgReviewID, err)
	}

	pr := domain.ProcessedReview{
		OrgReviewID: orgReviewID,
		IsProcessed: true,
		EnReview:    translation,
		AIGeneratedReply: domain.AIGeneratedReply{
			AIReply:    reply.AIReply,
			IsApproved: false,
		},
		Analysis:   analysis,
		ReviewDate: f.ReviewDate,
		Source:     f.Source,
		ProductID:  f.ProductID,
		RawReview:  f.RawReview,
	}

	id, err := w.store.InsertProcessed(ctx, pr)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		return fmt.Errorf("insert processed review %s: %w", orgReviewID, err)
	}
	log.Info().
		Str("review", orgReviewID).
		Int64("processed_id", id).
		Str("en_reply", reply.EnReply).
		Msg("processed review saved")
	return nil
}
