package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"replyflow/internal/domain"
)

// Dispatcher validates batch submissions and schedules one background
// processor run per accepted review id. Submission never waits for runs to
// finish; failures land in logs and metrics only.
type Dispatcher struct {
	store     domain.ReviewStore
	processor *Processor
	sem       *semaphore.Weighted
	wg        sync.WaitGroup
}

func NewDispatcher(store domain.ReviewStore, p *Processor, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 8
	}
	return &Dispatcher{
		store:     store,
		processor: p,
		sem:       semaphore.NewWeighted(int64(workers)),
	}
}

// Submit rejects the whole batch when the product is unknown or any id does
// not resolve to a review of that product; otherwise it schedules every id
// and returns the accepted list immediately.
func (d *Dispatcher) Submit(ctx context.Context, productID string, sourceReviewIDs []string) ([]string, error) {
	ok, err := d.store.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("validate product %s: %w", productID, err)
	}
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
	}

	revs, err := d.store.FindReviewsForProduct(ctx, productID, sourceReviewIDs)
	if err != nil {
		return nil, fmt.Errorf("validate reviews for %s: %w", productID, err)
	}
	if len(revs) != len(sourceReviewIDs) {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrReviewMismatch)
	}

	for _, id := range sourceReviewIDs {
		d.spawn(id)
	}
	log.Info().Str("product", productID).Int("count", len(sourceReviewIDs)).Msg("reviews submitted for processing")
	return sourceReviewIDs, nil
}

// spawn runs one review in the background, bounded by the worker semaphore.
// Uses a fresh context: the triggering request's cancellation must not kill
// work the caller was told is accepted.
func (d *Dispatcher) spawn(sourceReviewID string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx := context.Background()
		if err := d.sem.Acquire(ctx, 1); err != nil {
			log.Error().Str("review", sourceReviewID).Err(err).Msg("worker slot acquire failed")
			return
		}
		defer d.sem.Release(1)

		if err := d.processor.Process(ctx, sourceReviewID); err != nil {
			log.Error().Str("review", sourceReviewID).Err(err).Msg("background run failed")
		}
	}()
}

// Wait blocks until all in-flight runs have finished. Used on shutdown and
// by tests.
func (d *Dispatcher) Wait() { d.wg.Wait() }
