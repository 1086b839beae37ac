package app_test

import (
	"context"
	"testing"
	"time"

	"replyflow/internal/app"
	"replyflow/internal/domain"
)

func TestGetProcessed_CacheMissThenHit(t *testing.T) {
	store := newFakeStore()
	store.processed["r1"] = domain.ProcessedReview{ID: 1, OrgReviewID: "r1", IsProcessed: true, EnReview: "hello"}
	cache := &fakeCache{}
	q := app.NewQueryService(store, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	pr, err := q.GetProcessed(context.Background(), "r1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if pr.EnReview != "hello" {
		t.Fatalf("unexpected doc: %+v", pr)
	}

	// Mutate store to prove the second read comes from cache
	mut := store.processed["r1"]
	mut.EnReview = "SHOULD NOT SEE THIS"
	store.processed["r1"] = mut

	pr2, err := q.GetProcessed(context.Background(), "r1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if pr2.EnReview != "hello" {
		t.Fatalf("expected cached value, got %q", pr2.EnReview)
	}
}

func TestGetProcessed_NotFound(t *testing.T) {
	q := app.NewQueryService(newFakeStore(), &fakeCache{}, time.Minute)
	if _, err := q.GetProcessed(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing doc")
	}
}
