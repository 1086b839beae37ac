package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpserver "replyflow/internal/adapters/http_server"
	"replyflow/internal/app"
	"replyflow/internal/domain"
)

// ---- minimal fakes over the domain ports ----

type memStore struct {
	mu        sync.Mutex
	reviews   map[string]domain.Review
	products  map[string]bool
	processed map[string]domain.ProcessedReview
}

func newMemStore() *memStore {
	return &memStore{
		reviews:   map[string]domain.Review{},
		products:  map[string]bool{},
		processed: map[string]domain.ProcessedReview{},
	}
}

func (s *memStore) FindReviewBySourceID(ctx context.Context, id string) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *memStore) FindReviewsForProduct(ctx context.Context, productID string, ids []string) ([]domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Review
	for _, id := range ids {
		if r, ok := s.reviews[id]; ok && r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ProductExists(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID], nil
}

func (s *memStore) FindProcessedByOriginID(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pr, ok := s.processed[id]; ok {
		return pr.ID, nil
	}
	return 0, domain.ErrNotFound
}

func (s *memStore) GetProcessed(ctx context.Context, id string) (domain.ProcessedReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.processed[id]
	if !ok {
		return domain.ProcessedReview{}, domain.ErrNotFound
	}
	return pr, nil
}

func (s *memStore) InsertProcessed(ctx context.Context, pr domain.ProcessedReview) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[pr.OrgReviewID]; ok {
		return 0, domain.ErrDuplicate
	}
	pr.ID = int64(len(s.processed) + 1)
	s.processed[pr.OrgReviewID] = pr
	return pr.ID, nil
}

func (s *memStore) UpsertReviews(ctx context.Context, rs []domain.Review) error { return nil }

type okTranslator struct{}

func (okTranslator) Translate(ctx context.Context, text string) (string, error) { return "en", nil }

type okReplier struct{}

func (okReplier) GenerateReply(ctx context.Context, text string) (domain.GeneratedReply, error) {
	return domain.GeneratedReply{AIReply: "thanks"}, nil
}

type okAnalyzer struct{}

func (okAnalyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	return domain.Analysis{Sentiment: "Positive"}, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dst any) (bool, error)   { return false, nil }
func (noopCache) Set(ctx context.Context, key string, v any, ttlSec int) error { return nil }
func (noopCache) Del(ctx context.Context, key string) error                    { return nil }

// ---- wiring ----

func newTestServer(store *memStore) (http.Handler, *app.Dispatcher) {
	p := app.NewProcessor(store, okTranslator{}, okReplier{}, okAnalyzer{}, nil, time.Second, time.Minute)
	d := app.NewDispatcher(store, p, 2)
	q := app.NewQueryService(store, noopCache{}, time.Minute)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{D: d, Q: q})
	return srv.Mux(), d
}

func TestProcessReviews_Accepted(t *testing.T) {
	store := newMemStore()
	store.products["p1"] = true
	store.reviews["r1"] = domain.Review{
		SourceReviewID: "r1", ProductID: "p1", Source: "store-x",
		RawReview: map[string]any{"attributes": map[string]any{"title": "Hi", "body": "there"}},
	}
	h, d := newTestServer(store)

	body := `{"productId":"p1","sourceReviewIds":["r1"]}`
	req := httptest.NewRequest("POST", "/v1/reviews/process", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Accepted []string `json:"accepted"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Accepted) != 1 || resp.Accepted[0] != "r1" {
		t.Fatalf("accepted: %v", resp.Accepted)
	}

	// background run completes and persists
	d.Wait()
	if _, ok := store.processed["r1"]; !ok {
		t.Fatal("expected processed doc after background run")
	}
}

func TestProcessReviews_UnknownProduct(t *testing.T) {
	h, _ := newTestServer(newMemStore())

	req := httptest.NewRequest("POST", "/v1/reviews/process", strings.NewReader(`{"productId":"nope","sourceReviewIds":["r1"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rr.Code)
	}
}

func TestProcessReviews_BadBody(t *testing.T) {
	h, _ := newTestServer(newMemStore())

	for _, body := range []string{"not json", `{"productId":"p1"}`, `{"sourceReviewIds":["r1"]}`} {
		req := httptest.NewRequest("POST", "/v1/reviews/process", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status %d", body, rr.Code)
		}
	}
}

func TestGetProcessed(t *testing.T) {
	store := newMemStore()
	store.processed["r1"] = domain.ProcessedReview{
		ID: 1, OrgReviewID: "r1", IsProcessed: true, EnReview: "Great, Love it",
	}
	h, _ := newTestServer(store)

	req := httptest.NewRequest("GET", "/v1/reviews/r1/processed", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	var pr domain.ProcessedReview
	if err := json.Unmarshal(rr.Body.Bytes(), &pr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pr.OrgReviewID != "r1" || pr.EnReview != "Great, Love it" {
		t.Fatalf("unexpected doc: %+v", pr)
	}
}

func TestGetProcessed_NotFound(t *testing.T) {
	h, _ := newTestServer(newMemStore())

	req := httptest.NewRequest("GET", "/v1/reviews/missing/processed", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(newMemStore())

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
}
