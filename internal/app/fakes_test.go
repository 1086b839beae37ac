package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"replyflow/internal/domain"
)

// ---- fakes over the domain ports ----

type fakeStore struct {
	mu        sync.Mutex
	reviews   map[string]domain.Review // by source review id
	products  map[string]bool
	processed map[string]domain.ProcessedReview // by org review id
	inserts   int
	insertErr error
	findErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reviews:   map[string]domain.Review{},
		products:  map[string]bool{},
		processed: map[string]domain.ProcessedReview{},
	}
}

func (s *fakeStore) FindReviewBySourceID(ctx context.Context, id string) (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return domain.Review{}, s.findErr
	}
	r, ok := s.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) FindReviewsForProduct(ctx context.Context, productID string, ids []string) ([]domain.Review, error) {
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

func (s *fakeStore) ProductExists(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID], nil
}

func (s *fakeStore) FindProcessedByOriginID(ctx context.Context, orgReviewID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pr, ok := s.processed[orgReviewID]; ok {
		return pr.ID, nil
	}
	return 0, domain.ErrNotFound
}

func (s *fakeStore) GetProcessed(ctx context.Context, orgReviewID string) (domain.ProcessedReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.processed[orgReviewID]
	if !ok {
		return domain.ProcessedReview{}, domain.ErrNotFound
	}
	return pr, nil
}

func (s *fakeStore) InsertProcessed(ctx context.Context, pr domain.ProcessedReview) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	if _, ok := s.processed[pr.OrgReviewID]; ok {
		return 0, domain.ErrDuplicate
	}
	s.inserts++
	pr.ID = int64(s.inserts)
	s.processed[pr.OrgReviewID] = pr
	return pr.ID, nil
}

func (s *fakeStore) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		s.reviews[r.SourceReviewID] = r
	}
	return nil
}

func (s *fakeStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// ---- agents ----

type fakeTranslator struct {
	out   string
	err   error
	calls int32
	mu    sync.Mutex
}

func (f *fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.out, f.err
}

type fakeReplier struct {
	out   domain.GeneratedReply
	err   error
	gotIn string
	mu    sync.Mutex
}

func (f *fakeReplier) GenerateReply(ctx context.Context, text string) (domain.GeneratedReply, error) {
	f.mu.Lock()
	f.gotIn = text
	f.mu.Unlock()
	return f.out, f.err
}

type fakeAnalyzer struct {
	out domain.Analysis
	err error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	return f.out, f.err
}

// ---- run lock ----

type fakeLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLock() *fakeLock { return &fakeLock{held: map[string]bool{}} }

func (l *fakeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

// ---- cache ----

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok2 := dst.(*domain.ProcessedReview); ok2 {
		*d = v.(domain.ProcessedReview)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

var errAgentDown = errors.New("agent down")
