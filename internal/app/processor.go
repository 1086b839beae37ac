package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"replyflow/internal/adapters/observability"
	"replyflow/internal/domain"
)

const defaultAgentTimeout = 60 * time.Second

// Processor runs the full per-review flow: fetch, duplicate check, field
// extraction, concurrent agent fan-out, join, and persistence. Safe for
// concurrent use across independent review ids.
type Processor struct {
	store        domain.ReviewStore
	translator   domain.Translator
	replier      domain.ReplyGenerator
	analyzer     domain.Analyzer
	lock         domain.RunLock // optional
	writer       *ResultWriter
	agentTimeout time.Duration
	lockTTL      time.Duration
}

func NewProcessor(store domain.ReviewStore, tr domain.Translator, rg domain.ReplyGenerator, an domain.Analyzer, lock domain.RunLock, agentTimeout, lockTTL time.Duration) *Processor {
	if agentTimeout <= 0 {
		agentTimeout = defaultAgentTimeout
	}
	return &Processor{
		store:        store,
		translator:   tr,
		replier:      rg,
		analyzer:     an,
		lock:         lock,
		writer:       NewResultWriter(store),
		agentTimeout: agentTimeout,
		lockTTL:      lockTTL,
	}
}

// Process runs one review to completion. Returns nil both on a persisted
// result and on a duplicate skip; callers that need to retry only care about
// real failures.
func (p *Processor) Process(ctx context.Context, sourceReviewID string) error {
	log.Info().Str("review", sourceReviewID).Msg("processing review")

	// 1) Fetch.
	rev, err := p.store.FindReviewBySourceID(ctx, sourceReviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			observability.ObserveRun("failed")
			return fmt.Errorf("review %s: %w", sourceReviewID, domain.ErrNotFound)
		}
		observability.ObserveRun("failed")
		return fmt.Errorf("fetch review %s: %w", sourceReviewID, err)
	}

	// 2) Guard #1: skip before any expensive work.
	if recID, done := p.alreadyProcessed(ctx, sourceReviewID); done {
		log.Info().Str("review", sourceReviewID).Int64("processed_id", recID).Msg("already processed, skipping")
		observability.ObserveRun("skipped_duplicate")
		return nil
	}

	// Run lock: a concurrent run of the same id shouldn't pay for agent
	// calls twice. Best effort; the store's unique index is the authority.
	if p.lock != nil {
		got, lerr := p.lock.Acquire(ctx, runLockKey(sourceReviewID), p.lockTTL)
		if lerr != nil {
			log.Warn().Str("review", sourceReviewID).Err(lerr).Msg("run lock unavailable, continuing unlocked")
		} else if !got {
			log.Info().Str("review", sourceReviewID).Msg("run already in flight, skipping")
			observability.ObserveRun("skipped_locked")
			return nil
		} else {
			defer func() {
				if rerr := p.lock.Release(ctx, runLockKey(sourceReviewID)); rerr != nil {
					log.Warn().Str("review", sourceReviewID).Err(rerr).Msg("run lock release failed")
				}
			}()
		}
	}

	// 3) Extract.
	fields, err := ExtractFields(rev)
	if err != nil {
		observability.ObserveRun("failed")
		return err
	}

	// 4/5) Fan out the three agents and join. Each goroutine owns its result
	// slot; nothing is shared until after Wait.
	var (
		wg            sync.WaitGroup
		translation   string
		reply         domain.GeneratedReply
		analysis      domain.Analysis
		tOK, rOK, aOK bool
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		translation, tOK = invoke(ctx, "translator", p.agentTimeout, func(c context.Context) (string, error) {
			return p.translator.Translate(c, fields.ReviewText)
		})
	}()
	go func() {
		defer wg.Done()
		// The reply agent's instruction prompt depends on this exact framing.
		in := fmt.Sprintf("customer name: %s\nreview text: %s", fields.CustomerName, fields.ReviewText)
		reply, rOK = invoke(ctx, "reply_generator", p.agentTimeout, func(c context.Context) (domain.GeneratedReply, error) {
			return p.replier.GenerateReply(c, in)
		})
	}()
	go func() {
		defer wg.Done()
		analysis, aOK = invoke(ctx, "analyzer", p.agentTimeout, func(c context.Context) (domain.Analysis, error) {
			return p.analyzer.Analyze(c, fields.ReviewText)
		})
	}()
	wg.Wait()

	// 6) All-or-nothing: any missing result aborts persistence.
	if !tOK || !rOK || !aOK {
		failed := failedAgents(tOK, rOK, aOK)
		log.Error().Str("review", sourceReviewID).Strs("failed", failed).Msg("agent subtasks failed, skipping save")
		observability.ObserveRun("failed")
		return fmt.Errorf("%w: %s", domain.ErrAgentFailure, strings.Join(failed, ", "))
	}

	// 7) Guard #2: a concurrent run may have settled this id meanwhile.
	if recID, done := p.alreadyProcessed(ctx, sourceReviewID); done {
		log.Info().Str("review", sourceReviewID).Int64("processed_id", recID).Msg("processed concurrently, skipping save")
		observability.ObserveRun("skipped_duplicate")
		return nil
	}

	// 8) Persist.
	if err := p.writer.Persist(ctx, sourceReviewID, translation, reply, analysis, fields); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			log.Info().Str("review", sourceReviewID).Msg("insert lost the race, skipping")
			observability.ObserveRun("skipped_duplicate")
			return nil
		}
		observability.ObserveRun("failed")
		return err
	}
	observability.ObserveRun("persisted")
	log.Info().Str("review", sourceReviewID).Msg("review processed")
	return nil
}

// alreadyProcessed is the duplicate guard: pure read, no side effects.
// Store errors are logged and treated as "not processed"; the guard only
// narrows the race, the unique index closes it.
func (p *Processor) alreadyProcessed(ctx context.Context, sourceReviewID string) (int64, bool) {
	recID, err := p.store.FindProcessedByOriginID(ctx, sourceReviewID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Str("review", sourceReviewID).Err(err).Msg("duplicate check failed")
		}
		return 0, false
	}
	return recID, true
}

func runLockKey(sourceReviewID string) string { return "process:" + sourceReviewID }

func failedAgents(tOK, rOK, aOK bool) []string {
	var out []string
	if !tOK {
		out = append(out, "translator")
	}
	if !rOK {
		out = append(out, "reply_generator")
	}
	if !aOK {
		out = append(out, "analyzer")
	}
	return out
}

// invoke wraps one agent call: per-call timeout, errors and panics logged
// with the agent's identity and converted to absence so one agent's failure
// never disturbs its siblings.
func invoke[T any](ctx context.Context, name string, timeout time.Duration, fn func(context.Context) (T, error)) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("agent", name).Interface("panic", r).Msg("agent invocation panicked")
			var zero T
			out, ok = zero, false
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	v, err := fn(cctx)
	if err != nil {
		log.Error().Str("agent", name).Err(err).Msg("agent invocation failed")
		observability.ObserveAgent(name, "error", time.Since(start))
		var zero T
		return zero, false
	}
	observability.ObserveAgent(name, "ok", time.Since(start))
	return v, true
}
