// Package agents implements the three review agents (translation, reply
// drafting, analysis) over a shared chat-completion client. Each agent owns
// its instruction prompt and validates the model's output shape; anything
// malformed is an error for the orchestrator's invocation wrapper to absorb.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"replyflow/internal/domain"
)

type Translator struct{ c completer }

func NewTranslator(c *Client) *Translator { return &Translator{c: c} }

func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	out, err := t.c.complete(ctx, translatorPrompt, text)
	if err != nil {
		return "", err
	}
	out = clean(out)
	if out == "" {
		return "", errors.New("translator returned empty text")
	}
	return out, nil
}

type ReplyGenerator struct{ c completer }

func NewReplyGenerator(c *Client) *ReplyGenerator { return &ReplyGenerator{c: c} }

func (g *ReplyGenerator) GenerateReply(ctx context.Context, text string) (domain.GeneratedReply, error) {
	out, err := g.c.complete(ctx, replyPrompt, text)
	if err != nil {
		return domain.GeneratedReply{}, err
	}
	raw, err := parseJSONWithKeys(clean(out), "aiReply", "enReply")
	if err != nil {
		return domain.GeneratedReply{}, fmt.Errorf("reply response: %w", err)
	}
	var rep domain.GeneratedReply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return domain.GeneratedReply{}, fmt.Errorf("reply response: %w", err)
	}
	return rep, nil
}

type Analyzer struct{ c completer }

func NewAnalyzer(c *Client) *Analyzer { return &Analyzer{c: c} }

func (a *Analyzer) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	out, err := a.c.complete(ctx, analyzerPrompt, text)
	if err != nil {
		return domain.Analysis{}, err
	}
	raw, err := parseJSONWithKeys(clean(out), "sentiment", "issues", "newRequests")
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analysis response: %w", err)
	}
	var an domain.Analysis
	if err := json.Unmarshal(raw, &an); err != nil {
		return domain.Analysis{}, fmt.Errorf("analysis response: %w", err)
	}
	return an, nil
}

// parseJSONWithKeys checks the payload is a JSON object containing every
// required key. A payload missing required keys is a failure, not a partial
// result.
func parseJSONWithKeys(s string, keys ...string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return nil, fmt.Errorf("missing required key %q", k)
		}
	}
	return json.RawMessage(s), nil
}
