package agents

import (
	"context"
	crand "crypto/rand"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// completer is the model invocation the three agents share: one system
// instruction, one user message, one text completion back.
type completer interface {
	complete(ctx context.Context, instruction, input string) (string, error)
}

type Client struct {
	oa    *openai.Client
	model string
	rl    *rate.Limiter
}

func NewClient(apiKey, model string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		oa:    openai.NewClient(option.WithAPIKey(apiKey)),
		model: model,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// complete performs one chat completion with client-side rate limiting and
// retries on transport errors or empty responses.
func (c *Client) complete(ctx context.Context, instruction, input string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		chat, err := c.oa.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(instruction),
				openai.UserMessage(input),
			}),
			Model:       openai.F(openai.ChatModel(c.model)),
			Temperature: openai.Float(0.2),
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			log.Warn().Err(err).Int("attempt", i+1).Msg("completion failed, retrying")
			if !sleepCtx(ctx, backoff(i)) {
				return "", ctx.Err()
			}
			continue
		}
		if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
			lastErr = errors.New("empty completion")
			log.Warn().Int("attempt", i+1).Msg("empty completion, retrying")
			if !sleepCtx(ctx, backoff(i)) {
				return "", ctx.Err()
			}
			continue
		}
		return chat.Choices[0].Message.Content, nil
	}
	return "", lastErr
}

var thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// clean strips reasoning blocks and markdown fences some models wrap their
// output in, leaving bare text/JSON.
func clean(s string) string {
	s = thinkRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% concurrency-safe jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
