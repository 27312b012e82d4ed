package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/labforge/pkg/cache"
	lferrors "github.com/matzehuels/labforge/pkg/errors"
	"github.com/matzehuels/labforge/pkg/httputil"
	"github.com/matzehuels/labforge/pkg/observability"
	"github.com/matzehuels/labforge/pkg/topology"
)

const cacheKeyType = "assist"

// ChatConfig configures a [ChatClient].
type ChatConfig struct {
	Endpoint string // full chat completions URL
	Model    string
	APIKey   string // sent as a bearer token when set

	Timeout  time.Duration // per HTTP attempt, default 20s
	Attempts int           // default 3
	Backoff  time.Duration // initial retry delay, default 1s

	Cache    cache.Cache // default cache.NewNullCache()
	CacheTTL time.Duration

	HTTPClient *http.Client
}

// ChatClient is a [Summarizer] backed by an OpenAI-compatible
// /v1/chat/completions endpoint. Responses are cached by model and prompt.
type ChatClient struct {
	cfg    ChatConfig
	http   *http.Client
	target *url.URL
}

// NewChatClient validates cfg and fills in defaults.
func NewChatClient(cfg ChatConfig) (*ChatClient, error) {
	if err := lferrors.ValidateURL(cfg.Endpoint); err != nil {
		return nil, err
	}
	target, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "parse assistant endpoint")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &ChatClient{cfg: cfg, http: client, target: target}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Summarize implements [Summarizer].
func (c *ChatClient) Summarize(ctx context.Context, snap topology.Snapshot) (string, error) {
	prompt := Prompt(snap)
	key := cache.Key(cacheKeyType, c.cfg.Model, prompt)

	if data, ok, err := c.cfg.Cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, cacheKeyType)
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var text string
	err = httputil.Retry(ctx, c.cfg.Attempts, c.cfg.Backoff, func() error {
		var err error
		text, err = c.post(ctx, body)
		return err
	})
	if err != nil {
		return "", classify(ctx, err)
	}

	if err := c.cfg.Cache.Set(ctx, key, []byte(text), c.cfg.CacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(text))
	}
	return text, nil
}

func (c *ChatClient) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target.String(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	hooks := observability.HTTP()
	host, path := c.target.Host, c.target.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return "", err
		}
		return "", &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp); err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", lferrors.Wrap(lferrors.ErrCodeUnavailable, err, "decode assistant response")
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", lferrors.New(lferrors.ErrCodeUnavailable, "assistant returned no text")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// classify maps a failed call onto an error code.
func classify(ctx context.Context, err error) error {
	if lferrors.GetCode(err) != "" {
		return err
	}
	var rl *lferrors.RateLimitedError
	var serr *httputil.StatusError
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil || isTimeout(err):
		return lferrors.Wrap(lferrors.ErrCodeTimeout, err, "assistant timed out")
	case errors.As(err, &rl):
		return lferrors.Wrap(lferrors.ErrCodeRateLimited, err, "assistant rate limited")
	case errors.As(err, &serr):
		return lferrors.Wrap(lferrors.ErrCodeUnavailable, err, "assistant returned status %d", serr.StatusCode)
	default:
		return lferrors.Wrap(lferrors.ErrCodeNetwork, err, "assistant request failed")
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
