package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	genai "google.golang.org/genai"

	"search-summarizer/internal/config"
)

var (
	ErrNotConfigured   = errors.New("gemini api key not configured")
	ErrMalformedOutput = errors.New("model returned malformed extraction output")
)

// Client talks to the Gemini API. It serves both structured extraction and
// plain text generation and is safe for concurrent use.
type Client struct {
	models     *genai.Models
	model      string
	timeout    time.Duration
	maxRetries int
	breaker    *CircuitBreaker
	log        zerolog.Logger

	initialBackoff time.Duration
}

// NewClient creates a Gemini client from cfg. It returns ErrNotConfigured
// when no API key is set.
func NewClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Client, error) {
	if !cfg.GeminiConfigured() {
		return nil, ErrNotConfigured
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Gemini.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Gemini.BaseURL}
	}
	gc, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log = log.With().Str("component", "gemini").Str("model", cfg.Gemini.Model).Logger()
	return &Client{
		models:         gc.Models,
		model:          cfg.Gemini.Model,
		timeout:        cfg.Gemini.Timeout,
		maxRetries:     cfg.Gemini.MaxRetries,
		breaker:        NewCircuitBreaker(cfg.Gemini.BreakerThreshold, cfg.Gemini.BreakerTimeout, log),
		log:            log,
		initialBackoff: 250 * time.Millisecond,
	}, nil
}

// Model returns the configured model id.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Generate sends prompt as-is and returns the model's text reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	return c.generate(ctx, genai.Text(prompt), nil)
}

// Extract asks the model for entities matching schema, using the JSON
// response mode so the reply is constrained to the schema's envelope.
func (c *Client) Extract(ctx context.Context, doc Document, schema *Schema, opts ExtractOptions) ([]Entity, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	if schema == nil {
		return nil, errors.New("extraction schema is nil")
	}

	temperature := opts.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  opts.MaxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema.responseSchema(),
	}

	text, err := c.generate(ctx, genai.Text(schema.prompt(doc)), genCfg)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Entities []Entity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	entities := make([]Entity, 0, len(envelope.Entities))
	for _, e := range envelope.Entities {
		if e.Attributes == nil {
			e.Attributes = map[string]any{}
		}
		entities = append(entities, e)
	}
	c.log.Debug().Str("document_id", doc.ID).Int("entities", len(entities)).Msg("Extraction completed")
	return entities, nil
}

// generate performs one logical call: transient failures are retried up to
// maxRetries times with exponential backoff, every attempt passes through the
// circuit breaker.
func (c *Client) generate(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (string, error) {
	var text string
	attempt := 0

	op := func() error {
		attempt++
		err := c.breaker.Call(ctx, func() error {
			callCtx := ctx
			if c.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, c.timeout)
				defer cancel()
			}
			resp, err := c.models.GenerateContent(callCtx, c.model, contents, genCfg)
			if err != nil {
				return err
			}
			text = responseText(resp)
			return nil
		})
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isTransient(err) {
			return backoff.Permanent(err)
		}
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("Transient Gemini error")
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	retries := c.maxRetries
	if retries < 0 {
		retries = 0
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)); err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// isTransient reports whether err is worth retrying: rate limits, server
// errors, network failures and per-call deadlines.
func isTransient(err error) bool {
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case genai.APIError:
			return retryableStatus(v.Code)
		case *genai.APIError:
			return retryableStatus(v.Code)
		}
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
