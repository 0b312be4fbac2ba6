package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Cache stores finished summaries keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (*CachedSummary, bool, error)
	Set(ctx context.Context, key string, entry *CachedSummary) error
}

// CachedSummary is a cache entry: the summary and the strategy that made it.
type CachedSummary struct {
	Source  string         `json:"source"`
	Summary *SearchSummary `json:"summary"`
}

// Result is what the chain hands back to callers.
type Result struct {
	Summary *SearchSummary
	Source  string
	Cached  bool
}

// Chain runs strategies in order and always produces a summary: when every
// strategy fails the static placeholder is returned.
type Chain struct {
	strategies []Strategy
	cache      Cache
	log        zerolog.Logger
}

func NewChain(log zerolog.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, log: log}
}

// NewDefaultChain wires the structured, direct and static strategies.
func NewDefaultChain(extractor Extractor, generator Generator, log zerolog.Logger) *Chain {
	return NewChain(log,
		NewStructuredStrategy(extractor),
		NewDirectPromptStrategy(generator),
		StaticStrategy{},
	)
}

// WithCache enables result caching. A nil cache disables it.
func (c *Chain) WithCache(cache Cache) *Chain {
	c.cache = cache
	return c
}

// Summarize never fails. Strategy errors and panics are logged and the next
// strategy is tried.
func (c *Chain) Summarize(ctx context.Context, query string, results []SearchResult) Result {
	log := c.logger(ctx).With().Str("query", query).Int("results", len(results)).Logger()

	key := CacheKey(query, results)
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("summary cache lookup failed")
		case ok && cached != nil && cached.Summary != nil:
			log.Debug().Str("key", key).Msg("summary cache hit")
			return Result{Summary: cached.Summary, Source: cached.Source, Cached: true}
		}
	}

	for _, s := range c.strategies {
		start := time.Now()
		summary, err := c.attempt(ctx, s, query, results)
		if err != nil {
			log.Warn().Err(err).Str("strategy", s.Name()).Dur("elapsed", time.Since(start)).Msg("summary strategy failed")
			continue
		}
		if summary == nil {
			summary = NewSearchSummary()
		}

		source := s.Name()
		if summary.degraded {
			source = SourceDegraded
		}
		log.Info().Str("source", source).Dur("elapsed", time.Since(start)).Msg("summary generated")

		if c.cache != nil && (source == SourceStructured || source == SourceDirect) {
			if err := c.cache.Set(ctx, key, &CachedSummary{Source: source, Summary: summary}); err != nil {
				log.Warn().Err(err).Msg("summary cache store failed")
			}
		}
		return Result{Summary: summary, Source: source}
	}

	log.Error().Msg("all summary strategies failed, using static summary")
	return Result{Summary: StaticSummary(query), Source: SourceStatic}
}

func (c *Chain) attempt(ctx context.Context, s Strategy, query string, results []SearchResult) (summary *SearchSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			summary, err = nil, fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Attempt(ctx, query, results)
}

func (c *Chain) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled && l != zerolog.DefaultContextLogger {
		return l
	}
	return &c.log
}

// CacheKey derives a stable key from the query and results. The query is
// trimmed and lowercased first, so case and whitespace variants of one search
// share an entry.
func CacheKey(query string, results []SearchResult) string {
	payload, _ := json.Marshal(struct {
		Query   string         `json:"q"`
		Results []SearchResult `json:"r"`
	}{strings.ToLower(strings.TrimSpace(query)), results})
	sum := sha256.Sum256(payload)
	return "summary:" + hex.EncodeToString(sum[:])
}
