package main

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"search-summarizer/internal/config"
	"search-summarizer/internal/llm"
	"search-summarizer/internal/logging"
	redisdb "search-summarizer/internal/redis"
	"search-summarizer/internal/search"
	"search-summarizer/internal/summary"
)

// app holds everything built from the configuration.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	gemini  *llm.Client
	chain   *summary.Chain
	search  *search.Client
	closers []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	log, logCloser, err := logging.Setup(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	a.gemini, err = llm.NewClient(ctx, cfg, log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn().Msg("GEMINI_API_KEY not set, summaries will use the static fallback")
	case err != nil:
		a.Close()
		return nil, err
	}

	a.chain = summary.NewDefaultChain(a.gemini, a.gemini, log)
	if rdb := redisdb.NewClient(cfg); rdb != nil {
		if err := redisdb.Ping(ctx, rdb); err != nil {
			log.Warn().Err(err).Msg("summary cache disabled")
			rdb.Close()
		} else {
			a.chain.WithCache(redisdb.NewSummaryCache(rdb, cfg.Redis.TTL))
			a.closers = append(a.closers, rdb)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("summary cache enabled")
		}
	}

	a.search = search.NewClient(cfg)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
