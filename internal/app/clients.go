package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/inspect-backend/internal/cache"
	"github.com/yungbote/inspect-backend/internal/linkmeta"
	"github.com/yungbote/inspect-backend/internal/platform/logger"
	"github.com/yungbote/inspect-backend/internal/services"
)

type Clients struct {
	Cache   cache.Store
	Fetcher services.MetaFetcher

	closers []func() error
}

// Close releases client connections. It is safe to call more than once.
func (c *Clients) Close() error {
	if c == nil {
		return nil
	}
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (*Clients, error) {
	log.Info("Wiring clients...")
	out := &Clients{}

	if cfg.RedisAddr != "" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		out.Cache = store
		out.closers = append(out.closers, store.Close)
		log.Info("Source cache backed by redis", "addr", cfg.RedisAddr)
	} else {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		out.Cache = cache.NewMemoryStore(ttl, 2*ttl)
		log.Info("Source cache backed by memory", "ttl", ttl.String())
	}

	if cfg.LinkFetchTitles {
		out.Fetcher = linkmeta.NewFetcher(linkmeta.FetcherConfig{
			Timeout:   cfg.LinkFetchTimeout,
			UserAgent: cfg.LinkFetchUserAgent,
			RPS:       1,
			Burst:     2,
		})
	}
	return out, nil
}
