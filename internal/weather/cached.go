package weather

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tourli-ai/internal/cache"
	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/metrics"
	"tourli-ai/internal/textnorm"
)

// DefaultTTL is how long cached conditions are served.
const DefaultTTL = 10 * time.Minute

// CachedGateway serves conditions from a cache before calling the wrapped Gateway.
// Cache failures fall through to the wrapped Gateway.
type CachedGateway struct {
	next  Gateway
	cache cache.Client
	ttl   time.Duration
}

// NewCachedGateway wraps next with c.
func NewCachedGateway(next Gateway, c cache.Client, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedGateway{next: next, cache: c, ttl: ttl}
}

// Current returns cached conditions for city, fetching and storing them on a miss.
func (g *CachedGateway) Current(ctx context.Context, city string) (Conditions, error) {
	logger := contextutil.LoggerFromContext(ctx)
	key := cache.Key("weather", textnorm.Normalize(city))

	if raw, err := g.cache.Get(ctx, key); err == nil {
		var c Conditions
		if err := json.Unmarshal(raw, &c); err == nil {
			logger.DebugContext(ctx, "weather cache hit", "city", city)
			metrics.CacheHits.WithLabelValues("weather").Inc()
			return c, nil
		}
		logger.WarnContext(ctx, "discarding undecodable weather cache entry", "city", city)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.WarnContext(ctx, "weather cache get failed", "city", city, "error", err)
	}

	metrics.CacheMisses.WithLabelValues("weather").Inc()

	c, err := g.next.Current(ctx, city)
	if err != nil {
		return Conditions{}, err
	}

	if raw, err := json.Marshal(c); err == nil {
		if err := g.cache.Set(ctx, key, raw, g.ttl); err != nil {
			logger.WarnContext(ctx, "weather cache set failed", "city", city, "error", err)
		}
	}
	return c, nil
}
