package insight

import (
	"context"
	"time"

	redisadapter "github.com/omnibuslines/booking/internal/adapters/redis"
	"github.com/omnibuslines/booking/internal/observability"
)

// CachedProvider memoizes blurbs per city in Redis. Cache failures fall
// through to the inner provider.
type CachedProvider struct {
	inner  Provider
	cache  *redisadapter.Cache
	ttl    time.Duration
	logger observability.Logger
}

func NewCachedProvider(inner Provider, cache *redisadapter.Cache, ttl time.Duration, logger observability.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (p *CachedProvider) Insight(ctx context.Context, city string) string {
	text, ok, err := p.cache.GetInsight(ctx, city)
	if err != nil {
		p.logger.WithField("city", city).WithField("error", err.Error()).Debug("insight cache read failed")
	}
	if ok {
		observability.InsightRequests.WithLabelValues("cached").Inc()
		return text
	}

	text = p.inner.Insight(ctx, city)
	if err := p.cache.SetInsight(ctx, city, text, p.ttl); err != nil {
		p.logger.WithField("city", city).WithField("error", err.Error()).Debug("insight cache write failed")
	}
	return text
}
