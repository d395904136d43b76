package player

import (
	"context"

	"MeloFM/logger"
)

// MediaCache is the durable offline cache keyed by resolved asset URL.
// Eviction is owned elsewhere.
type MediaCache interface {
	Has(ctx context.Context, url string) (bool, error)
	Store(ctx context.Context, url string) error
}

// CacheAdvisor decides whether a music's media asset should be stored in the
// offline cache after a session ends.
type CacheAdvisor struct {
	cache     MediaCache
	threshold float64
	debug     bool
}

// NewCacheAdvisor creates an advisor. threshold is the played fraction above
// which media gets cached; debug forces caching regardless of fraction.
func NewCacheAdvisor(cache MediaCache, threshold float64, debug bool) *CacheAdvisor {
	return &CacheAdvisor{
		cache:     cache,
		threshold: threshold,
		debug:     debug,
	}
}

// Advise stores the asset when the played fraction warrants it and the asset
// is not already cached. Best effort: every failure is logged and swallowed.
func (a *CacheAdvisor) Advise(ctx context.Context, url string, playedFraction float64) {
	if a == nil || a.cache == nil || url == "" {
		return
	}

	if !a.debug && playedFraction <= a.threshold {
		return
	}

	exist, err := a.cache.Has(ctx, url)
	if err != nil {
		logger.Warn("查询媒体缓存失败",
			logger.String("url", url),
			logger.ErrorField(err))
		return
	}
	if exist {
		return
	}

	if err := a.cache.Store(ctx, url); err != nil {
		logger.Warn("写入媒体缓存失败",
			logger.String("url", url),
			logger.ErrorField(err))
		return
	}

	logger.Debug("媒体已缓存",
		logger.String("url", url),
		logger.Float64("playedFraction", playedFraction))
}
