package metrics

import "time"

// Mode labels.
const (
	ModeLocal      = "local"
	ModeProduction = "production"
)

// CacheResult labels preview page cache lookups.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// Recorder defines observability hooks for rewrites and preview serving.
type Recorder interface {
	ObserveRewrite(mode string, links int, d time.Duration)
	IncRewriteFailure(mode string)
	IncCacheResult(result CacheResult)
	SetCachedPages(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRewrite(string, int, time.Duration) {}
func (NoopRecorder) IncRewriteFailure(string)                  {}
func (NoopRecorder) IncCacheResult(CacheResult)                {}
func (NoopRecorder) SetCachedPages(int)                        {}
