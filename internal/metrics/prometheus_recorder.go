package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	postsRewritten  *prom.CounterVec
	linksFixed      *prom.CounterVec
	rewriteFailures *prom.CounterVec
	rewriteDuration *prom.HistogramVec
	cacheResults    *prom.CounterVec
	cachedPages     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.postsRewritten = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "assetpath",
		Name:      "posts_rewritten_total",
		Help:      "Posts whose asset links were rewritten",
	}, []string{"mode"})
	pr.linksFixed = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "assetpath",
		Name:      "links_fixed_total",
		Help:      "Attribute values changed by the rewriter",
	}, []string{"mode"})
	pr.rewriteFailures = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "assetpath",
		Name:      "rewrite_failures_total",
		Help:      "Posts whose rewrite failed",
	}, []string{"mode"})
	pr.rewriteDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "assetpath",
		Name:      "rewrite_duration_seconds",
		Help:      "Duration of one post rewrite",
		Buckets:   prom.DefBuckets,
	}, []string{"mode"})
	pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "assetpath",
		Subsystem: "preview",
		Name:      "cache_results_total",
		Help:      "Preview page cache lookups by result",
	}, []string{"result"})
	pr.cachedPages = prom.NewGauge(prom.GaugeOpts{
		Namespace: "assetpath",
		Subsystem: "preview",
		Name:      "cached_pages",
		Help:      "Pages currently held by the preview cache",
	})
	reg.MustRegister(pr.postsRewritten, pr.linksFixed, pr.rewriteFailures, pr.rewriteDuration, pr.cacheResults, pr.cachedPages)
	return pr
}

func (p *PrometheusRecorder) ObserveRewrite(mode string, links int, d time.Duration) {
	if p == nil {
		return
	}
	p.postsRewritten.WithLabelValues(mode).Inc()
	p.linksFixed.WithLabelValues(mode).Add(float64(links))
	p.rewriteDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRewriteFailure(mode string) {
	if p == nil {
		return
	}
	p.rewriteFailures.WithLabelValues(mode).Inc()
}

func (p *PrometheusRecorder) IncCacheResult(result CacheResult) {
	if p == nil {
		return
	}
	p.cacheResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetCachedPages(n int) {
	if p == nil {
		return
	}
	p.cachedPages.Set(float64(n))
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
