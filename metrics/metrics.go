// Package metrics 定义服务的Prometheus指标
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "video_matcher"

// Registry 独立的指标注册表，避免与默认注册表中的其他组件冲突
var Registry = prometheus.NewRegistry()

var (
	// ProviderRequests 外部视频搜索请求数，outcome: ok / error / cached
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Video search provider requests by outcome",
		},
		[]string{"outcome"},
	)

	ProviderLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "request_duration_seconds",
			Help:      "Video search provider request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// CacheLookups 搜索缓存查询，tier: l1 / l2，result: hit / miss
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Search cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	// Selections 选片结果，result: matched / fallback / empty / error
	Selections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "selections_total",
			Help:      "Video selections by result",
		},
		[]string{"result"},
	)

	SelectedVideos = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "videos_per_selection",
			Help:      "Number of videos returned per selection",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	// Requests HTTP接口请求，status: ok / rejected / failed
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ProviderRequests,
		ProviderLatency,
		CacheLookups,
		Selections,
		SelectedVideos,
		Requests,
	)
}

// Handler 返回 /metrics 的HTTP处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
