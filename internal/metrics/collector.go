// Package metrics はPrometheusのメトリクスを収集します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はアプリケーションのメトリクスを保持します。
// レジストリはインスタンスごとに作るので、テストで何度生成しても重複登録になりません。
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	ListsCreated prometheus.Counter
	TodosCreated prometheus.Counter
}

func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ListsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "todo_lists_created_total",
			Help:      "Total number of todo lists created",
		}),
		TodosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "todos_created_total",
			Help:      "Total number of todos created",
		}),
	}
	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ListsCreated,
		c.TodosCreated,
		prometheus.NewGoCollector(),
	)
	return c
}

// ObserveRequest はHTTPリクエスト1件を記録します。
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) ListCreated() {
	if c != nil {
		c.ListsCreated.Inc()
	}
}

func (c *Collector) TodoCreated() {
	if c != nil {
		c.TodosCreated.Inc()
	}
}

// Handler は /metrics 用のハンドラーを返します。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry はテストで値を確認するためのレジストリです。
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
