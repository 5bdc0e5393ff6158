// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordNoteCreated()
	RecordSessionStarted()
	RecordSessionCompleted()
	RecordLimitNotification()
	SetActiveConnections(n int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
	notesCreated      prometheus.Counter
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	limitNotified     prometheus.Counter
	activeConnections prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spacenote_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spacenote_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacenote_notes_created_total",
			Help: "作成された付箋の合計数",
		}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacenote_sessions_started_total",
			Help: "開始されたタイムトラッキングセッションの合計数",
		}),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacenote_sessions_completed_total",
			Help: "完了したタイムトラッキングセッションの合計数",
		}),
		limitNotified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spacenote_limit_notifications_total",
			Help: "送信された上限超過通知の合計数",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spacenote_active_connections",
			Help: "現在スペースを表示中のユーザー数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.notesCreated,
		c.sessionsStarted,
		c.sessionsCompleted,
		c.limitNotified,
		c.activeConnections,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordNoteCreated は付箋作成を記録する。
func (c *Collector) RecordNoteCreated() {
	c.notesCreated.Inc()
}

// RecordSessionStarted はセッション開始を記録する。
func (c *Collector) RecordSessionStarted() {
	c.sessionsStarted.Inc()
}

// RecordSessionCompleted はセッション完了を記録する。
func (c *Collector) RecordSessionCompleted() {
	c.sessionsCompleted.Inc()
}

// RecordLimitNotification は上限超過通知の送信を記録する。
func (c *Collector) RecordLimitNotification() {
	c.limitNotified.Inc()
}

// SetActiveConnections はアクティブ接続数のゲージを更新する。
func (c *Collector) SetActiveConnections(n int) {
	c.activeConnections.Set(float64(n))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
