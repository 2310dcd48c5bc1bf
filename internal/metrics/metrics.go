// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScanCollector はリマインダースキャンのメトリクス収集インターフェース。
// スキャナーから利用する。
type ScanCollector interface {
	RecordScanCycle(duration time.Duration)
	RecordReminderEmitted(urgency string)
	RecordDateParseFailure()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	scanCycles        prometheus.Counter
	scanDuration      prometheus.Histogram
	remindersEmitted  *prometheus.CounterVec
	dateParseFailures prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scanCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mediwatch_scan_cycles_total",
			Help: "リマインダースキャン実行回数の合計",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediwatch_scan_duration_seconds",
			Help:    "リマインダースキャン1回あたりの所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		remindersEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediwatch_reminders_emitted_total",
			Help: "発行されたリマインダー通知の合計数（緊急度別）",
		}, []string{"urgency"}),
		dateParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mediwatch_refill_date_parse_failures_total",
			Help: "パースできなかったrefill_dateの合計数",
		}),
	}

	reg.MustRegister(
		c.scanCycles,
		c.scanDuration,
		c.remindersEmitted,
		c.dateParseFailures,
	)

	return c
}

// RecordScanCycle はスキャン1回の完了と所要時間を記録する。
func (c *Collector) RecordScanCycle(duration time.Duration) {
	c.scanCycles.Inc()
	c.scanDuration.Observe(duration.Seconds())
}

// RecordReminderEmitted はリマインダー通知の発行を緊急度ラベル付きで記録する。
func (c *Collector) RecordReminderEmitted(urgency string) {
	c.remindersEmitted.WithLabelValues(urgency).Inc()
}

// RecordDateParseFailure はrefill_dateのパース失敗を記録する。
func (c *Collector) RecordDateParseFailure() {
	c.dateParseFailures.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ ScanCollector = (*Collector)(nil)
