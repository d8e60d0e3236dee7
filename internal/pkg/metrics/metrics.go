package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// 受信コマンドの総数（command, status: success, unavailable, not_found, out_of_range, malformed）
	CommandsTotal *prometheus.CounterVec

	// 座席操作の総数（operation: reserve, purchase, release, sweep / status: success, failed）
	SeatOperationsTotal *prometheus.CounterVec

	// 現在接続中のセッション数
	ConnectedSessions prometheus.Gauge

	// 状態別の座席数（state: libre, reservado, reservado_por_usuario, comprado）
	SeatsByState *prometheus.GaugeVec

	// ブロードキャスト1回あたりの配信先数
	BroadcastRecipients prometheus.Histogram

	// 在庫ロックの待ち時間
	InventoryLockWait prometheus.Histogram

	// 管理APIのHTTPリクエスト総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// 管理APIのHTTPレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commands_total",
				Help: "Total number of protocol commands received",
			},
			[]string{"command", "status"},
		),
		SeatOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_operations_total",
				Help: "Total number of seat state transitions attempted",
			},
			[]string{"operation", "status"},
		),
		ConnectedSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "connected_sessions",
				Help: "Current number of connected client sessions",
			},
		),
		SeatsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "seats_by_state",
				Help: "Current number of seats per lifecycle state",
			},
			[]string{"state"},
		),
		BroadcastRecipients: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "broadcast_recipients",
				Help:    "Number of sessions reached per broadcast",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
			},
		),
		InventoryLockWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inventory_lock_wait_seconds",
				Help:    "Time spent executing inventory operations",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.CommandsTotal,
		m.SeatOperationsTotal,
		m.ConnectedSessions,
		m.SeatsByState,
		m.BroadcastRecipients,
		m.InventoryLockWait,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
