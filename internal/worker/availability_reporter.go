package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
)

// StatusCounter は状態別の座席数を提供するインターフェース
type StatusCounter interface {
	CountsByStatus() map[seat.Status]int
}

// AvailabilityReporter は在庫の状態別座席数を定期的にゲージへ反映するワーカー
type AvailabilityReporter struct {
	counter  StatusCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewAvailabilityReporter は新しいレポーターを作成
func NewAvailabilityReporter(counter StatusCounter, m *metrics.Metrics, interval time.Duration) *AvailabilityReporter {
	return &AvailabilityReporter{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はレポーターを開始
func (r *AvailabilityReporter) Start(ctx context.Context) {
	logger.Info("在庫レポーター開始", zap.Duration("interval", r.interval))

	// 起動直後に1回反映してからティッカーに入る
	r.report()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("在庫レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("在庫レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report()
		}
	}
}

// Stop はレポーターを停止
func (r *AvailabilityReporter) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// 反映対象の全状態。0席になった状態もゲージを0に戻す必要がある
var reportedStatuses = []seat.Status{
	seat.StatusLibre,
	seat.StatusReservado,
	seat.StatusReservadoPorUsuario,
	seat.StatusComprado,
}

// report は現在の状態別座席数をゲージに反映
func (r *AvailabilityReporter) report() {
	counts := r.counter.CountsByStatus()
	for _, status := range reportedStatuses {
		r.metrics.SeatsByState.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	logger.Debug("状態別座席数を更新",
		zap.Int("libre", counts[seat.StatusLibre]),
		zap.Int("reservado_por_usuario", counts[seat.StatusReservadoPorUsuario]),
		zap.Int("comprado", counts[seat.StatusComprado]),
	)
}
