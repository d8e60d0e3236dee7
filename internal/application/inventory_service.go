package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-stadium-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/inventory"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
)

const (
	availabilityCacheTTL = 30 * time.Second
)

// InventoryService は在庫ストアをログ・メトリクス・キャッシュ付きで包む
// TCPハンドラと管理APIの両方がこのサービス経由で在庫にアクセスする
type InventoryService struct {
	store   *inventory.Store
	cache   *redisinfra.AvailabilityCache
	metrics *metrics.Metrics
}

// NewInventoryService はInventoryServiceを作成する
// cache はnilでもよい（その場合キャッシュは使わない）
func NewInventoryService(store *inventory.Store, cache *redisinfra.AvailabilityCache, m *metrics.Metrics) *InventoryService {
	return &InventoryService{store: store, cache: cache, metrics: m}
}

// SeatRequest は座席1つを対象とする操作の入力
type SeatRequest struct {
	Category  string
	Zone      string
	Row       int
	Seat      int
	SessionID string
}

// Reserve は座席を仮予約する
func (s *InventoryService) Reserve(ctx context.Context, req SeatRequest) error {
	err := s.timed(func() error {
		return s.store.Reserve(req.Category, req.Zone, req.Row, req.Seat)
	})
	s.record("reserve", err)
	if err != nil {
		logger.Debug("予約失敗",
			zap.String("session_id", req.SessionID),
			zap.String("category", req.Category),
			zap.String("zone", req.Zone),
			zap.Int("row", req.Row),
			zap.Int("seat", req.Seat),
			zap.Error(err),
		)
		return err
	}
	logger.Info("座席を仮予約",
		zap.String("session_id", req.SessionID),
		zap.String("category", req.Category),
		zap.String("zone", req.Zone),
		zap.Int("row", req.Row),
		zap.Int("seat", req.Seat),
	)
	s.invalidate(ctx, req.Category, req.Zone)
	return nil
}

// Purchase は仮予約中の座席を購入する
func (s *InventoryService) Purchase(ctx context.Context, req SeatRequest) error {
	err := s.timed(func() error {
		return s.store.Purchase(req.Category, req.Zone, req.Row, req.Seat)
	})
	s.record("purchase", err)
	if err != nil {
		logger.Debug("購入失敗",
			zap.String("session_id", req.SessionID),
			zap.String("category", req.Category),
			zap.String("zone", req.Zone),
			zap.Int("row", req.Row),
			zap.Int("seat", req.Seat),
			zap.Error(err),
		)
		return err
	}
	logger.Info("座席を購入",
		zap.String("session_id", req.SessionID),
		zap.String("category", req.Category),
		zap.String("zone", req.Zone),
		zap.Int("row", req.Row),
		zap.Int("seat", req.Seat),
	)
	s.invalidate(ctx, req.Category, req.Zone)
	return nil
}

// Release は仮予約中の座席を解放する
func (s *InventoryService) Release(ctx context.Context, req SeatRequest) error {
	err := s.timed(func() error {
		return s.store.Release(req.Category, req.Zone, req.Row, req.Seat)
	})
	s.record("release", err)
	if err != nil {
		logger.Debug("解放失敗",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return err
	}
	logger.Info("座席を解放",
		zap.String("session_id", req.SessionID),
		zap.String("category", req.Category),
		zap.String("zone", req.Zone),
		zap.Int("row", req.Row),
		zap.Int("seat", req.Seat),
	)
	s.invalidate(ctx, req.Category, req.Zone)
	return nil
}

// CheckAvailability は座席が空席かを返す（読み取り専用）
func (s *InventoryService) CheckAvailability(ctx context.Context, req SeatRequest) bool {
	var available bool
	_ = s.timed(func() error {
		available = s.store.CheckAvailability(req.Category, req.Zone, req.Row, req.Seat)
		return nil
	})
	s.record("check", nil)
	return available
}

// ReleaseAllFor は切断時の一括解放を実行する
// 在庫は保持者を追跡しないため、全ユーザー仮予約が対象になる
func (s *InventoryService) ReleaseAllFor(ctx context.Context, sessionID string) int {
	var released int
	_ = s.timed(func() error {
		released = s.store.ReleaseAllUserReserved()
		return nil
	})
	s.record("sweep", nil)
	if released > 0 {
		logger.Info("切断により仮予約を一括解放",
			zap.String("session_id", sessionID),
			zap.Int("released", released),
		)
		if s.cache != nil {
			if err := s.cache.InvalidateAll(ctx); err != nil {
				logger.Warn("キャッシュ無効化エラー", zap.Error(err))
			}
		}
	}
	return released
}

// Snapshot は在庫全体の整形ダンプを返す
func (s *InventoryService) Snapshot(ctx context.Context) string {
	var dump string
	_ = s.timed(func() error {
		dump = s.store.Snapshot()
		return nil
	})
	s.record("snapshot", nil)
	return dump
}

// CountAvailable は(カテゴリ, ゾーン)の空席数を返す
// キャッシュがあれば先に引き、ミス時にストアから取得して保存する
func (s *InventoryService) CountAvailable(ctx context.Context, category, zone string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetCount(ctx, category, zone)
		if err == nil {
			logger.Debug("キャッシュヒット",
				zap.String("category", category),
				zap.String("zone", zone),
				zap.Int("count", count),
			)
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	count, err := s.store.CountAvailable(category, zone)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetCount(ctx, category, zone, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// CountsByStatus は状態別の座席数を返す（メトリクス・ワーカー用）
func (s *InventoryService) CountsByStatus() map[seat.Status]int {
	return s.store.CountsByStatus()
}

// invalidate は変更成功後にキャッシュを無効化する
func (s *InventoryService) invalidate(ctx context.Context, category, zone string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, category, zone); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

// timed はストア操作の所要時間をヒストグラムに記録する
func (s *InventoryService) timed(fn func() error) error {
	start := time.Now()
	err := fn()
	if s.metrics != nil {
		s.metrics.InventoryLockWait.Observe(time.Since(start).Seconds())
	}
	return err
}

// record は操作の結果をメトリクスに記録する
func (s *InventoryService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.SeatOperationsTotal.WithLabelValues(operation, StatusLabel(err)).Inc()
}

// StatusLabel はエラーをメトリクス用の結果ラベルに分類する
func StatusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, seat.ErrSeatNotAvailable),
		errors.Is(err, seat.ErrSeatNotReserved),
		errors.Is(err, seat.ErrSeatNotReleasable):
		return "unavailable"
	case errors.Is(err, venue.ErrSeatOutOfRange):
		return "out_of_range"
	case errors.Is(err, venue.ErrZoneNotFound),
		errors.Is(err, venue.ErrCategoryNotFound):
		return "not_found"
	}
	return "error"
}
