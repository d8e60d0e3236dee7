package handler

import (
	"context"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"
)

// InventoryServiceInterface は在庫サービスのインターフェース
type InventoryServiceInterface interface {
	Snapshot(ctx context.Context) string
	CheckAvailability(ctx context.Context, req application.SeatRequest) bool
	CountAvailable(ctx context.Context, category, zone string) (int, error)
	CountsByStatus() map[seat.Status]int
}

// SessionCounter は接続中セッション数の参照インターフェース
type SessionCounter interface {
	Count() int
}
