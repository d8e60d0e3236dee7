package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
)

// InventoryHandler は在庫の読み取り専用エンドポイント
// 座席の変更はTCPプロトコル経由のみで行い、ここでは状態の観測だけを提供する
type InventoryHandler struct {
	service  InventoryServiceInterface
	sessions SessionCounter
}

// NewInventoryHandler はInventoryHandlerを作成する
func NewInventoryHandler(s InventoryServiceInterface, sessions SessionCounter) *InventoryHandler {
	return &InventoryHandler{service: s, sessions: sessions}
}

// CheckSeatRequest は座席の空席確認クエリ
type CheckSeatRequest struct {
	Category string `query:"category" validate:"required"`
	Zone     string `query:"zone" validate:"required"`
	Row      int    `query:"row" validate:"required,min=1"`
	Seat     int    `query:"seat" validate:"required,min=1"`
}

// AvailabilityResponse は空席確認のレスポンス
type AvailabilityResponse struct {
	Category  string `json:"category"`
	Zone      string `json:"zone"`
	Row       int    `json:"row"`
	Seat      int    `json:"seat"`
	Available bool   `json:"available"`
}

// CheckSeat は座席1つの空席状況を返す
func (h *InventoryHandler) CheckSeat(c echo.Context) error {
	var req CheckSeatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "無効なリクエスト"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	available := h.service.CheckAvailability(c.Request().Context(), application.SeatRequest{
		Category: req.Category,
		Zone:     req.Zone,
		Row:      req.Row,
		Seat:     req.Seat,
	})

	return c.JSON(http.StatusOK, AvailabilityResponse{
		Category:  req.Category,
		Zone:      req.Zone,
		Row:       req.Row,
		Seat:      req.Seat,
		Available: available,
	})
}

// CountAvailable は(ゾーン, カテゴリ)の空席数を返す
func (h *InventoryHandler) CountAvailable(c echo.Context) error {
	zone := c.Param("zone")
	category := c.Param("category")

	count, err := h.service.CountAvailable(c.Request().Context(), category, zone)
	if err != nil {
		if errors.Is(err, venue.ErrZoneNotFound) || errors.Is(err, venue.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

// GetStructure は在庫全体の整形ダンプをプレーンテキストで返す
// TCPの GET_STADIUM_STRUCTURE と同じ内容
func (h *InventoryHandler) GetStructure(c echo.Context) error {
	return c.String(http.StatusOK, h.service.Snapshot(c.Request().Context()))
}

// SummaryResponse は在庫と接続のサマリー
type SummaryResponse struct {
	Seats    map[string]int `json:"seats"`
	Sessions int            `json:"sessions"`
}

// Summary は状態別の座席数と接続中セッション数を返す
func (h *InventoryHandler) Summary(c echo.Context) error {
	counts := h.service.CountsByStatus()
	seats := make(map[string]int, len(counts))
	for status, n := range counts {
		seats[string(status)] = n
	}

	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Count()
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Seats:    seats,
		Sessions: sessions,
	})
}
