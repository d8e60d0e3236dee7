package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/config"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
)

// NewRouter は管理・観測用HTTPサーバーのルーティングを組み立てる
func NewRouter(
	cfg config.AdminConfig,
	service handler.InventoryServiceInterface,
	sessions handler.SessionCounter,
	m *metrics.Metrics,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	healthHandler := handler.NewHealthHandler()
	inventoryHandler := handler.NewInventoryHandler(service, sessions)

	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsAuth(cfg.MetricsToken))

	v1 := e.Group("/api/v1")
	v1.GET("/stadium/structure", inventoryHandler.GetStructure)
	v1.GET("/stadium/summary", inventoryHandler.Summary)
	v1.GET("/seats/availability", inventoryHandler.CheckSeat)
	v1.GET("/zones/:zone/categories/:category/available/count", inventoryHandler.CountAvailable)

	return e
}
