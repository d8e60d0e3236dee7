package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/api"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/config"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
	redisinfra "github.com/sanosuguru/go-stadium-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/inventory"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/server"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.App.Env)
	defer logger.Sync()

	m := metrics.Init()

	// 在庫（座席配置は起動時に固定シードされる）
	store := inventory.NewStore(venue.NewStadium())

	// Redisキャッシュはオプション。未設定でも在庫ストア単体で完結する
	var cache *redisinfra.AvailabilityCache
	if cfg.Redis.Enabled() {
		client := redisinfra.NewClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		if err := redisinfra.Ping(ctx, client); err != nil {
			logger.Warn("Redisに接続できないためキャッシュなしで起動", zap.Error(err))
		} else {
			cache = redisinfra.NewAvailabilityCache(client)
			logger.Info("Redisキャッシュ有効", zap.String("addr", cfg.Redis.Addr()))
		}
		cancel()
		defer client.Close()
	}

	service := application.NewInventoryService(store, cache, m)

	// TCPプロトコルサーバー
	tcpServer := server.New(cfg.Server, service, m)
	if err := tcpServer.Start(); err != nil {
		logger.Fatal("TCPサーバーの起動に失敗", zap.Error(err))
	}

	// 管理・観測用HTTPサーバー
	e := api.NewRouter(cfg.Admin, service, tcpServer.Registry(), m)
	e.Server.ReadTimeout = cfg.Admin.ReadTimeout
	e.Server.WriteTimeout = cfg.Admin.WriteTimeout
	go func() {
		if err := e.Start(cfg.Admin.Addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("管理サーバーの起動に失敗", zap.Error(err))
		}
	}()

	// 状態別座席数のレポーター
	reporter := worker.NewAvailabilityReporter(service, m, cfg.Worker.ReportInterval)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go reporter.Start(workerCtx)

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("シャットダウンを開始します")

	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := tcpServer.Shutdown(ctx); err != nil {
		logger.Error("TCPサーバーのシャットダウンに失敗", zap.Error(err))
	}
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("管理サーバーのシャットダウンに失敗", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
