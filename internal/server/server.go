package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/config"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
)

// Server はTCPプロトコルサーバーを表す
// 接続ごとに1つのgoroutineが読み取りループを回し、共有在庫には
// InventoryService経由でアクセスする
type Server struct {
	cfg      config.ServerConfig
	service  *application.InventoryService
	registry *Registry
	metrics  *metrics.Metrics

	listener net.Listener
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New はサーバーを作成する
func New(cfg config.ServerConfig, service *application.InventoryService, m *metrics.Metrics) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		service:  service,
		registry: NewRegistry(),
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry はセッションレジストリを返す
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start はリッスンを開始し、受け付けループをバックグラウンドで回す
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	logger.Info("TCPサーバー起動", zap.String("addr", ln.Addr().String()))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr はリッスン中のアドレスを返す（Start成功後に有効）
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Error("接続の受け付けに失敗", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Shutdown はサーバーを停止する
// リスナーを閉じ、全セッションを閉じ、接続goroutineの終了を待つ
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("TCPサーバーをシャットダウンしています")

	s.cancel()
	if s.listener != nil {
		s.listener.Close()
	}
	s.registry.CloseAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("TCPサーバーが停止しました")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
