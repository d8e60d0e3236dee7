package e2e

import (
	"bufio"
	"context"
	"net"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/api"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/config"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/inventory"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/server"
)

// TestMain はE2Eテストのエントリポイント
func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

// TestStack はE2Eテスト用のフルスタック
// TCPサーバーと管理用Echoを実在庫の上に組み立てる
type TestStack struct {
	TCP     *server.Server
	Echo    *echo.Echo
	Service *application.InventoryService
}

// NewTestStack はテスト用スタックを作成する
// 各テストが独立した在庫を持つよう、毎回シードし直す
func NewTestStack(t *testing.T) *TestStack {
	t.Helper()

	store := inventory.NewStore(venue.NewStadium())
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	service := application.NewInventoryService(store, nil, m)

	tcp := server.New(config.ServerConfig{
		Addr:              "127.0.0.1:0",
		OutboundQueueSize: 64,
		ShutdownTimeout:   2 * time.Second,
	}, service, m)
	require.NoError(t, tcp.Start())

	e := api.NewRouter(config.AdminConfig{}, service, tcp.Registry(), m)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		tcp.Shutdown(ctx)
	})

	return &TestStack{TCP: tcp, Echo: e, Service: service}
}

// Client はTCPプロトコルのテストクライアント
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// Dial は接続してウェルカムメッセージを検証する
func (s *TestStack) Dial(t *testing.T) *Client {
	t.Helper()

	conn, err := net.Dial("tcp", s.TCP.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	c := &Client{conn: conn, reader: bufio.NewReader(conn)}
	assert.Equal(t, "Bienvenido al evento de Metallica", c.ReadLine(t))
	return c
}

// Send はコマンド1行を送信する
func (c *Client) Send(t *testing.T, line string) {
	t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
}

// ReadLine は応答1行を読む（改行は除去）
func (c *Client) ReadLine(t *testing.T) string {
	t.Helper()
	line, err := c.reader.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

// Exchange はコマンドを送り、応答1行を返す
func (c *Client) Exchange(t *testing.T, line string) string {
	t.Helper()
	c.Send(t, line)
	return c.ReadLine(t)
}

// Close は接続を閉じる
func (c *Client) Close() {
	c.conn.Close()
}

// Request は管理APIへのHTTPリクエストを実行する
func (s *TestStack) Request(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
