package server

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
)

// セッション配信のエラー定義
// 配信失敗は呼び出し元でログに残すだけで、在庫や他セッションには影響しない
var (
	ErrSessionClosed = errors.New("セッションは既に閉じられています")
	ErrQueueFull     = errors.New("送信キューが溢れています")
)

// Session は接続中のクライアント1つを表す
// 送信キューはセッション専属のライターgoroutineが所有し、
// 他のgoroutineはSend経由でキューに積むだけで接続には直接書かない
type Session struct {
	ID   string
	Addr string

	conn     net.Conn
	outbound chan string

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewSession は接続からセッションを作成する
func NewSession(conn net.Conn, queueSize int) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Addr:     conn.RemoteAddr().String(),
		conn:     conn,
		outbound: make(chan string, queueSize),
		done:     make(chan struct{}),
	}
}

// WriteLoop は送信キューを接続に書き続ける
// キューが閉じられるか書き込みに失敗したら終了する
func (s *Session) WriteLoop() {
	defer close(s.done)
	for msg := range s.outbound {
		if _, err := io.WriteString(s.conn, msg); err != nil {
			logger.Warn("セッションへの書き込みに失敗",
				zap.String("session_id", s.ID),
				zap.String("addr", s.Addr),
				zap.Error(err),
			)
			return
		}
	}
}

// Send はメッセージを送信キューに積む
// ブロックはしない。キューが溢れている場合は破棄してエラーを返す
func (s *Session) Send(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.outbound <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close はセッションを閉じる。複数回呼んでも安全
// 接続を先に閉じてライターを確実に解放する（低速なピアで待ち続けない）
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.outbound)
	s.mu.Unlock()

	s.conn.Close()
	<-s.done
}
