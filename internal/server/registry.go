package server

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
)

// Registry は接続中セッションの一覧を管理する
// ロックはレジストリ専用で、在庫ストアのロックとは独立している
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry はRegistryを作成する
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add はセッションを登録する
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Remove はセッションの登録を解除する
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get はIDでセッションを引く
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count は接続中のセッション数を返す
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast は全セッションにメッセージを配信し、配信できた数を返す
// 1セッションへの配信失敗は記録するだけで、残りへの配信は続行する
func (r *Registry) Broadcast(msg string) int {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(msg); err != nil {
			logger.Warn("ブロードキャスト配信に失敗",
				zap.String("session_id", s.ID),
				zap.String("addr", s.Addr),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

// SendTo は特定のセッションにだけメッセージを送る
func (r *Registry) SendTo(id, msg string) error {
	s, ok := r.Get(id)
	if !ok {
		return ErrSessionClosed
	}
	return s.Send(msg)
}

// CloseAll は全セッションを閉じる（シャットダウン用）
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
