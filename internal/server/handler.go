package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/application"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/protocol"
)

// プロトコルの応答文字列（元システムと同一の文言）
const (
	welcomeBanner = "Bienvenido al evento de Metallica"

	replyReserved  = "Asiento reservado con éxito."
	replyPurchased = "Asiento comprado con éxito."
	replyReleased  = "Asiento liberado con éxito."

	replyNotAvailableReserve  = "El asiento no está disponible para reserva."
	replyNotAvailablePurchase = "El asiento no está disponible para compra."
	replyNotReleasable        = "El asiento no puede ser liberado."

	replyOutOfRange = "Fila o asiento fuera de rango."
	replyNotFound   = "Asiento no encontrado o no disponible."
	replyMalformed  = "Formato de comando incorrecto."

	replyAvailableTrue  = "ASIENTO_DISPONIBLE true"
	replyAvailableFalse = "ASIENTO_DISPONIBLE false"
)

// handleConn は1接続分のセッションループ
// 読み取り→分類→実行→応答を接続が閉じるまで繰り返し、
// 終了時に登録解除と仮予約の一括解放を必ず1回だけ行う
func (s *Server) handleConn(conn net.Conn) {
	sess := NewSession(conn, s.cfg.OutboundQueueSize)
	go sess.WriteLoop()

	logger.Info("クライアント接続",
		zap.String("session_id", sess.ID),
		zap.String("addr", sess.Addr),
	)

	if err := sess.Send(welcomeBanner + "\n"); err != nil {
		logger.Warn("ウェルカムメッセージの送信に失敗",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
		sess.Close()
		return
	}

	s.registry.Add(sess)
	s.metrics.ConnectedSessions.Inc()

	defer func() {
		s.registry.Remove(sess.ID)
		s.metrics.ConnectedSessions.Dec()
		s.service.ReleaseAllFor(s.ctx, sess.ID)
		sess.Close()
		logger.Info("クライアント切断",
			zap.String("session_id", sess.ID),
			zap.String("addr", sess.Addr),
		)
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		select {
		case <-s.ctx.Done():
			return
		default:
		}
		s.dispatch(sess, scanner.Text())
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Warn("クライアントからの読み取りエラー",
			zap.String("session_id", sess.ID),
			zap.String("addr", sess.Addr),
			zap.Error(err),
		)
	}
}

// dispatch は1行を分類して実行し、応答を送る
func (s *Server) dispatch(sess *Session, line string) {
	cmd, err := protocol.Parse(line)
	if err != nil {
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), "malformed").Inc()
		s.reply(sess, replyMalformed)
		return
	}

	req := application.SeatRequest{
		Category:  cmd.Category,
		Zone:      cmd.Zone,
		Row:       cmd.Row,
		Seat:      cmd.Seat,
		SessionID: sess.ID,
	}

	switch cmd.Kind {
	case protocol.KindGetStructure:
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), "success").Inc()
		s.reply(sess, s.service.Snapshot(s.ctx))

	case protocol.KindReserve:
		err := s.service.Reserve(s.ctx, req)
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), application.StatusLabel(err)).Inc()
		s.reply(sess, seatReply(cmd.Kind, err))

	case protocol.KindPurchase:
		err := s.service.Purchase(s.ctx, req)
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), application.StatusLabel(err)).Inc()
		s.reply(sess, seatReply(cmd.Kind, err))

	case protocol.KindRelease:
		err := s.service.Release(s.ctx, req)
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), application.StatusLabel(err)).Inc()
		s.reply(sess, seatReply(cmd.Kind, err))

	case protocol.KindCheck:
		available := s.service.CheckAvailability(s.ctx, req)
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), "success").Inc()
		if available {
			s.reply(sess, replyAvailableTrue)
		} else {
			s.reply(sess, replyAvailableFalse)
		}

	case protocol.KindChat:
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Kind), "success").Inc()
		msg := fmt.Sprintf("%s: %s\n", sess.Addr, cmd.Raw)
		delivered := s.registry.Broadcast(msg)
		s.metrics.BroadcastRecipients.Observe(float64(delivered))
		logger.Debug("チャットをブロードキャスト",
			zap.String("from", sess.Addr),
			zap.Int("delivered", delivered),
		)
	}
}

// reply は応答1行を送信する。構造ダンプのような複数行はそのまま送る
func (s *Server) reply(sess *Session, msg string) {
	if msg != "" && msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	if err := sess.Send(msg); err != nil {
		logger.Warn("応答の送信に失敗",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}
}

// seatReply は座席操作の結果を応答文字列に変換する
func seatReply(kind protocol.Kind, err error) string {
	if err == nil {
		switch kind {
		case protocol.KindReserve:
			return replyReserved
		case protocol.KindPurchase:
			return replyPurchased
		case protocol.KindRelease:
			return replyReleased
		}
	}
	switch {
	case errors.Is(err, venue.ErrSeatOutOfRange):
		return replyOutOfRange
	case errors.Is(err, venue.ErrZoneNotFound), errors.Is(err, venue.ErrCategoryNotFound):
		return replyNotFound
	}
	// 状態遷移の失敗
	switch kind {
	case protocol.KindReserve:
		return replyNotAvailableReserve
	case protocol.KindPurchase:
		return replyNotAvailablePurchase
	case protocol.KindRelease:
		return replyNotReleasable
	}
	return replyMalformed
}
