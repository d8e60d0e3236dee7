// Package inventory は共有座席在庫の唯一の変更点を提供する
// 全操作は単一の排他ロック越しに直列化され、部分的な変更が他の呼び出しから
// 観測されることはない
package inventory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/venue"
)

// Store はVenueをロックで保護する在庫ストア
type Store struct {
	mu    sync.Mutex
	venue *venue.Venue
}

// NewStore は在庫ストアを作成する
// Venueの所有権はStoreに移り、以後の変更は全てStore経由で行う
func NewStore(v *venue.Venue) *Store {
	return &Store{venue: v}
}

// Reserve は空席をユーザー仮予約状態にする
func (s *Store) Reserve(category, zone string, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.venue.Seat(category, zone, row, col)
	if err != nil {
		return err
	}
	return se.Reserve()
}

// Purchase は仮予約中の座席を購入済みにする
func (s *Store) Purchase(category, zone string, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.venue.Seat(category, zone, row, col)
	if err != nil {
		return err
	}
	return se.Purchase()
}

// Release は仮予約中の座席を空席に戻す
func (s *Store) Release(category, zone string, row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.venue.Seat(category, zone, row, col)
	if err != nil {
		return err
	}
	return se.Release()
}

// CheckAvailability は座席が解決でき、かつ空席の場合のみtrueを返す
// 解決に失敗した場合もfalseに縮退する（読み取り専用コマンドはエラーを返さない）
func (s *Store) CheckAvailability(category, zone string, row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, err := s.venue.Seat(category, zone, row, col)
	if err != nil {
		return false
	}
	return se.IsAvailable()
}

// ReleaseAllUserReserved は全ゾーン・全カテゴリを走査し、ユーザー仮予約中の
// 座席を全て空席に戻す。解放した座席数を返す。
// 在庫は予約の保持者を記録しないため、切断者以外の仮予約も対象になる
func (s *Store) ReleaseAllUserReserved() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := 0
	s.venue.EachGrid(func(_ *venue.Zone, _ venue.Category, g *venue.SeatGrid) {
		g.EachSeat(func(_, _ int, se *seat.Seat) {
			if se.Status == seat.StatusReservadoPorUsuario {
				se.Status = seat.StatusLibre
				released++
			}
		})
	})
	return released
}

// CountAvailable は(カテゴリ, ゾーン)の空席数を返す
func (s *Store) CountAvailable(category, zone string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.venue.Grid(category, zone)
	if err != nil {
		return 0, err
	}
	return g.CountByStatus()[seat.StatusLibre], nil
}

// CountsByStatus は全座席の状態別の集計を返す
func (s *Store) CountsByStatus() map[seat.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[seat.Status]int)
	s.venue.EachGrid(func(_ *venue.Zone, _ venue.Category, g *venue.SeatGrid) {
		for st, n := range g.CountByStatus() {
			counts[st] += n
		}
	})
	return counts
}

// Snapshot は全ゾーン・カテゴリ・座席の状態を整形したダンプを返す
// 一貫したビューを保証するため、文字列の構築もロックを保持したまま行う
func (s *Store) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	currentZone := ""
	s.venue.EachGrid(func(z *venue.Zone, c venue.Category, g *venue.SeatGrid) {
		if z.Name != currentZone {
			currentZone = z.Name
			fmt.Fprintf(&b, "Zona: %s\n", z.Name)
		}
		fmt.Fprintf(&b, "  Categoría: %s\n", c)
		b.WriteString("  Asientos:\n")
		for row := 1; row <= g.Rows(); row++ {
			cells := make([]string, 0, g.Cols())
			for col := 1; col <= g.Cols(); col++ {
				se, _ := g.At(row, col)
				cells = append(cells, fmt.Sprintf("[%d, %d: %s]", row, col, se.Status.Display()))
			}
			b.WriteString("    " + strings.Join(cells, " | ") + "\n")
		}
		b.WriteString("\n")
	})
	return b.String()
}
