package venue

import "github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"

// SeatGrid は1つの(ゾーン, カテゴリ)に属する座席の行×列の固定サイズ配置
// 生成後にサイズが変わることはない
type SeatGrid struct {
	rows  [][]seat.Seat
	nRows int
	nCols int
}

// SeedState は生成時に初期状態を上書きする座席の指定（1始まり）
type SeedState struct {
	Row    int
	Col    int
	Status seat.Status
}

// NewSeatGrid は全席 libre のグリッドを作成し、seeds の座席だけ状態を上書きする
// 範囲外のseedは無視する（元システムの生成仕様を踏襲）
func NewSeatGrid(rows, cols int, seeds ...SeedState) *SeatGrid {
	g := &SeatGrid{
		rows:  make([][]seat.Seat, rows),
		nRows: rows,
		nCols: cols,
	}
	for i := range g.rows {
		row := make([]seat.Seat, cols)
		for j := range row {
			row[j] = seat.New()
		}
		g.rows[i] = row
	}
	for _, s := range seeds {
		if s.Row >= 1 && s.Row <= rows && s.Col >= 1 && s.Col <= cols {
			g.rows[s.Row-1][s.Col-1].Status = s.Status
		}
	}
	return g
}

// Rows はグリッドの行数を返す
func (g *SeatGrid) Rows() int { return g.nRows }

// Cols は1行あたりの座席数を返す
func (g *SeatGrid) Cols() int { return g.nCols }

// At は1始まりの行・座席番号で座席を引く
// 範囲検証は状態に触れる前に行う
func (g *SeatGrid) At(row, col int) (*seat.Seat, error) {
	if row < 1 || row > g.nRows || col < 1 || col > g.nCols {
		return nil, ErrSeatOutOfRange
	}
	return &g.rows[row-1][col-1], nil
}

// EachSeat は全座席を行優先で走査する
func (g *SeatGrid) EachSeat(fn func(row, col int, s *seat.Seat)) {
	for i := range g.rows {
		for j := range g.rows[i] {
			fn(i+1, j+1, &g.rows[i][j])
		}
	}
}

// CountByStatus は状態ごとの座席数を返す
func (g *SeatGrid) CountByStatus() map[seat.Status]int {
	counts := make(map[seat.Status]int)
	g.EachSeat(func(_, _ int, s *seat.Seat) {
		counts[s.Status]++
	})
	return counts
}
