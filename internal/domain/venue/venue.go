package venue

import "github.com/sanosuguru/go-stadium-seat-reservation/internal/domain/seat"

// Zone はスタジアム内の物理エリアを表す
// カテゴリごとに1つのSeatGridを持つ
type Zone struct {
	Name  string
	grids map[Category]*SeatGrid
}

// Grid はカテゴリのグリッドを返す
func (z *Zone) Grid(c Category) (*SeatGrid, error) {
	g, ok := z.grids[c]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return g, nil
}

// Venue は全ゾーンを所有するルート集約
// プロセス起動時に一度だけ生成され、以後リサイズされない
type Venue struct {
	zones []*Zone
}

// NewVenue は指定したゾーン名でVenueを作成する
// 各ゾーンは makeGrids が返すカテゴリ別グリッドを持つ
func NewVenue(zoneNames []string, makeGrids func() map[Category]*SeatGrid) *Venue {
	v := &Venue{zones: make([]*Zone, 0, len(zoneNames))}
	for _, name := range zoneNames {
		v.zones = append(v.zones, &Zone{Name: name, grids: makeGrids()})
	}
	return v
}

// NewStadium は本番のスタジアム構成を固定シードで作成する
// 各ゾーンA〜Dに4カテゴリ分のグリッドを持たせ、一部の座席を事前に埋める
func NewStadium() *Venue {
	return NewVenue([]string{"A", "B", "C", "D"}, func() map[Category]*SeatGrid {
		return map[Category]*SeatGrid{
			CategoryVIP: NewSeatGrid(3, 5,
				SeedState{Row: 1, Col: 1, Status: seat.StatusReservado},
				SeedState{Row: 2, Col: 3, Status: seat.StatusComprado},
			),
			CategoryRegular: NewSeatGrid(7, 5,
				SeedState{Row: 3, Col: 4, Status: seat.StatusReservado},
			),
			CategorySol: NewSeatGrid(5, 5,
				SeedState{Row: 3, Col: 3, Status: seat.StatusComprado},
			),
			CategoryPlatea: NewSeatGrid(6, 5,
				SeedState{Row: 3, Col: 3, Status: seat.StatusReservado},
			),
		}
	})
}

// Zones はゾーンを定義順で返す
func (v *Venue) Zones() []*Zone {
	return v.zones
}

// Zone はゾーン名の完全一致でゾーンを引く
func (v *Venue) Zone(name string) (*Zone, error) {
	for _, z := range v.zones {
		if z.Name == name {
			return z, nil
		}
	}
	return nil, ErrZoneNotFound
}

// Grid は(カテゴリ, ゾーン)のアドレスでグリッドを解決する
// ゾーン名→カテゴリの順で照合する
func (v *Venue) Grid(category, zone string) (*SeatGrid, error) {
	z, err := v.Zone(zone)
	if err != nil {
		return nil, err
	}
	c, err := ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return z.Grid(c)
}

// Seat は(カテゴリ, ゾーン, 行, 座席)のアドレスで座席を解決する
func (v *Venue) Seat(category, zone string, row, col int) (*seat.Seat, error) {
	g, err := v.Grid(category, zone)
	if err != nil {
		return nil, err
	}
	return g.At(row, col)
}

// EachGrid は全ゾーン×全カテゴリのグリッドを定義順で走査する
func (v *Venue) EachGrid(fn func(z *Zone, c Category, g *SeatGrid)) {
	for _, z := range v.zones {
		for _, c := range Categories {
			if g, ok := z.grids[c]; ok {
				fn(z, c, g)
			}
		}
	}
}
