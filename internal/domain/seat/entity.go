package seat

// Status は座席の状態を表す
type Status string

const (
	// StatusLibre は空席
	StatusLibre Status = "libre"
	// StatusReservado は運営が事前に確保した座席（ユーザーは遷移できない）
	StatusReservado Status = "reservado"
	// StatusReservadoPorUsuario はユーザーが仮予約中の座席
	StatusReservadoPorUsuario Status = "reservado_por_usuario"
	// StatusComprado は購入済みの座席
	StatusComprado Status = "comprado"
)

// Display はプロトコル上の表示名を返す
func (s Status) Display() string {
	switch s {
	case StatusLibre:
		return "Libre"
	case StatusReservado:
		return "Reservado"
	case StatusReservadoPorUsuario:
		return "ReservadoPorUsuario"
	case StatusComprado:
		return "Comprado"
	}
	return string(s)
}

// Seat は座席エンティティを表す
type Seat struct {
	Status Status
}

// New は空席状態の座席を作成する
func New() Seat {
	return Seat{Status: StatusLibre}
}

// IsAvailable は座席が予約可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusLibre
}

// Reserve は空席をユーザー仮予約状態にする
// 遷移元が libre 以外の場合は状態を変えずにエラーを返す
func (s *Seat) Reserve() error {
	if s.Status != StatusLibre {
		return ErrSeatNotAvailable
	}
	s.Status = StatusReservadoPorUsuario
	return nil
}

// Purchase は仮予約中の座席を購入済みにする
func (s *Seat) Purchase() error {
	if s.Status != StatusReservadoPorUsuario {
		return ErrSeatNotReserved
	}
	s.Status = StatusComprado
	return nil
}

// Release は仮予約中の座席を空席に戻す
func (s *Seat) Release() error {
	if s.Status != StatusReservadoPorUsuario {
		return ErrSeatNotReleasable
	}
	s.Status = StatusLibre
	return nil
}
