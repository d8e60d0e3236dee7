package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotAvailable  = errors.New("座席は予約できる状態ではありません")
	ErrSeatNotReserved   = errors.New("座席は仮予約されていないため購入できません")
	ErrSeatNotReleasable = errors.New("座席は仮予約されていないため解放できません")
)
