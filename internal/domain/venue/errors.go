package venue

import "errors"

// Venue ドメインのエラー定義
var (
	ErrZoneNotFound     = errors.New("指定されたゾーンが存在しません")
	ErrCategoryNotFound = errors.New("指定されたカテゴリが存在しません")
	ErrSeatOutOfRange   = errors.New("行または座席番号が範囲外です")
)
