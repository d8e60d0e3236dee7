package venue

// Category は座席の価格帯・区分を表す
// クライアントとサーバーで共有する閉じた集合
type Category string

const (
	CategoryVIP     Category = "VIP"
	CategoryRegular Category = "Regular"
	CategorySol     Category = "Sol"
	CategoryPlatea  Category = "Platea"
)

// Categories は表示・走査に使う固定順のカテゴリ一覧
var Categories = []Category{CategoryVIP, CategoryRegular, CategorySol, CategoryPlatea}

// ParseCategory はプロトコル上の文字列をCategoryに変換する
// 大文字小文字は区別する
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", ErrCategoryNotFound
}
