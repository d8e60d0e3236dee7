package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetricsAuth は /metrics エンドポイント用のトークン認証ミドルウェア
// トークンが空の場合は認証をスキップ（ローカル開発用）
func MetricsAuth(token string) echo.MiddlewareFunc {
	if token == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	return middleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
		// タイミング攻撃を防ぐため ConstantTimeCompare を使用
		return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
	})
}
