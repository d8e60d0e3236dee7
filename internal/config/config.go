package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	App    AppConfig
	Server ServerConfig
	Admin  AdminConfig
	Redis  RedisConfig
	Worker WorkerConfig
}

// AppConfig は実行環境の設定
type AppConfig struct {
	Env string // development / production
}

// ServerConfig はTCPプロトコルサーバーの設定
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	// 1セッションの送信キューの深さ。溢れた配信は破棄してログに残す
	OutboundQueueSize int
}

// AdminConfig は管理・観測用HTTPサーバーの設定
type AdminConfig struct {
	Addr         string
	MetricsToken string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisConfig はRedis設定
// Hostが空の場合、空席数キャッシュは無効になる
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WorkerConfig はバックグラウンドワーカーの設定
type WorkerConfig struct {
	ReportInterval time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Addr:              getEnv("TCP_ADDR", ":8080"),
			ShutdownTimeout:   getDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second),
			OutboundQueueSize: getIntEnv("OUTBOUND_QUEUE_SIZE", 64),
		},
		Admin: AdminConfig{
			Addr:         getEnv("ADMIN_ADDR", ":8081"),
			MetricsToken: getEnv("METRICS_TOKEN", ""),
			ReadTimeout:  getDurationEnv("ADMIN_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("ADMIN_WRITE_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Worker: WorkerConfig{
			ReportInterval: getDurationEnv("REPORT_INTERVAL", 30*time.Second),
		},
	}
}

// Enabled はキャッシュを使うかを返す
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
