package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は(カテゴリ, ゾーン)ごとの空席数キャッシュを管理する
// 在庫の変更後は必ずInvalidateされる前提の補助的なキャッシュであり、
// 正確性の根拠は常に在庫ストア側にある
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetCount は空席数をキャッシュから取得する
func (c *AvailabilityCache) GetCount(ctx context.Context, category, zone string) (int, error) {
	val, err := c.client.Get(ctx, c.countKey(category, zone)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetCount は空席数をキャッシュに保存する
func (c *AvailabilityCache) SetCount(ctx context.Context, category, zone string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.countKey(category, zone), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は(カテゴリ, ゾーン)のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, category, zone string) error {
	if err := c.client.Del(ctx, c.countKey(category, zone)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// InvalidateAll は全ゾーン・全カテゴリのキャッシュを無効化する
// 切断時の一括解放はどの座席を戻したかを追跡しないため、全キーを消す
func (c *AvailabilityCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "seats:available:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("キャッシュ走査に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) countKey(category, zone string) string {
	return fmt.Sprintf("seats:available:%s:%s", category, zone)
}
