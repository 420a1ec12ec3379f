package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"booknest/internal/model"
	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type EventCache interface {
	// 讀取：快取不存在時回傳 ErrCacheMiss
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// 版本：回源查詢前取得，每次失效遞增
	Version(ctx context.Context, id uuid.UUID) (int64, error)
	// 寫入：版本與 Version 取得時相同才寫入，並設定 TTL
	Set(ctx context.Context, event *model.Event, version int64) error
	// 失效：活動有任何寫入時呼叫
	Invalidate(ctx context.Context, ids ...uuid.UUID) error
}

// versionTTL 版本 key 需比任何一次回源查詢都長
const versionTTL = 24 * time.Hour

// setIfVersionScript KEYS[1]=活動 key, KEYS[2]=版本 key; ARGV: 版本, JSON, TTL 毫秒
const setIfVersionScript = `
local current = redis.call('GET', KEYS[2])
if (current or '0') ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`

type RedisEventCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) EventCache {
	return &RedisEventCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

// 活動 key
func (c *RedisEventCacheImpl) getKey(id uuid.UUID) string {
	return fmt.Sprintf("event:%s", id)
}

// 版本 key
func (c *RedisEventCacheImpl) getVersionKey(id uuid.UUID) string {
	return fmt.Sprintf("event:%s:version", id)
}

func (c *RedisEventCacheImpl) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	raw, err := c.client.Get(ctx, c.getKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		// 壞掉的資料直接視為 miss，下一次 Set 會覆蓋
		return nil, apperrors.ErrCacheMiss
	}

	return &event, nil
}

func (c *RedisEventCacheImpl) Version(ctx context.Context, id uuid.UUID) (int64, error) {
	v, err := c.client.Get(ctx, c.getVersionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set 期間若有失效，版本已改變，舊資料不會寫回
func (c *RedisEventCacheImpl) Set(ctx context.Context, event *model.Event, version int64) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	keys := []string{c.getKey(event.ID), c.getVersionKey(event.ID)}
	return c.client.Eval(ctx, setIfVersionScript, keys,
		strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds(),
	).Err()
}

func (c *RedisEventCacheImpl) Invalidate(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Incr(ctx, c.getVersionKey(id))
			pipe.Expire(ctx, c.getVersionKey(id), versionTTL)
			pipe.Del(ctx, c.getKey(id))
		}
		return nil
	})
	return err
}

// NoopEventCache 不使用 Redis 時的替代實作，永遠 miss
type NoopEventCache struct{}

func (NoopEventCache) Get(context.Context, uuid.UUID) (*model.Event, error) {
	return nil, apperrors.ErrCacheMiss
}

func (NoopEventCache) Version(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (NoopEventCache) Set(context.Context, *model.Event, int64) error { return nil }

func (NoopEventCache) Invalidate(context.Context, ...uuid.UUID) error { return nil }
