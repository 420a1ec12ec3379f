// Package testutil 連線到 docker 啟動的測試 DB 與 Redis，連不上時讓整合測試 skip
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"booknest/config"
	"booknest/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var (
	dbOnce  sync.Once
	testDB  *pgxpool.Pool
	dbErr   error
	rdbOnce sync.Once
	testRdb *redis.Client
	rdbErr  error
)

// DB 回傳已完成 migration 的測試連線池，整個 test binary 共用
func DB(t testing.TB) *pgxpool.Pool {
	t.Helper()
	dbOnce.Do(func() {
		cfg := config.LoadTestConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		testDB, dbErr = database.InitDatabase(ctx, &cfg.Database)
		if dbErr != nil {
			return
		}
		dbErr = database.Migrate(ctx, testDB)
	})
	if dbErr != nil {
		t.Skipf("test database unavailable: %v", dbErr)
	}
	return testDB
}

// Redis 回傳測試用 Redis client
func Redis(t testing.TB) *redis.Client {
	t.Helper()
	rdbOnce.Do(func() {
		cfg := config.LoadTestConfig()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		testRdb, rdbErr = database.InitRedis(ctx, &cfg.Redis)
	})
	if rdbErr != nil {
		t.Skipf("test redis unavailable: %v", rdbErr)
	}
	return testRdb
}

// Truncate 清空所有測試資料，保留 schema
func Truncate(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE reservations, events, users CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}
