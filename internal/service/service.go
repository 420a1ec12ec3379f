package service

import (
	"context"
	"time"

	"booknest/internal/cache"
	"booknest/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock 可替換的時間來源，測試時固定時間
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// invalidateEvents 快取失效失敗只記錄，不影響已提交的寫入
func invalidateEvents(ctx context.Context, c cache.EventCache, ids ...uuid.UUID) {
	if err := c.Invalidate(context.WithoutCancel(ctx), ids...); err != nil {
		logger.WithComponent("service").Warn("event cache invalidation failed",
			zap.Int("count", len(ids)),
			zap.Error(err),
		)
	}
}
