package queue

import (
	"context"
	"time"

	"booknest/internal/model"
	"booknest/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.Notification
	Ack  func()
	Nack func(requeue bool)
}

type NotificationQueue interface {
	// 發送通知到隊列
	Publish(ctx context.Context, notification *model.Notification) error
	// 訂閱通知隊列，ctx 結束時關閉 channel
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryQueueConfig 與 Redis 版一致的重試語意；nil 或零值時使用預設。
type MemoryQueueConfig struct {
	RetryDelay    time.Duration // Nack(true) 後延遲多久重回隊列
	MaxRetryCount int           // 投遞達此次數仍失敗即丟棄
}

func defaultMemoryQueueConfig() MemoryQueueConfig {
	return MemoryQueueConfig{
		RetryDelay:    5 * time.Second,
		MaxRetryCount: 5,
	}
}

// memoryMessage 附帶投遞次數
type memoryMessage struct {
	notification *model.Notification
	attempts     int
}

type MemoryNotificationQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch  chan *memoryMessage
	cfg MemoryQueueConfig
	log *zap.Logger
}

// NewMemoryNotificationQueue 建立單進程版 NotificationQueue。config 可為 nil。
func NewMemoryNotificationQueue(bufferSize int, config *MemoryQueueConfig) NotificationQueue {
	cfg := defaultMemoryQueueConfig()
	if config != nil {
		if config.RetryDelay > 0 {
			cfg.RetryDelay = config.RetryDelay
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
	}
	return &MemoryNotificationQueueImpl{
		ch:  make(chan *memoryMessage, bufferSize),
		cfg: cfg,
		log: logger.WithComponent("mq"),
	}
}

func (q *MemoryNotificationQueueImpl) Publish(ctx context.Context, notification *model.Notification) error {
	select {
	case q.ch <- &memoryMessage{notification: notification}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryNotificationQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}
				msg.attempts++

				d := Delivery{
					Data: msg.notification,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.retryLater(msg)
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// retryLater 延遲後重回隊列，超過重試上限或隊列已滿則丟棄
func (q *MemoryNotificationQueueImpl) retryLater(msg *memoryMessage) {
	if msg.attempts >= q.cfg.MaxRetryCount {
		q.log.Warn("discard poison message",
			zap.String("notification_id", msg.notification.ID.String()),
			zap.Int("retries", msg.attempts),
			zap.Int("max_retries", q.cfg.MaxRetryCount),
		)
		return
	}
	time.AfterFunc(q.cfg.RetryDelay, func() {
		select {
		case q.ch <- msg:
		default:
			q.log.Warn("queue full, drop requeued message",
				zap.String("notification_id", msg.notification.ID.String()),
			)
		}
	})
}
