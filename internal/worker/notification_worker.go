package worker

import (
	"context"
	"errors"

	"booknest/internal/model"
	"booknest/internal/notification"
	"booknest/internal/queue"
	"booknest/internal/repository"
	apperrors "booknest/pkg/app_errors"
	"booknest/pkg/logger"

	"go.uber.org/zap"
)

type NotificationWorker interface {
	// 訂閱通知隊列並寄信，ctx 結束時停止
	Start(ctx context.Context) error
	// Done 在消費迴圈結束後關閉
	Done() <-chan struct{}
}

type NotificationWorkerImpl struct {
	queue  queue.NotificationQueue
	users  repository.UserRepository
	events repository.EventRepository
	mailer notification.Mailer
	done   chan struct{}
	log    *zap.Logger
}

func NewNotificationWorker(
	queue queue.NotificationQueue,
	users repository.UserRepository,
	events repository.EventRepository,
	mailer notification.Mailer,
) NotificationWorker {
	return &NotificationWorkerImpl{
		queue:  queue,
		users:  users,
		events: events,
		mailer: mailer,
		done:   make(chan struct{}),
		log:    logger.WithComponent("worker"),
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		close(w.done)
		return err
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *NotificationWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *NotificationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	n := msg.Data
	log := w.log.With(
		zap.String("notification_id", n.ID.String()),
		zap.String("type", string(n.Type)),
		zap.String("reservation_id", n.ReservationID.String()),
	)

	if err := w.process(ctx, n); err != nil {
		// 使用者或活動已不存在，重試也沒有意義
		if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrEventNotFound) {
			log.Warn("drop notification", zap.Error(err))
			msg.Nack(false)
			return
		}
		log.Error("notification failed, requeue", zap.Error(err))
		msg.Nack(true)
		return
	}

	log.Debug("notification sent")
	msg.Ack()
}

func (w *NotificationWorkerImpl) process(ctx context.Context, n *model.Notification) error {
	user, err := w.users.FindByID(ctx, n.UserID)
	if err != nil {
		return err
	}
	event, err := w.events.FindByID(ctx, n.EventID)
	if err != nil {
		return err
	}
	return w.mailer.Send(ctx, notification.RenderReservationMessage(n, user, event))
}
