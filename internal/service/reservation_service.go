package service

import (
	"context"
	"errors"

	"booknest/internal/cache"
	"booknest/internal/model"
	"booknest/internal/queue"
	"booknest/internal/repository"
	apperrors "booknest/pkg/app_errors"
	"booknest/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationService interface {
	Create(ctx context.Context, params model.CreateReservationParams, userID uuid.UUID) (*model.Reservation, error)
	// Cancel 使用者取消自己的預約
	Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Reservation, error)
	ConfirmReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	RefuseReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	AdminCancelReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	FindMyReservations(ctx context.Context, userID uuid.UUID) ([]*model.Reservation, error)
	FindOne(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role model.Role) (*model.Reservation, error)
	FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error)
	GetReservationStats(ctx context.Context, eventID uuid.UUID) (*model.ReservationStats, error)
}

type ReservationServiceImpl struct {
	tx               repository.Transactor
	repo             repository.ReservationRepository
	eventRepo        repository.EventRepository
	cache            cache.EventCache
	notifications    queue.NotificationQueue
	approvalRequired bool
	now              Clock
}

func NewReservationService(
	tx repository.Transactor,
	reservationRepository repository.ReservationRepository,
	eventRepository repository.EventRepository,
	eventCache cache.EventCache,
	notifications queue.NotificationQueue,
	approvalRequired bool,
	clock Clock,
) ReservationService {
	if clock == nil {
		clock = systemClock
	}
	return &ReservationServiceImpl{
		tx:               tx,
		repo:             reservationRepository,
		eventRepo:        eventRepository,
		cache:            eventCache,
		notifications:    notifications,
		approvalRequired: approvalRequired,
		now:              clock,
	}
}

func (s *ReservationServiceImpl) initialStatus() model.ReservationStatus {
	if s.approvalRequired {
		return model.ReservationStatusPending
	}
	return model.ReservationStatusConfirmed
}

// Create 在同一個 transaction 中鎖定活動、檢查座位、寫入預約並扣座位
func (s *ReservationServiceImpl) Create(ctx context.Context, params model.CreateReservationParams, userID uuid.UUID) (*model.Reservation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	seats := params.Seats()

	var created *model.Reservation
	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		// 1. 鎖定活動列
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, params.EventID)
		if err != nil {
			return err
		}

		// 2. 檢查活動狀態與座位
		if event.Status != model.EventStatusPublished {
			return apperrors.ErrEventNotPublished
		}
		if !event.Date.After(s.now()) {
			return apperrors.ErrEventInPast
		}
		if seats > event.AvailableSeats {
			return apperrors.ErrInsufficientSeats
		}

		// 3. 同一使用者同一活動只能有一筆未取消的預約
		_, err = s.repo.FindUncancelledByUserAndEvent(ctx, tx, userID, params.EventID)
		if err == nil {
			return apperrors.ErrReservationExists
		}
		if !errors.Is(err, apperrors.ErrReservationNotFound) {
			return err
		}

		// 4. 寫入預約並扣座位
		created, err = s.repo.Create(ctx, tx, &model.Reservation{
			EventID:         params.EventID,
			UserID:          userID,
			Status:          s.initialStatus(),
			NumberOfSeats:   seats,
			ReservationDate: s.now(),
		})
		if err != nil {
			return err
		}

		return s.eventRepo.DecrementSeats(ctx, tx, params.EventID, seats)
	})
	if err != nil {
		return nil, err
	}

	invalidateEvents(ctx, s.cache, params.EventID)
	s.publish(ctx, model.NotificationReservationCreated, created)
	return created, nil
}

func (s *ReservationServiceImpl) Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Reservation, error) {
	owner := func(r *model.Reservation) error {
		if r.UserID != userID {
			return apperrors.ErrNotReservationOwner
		}
		return nil
	}
	return s.transition(ctx, id, owner, model.ReservationStatusCancelled, rejectCancelled)
}

func (s *ReservationServiceImpl) ConfirmReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, id, nil, model.ReservationStatusConfirmed, func(current model.ReservationStatus) error {
		if current != model.ReservationStatusPending {
			return apperrors.ErrReservationNotPending
		}
		return nil
	})
}

func (s *ReservationServiceImpl) RefuseReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, id, nil, model.ReservationStatusRefused, func(current model.ReservationStatus) error {
		if err := rejectCancelled(current); err != nil {
			return err
		}
		if current == model.ReservationStatusRefused {
			return apperrors.ErrInvalidReservationStatus
		}
		return nil
	})
}

func (s *ReservationServiceImpl) AdminCancelReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return s.transition(ctx, id, nil, model.ReservationStatusCancelled, rejectCancelled)
}

func rejectCancelled(current model.ReservationStatus) error {
	if current == model.ReservationStatusCancelled {
		return apperrors.ErrReservationAlreadyCancelled
	}
	return nil
}

// transition 鎖定順序固定為活動再預約，離開有效狀態時歸還座位
func (s *ReservationServiceImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	authorize func(*model.Reservation) error,
	target model.ReservationStatus,
	precheck func(model.ReservationStatus) error,
) (*model.Reservation, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if authorize != nil {
		if err := authorize(existing); err != nil {
			return nil, err
		}
	}

	var updated *model.Reservation
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		if _, err := s.eventRepo.FindByIDForUpdate(ctx, tx, existing.EventID); err != nil {
			return err
		}

		current, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := precheck(current.Status); err != nil {
			return err
		}
		if !current.Status.CanTransitionTo(target) {
			return apperrors.ErrInvalidReservationStatus
		}

		updated, err = s.repo.UpdateStatus(ctx, tx, id, target)
		if err != nil {
			return err
		}

		if current.Status.IsActive() && !target.IsActive() {
			return s.eventRepo.IncrementSeats(ctx, tx, current.EventID, current.NumberOfSeats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateEvents(ctx, s.cache, existing.EventID)
	s.publish(ctx, notificationFor(target), updated)
	return updated, nil
}

func notificationFor(status model.ReservationStatus) model.NotificationType {
	switch status {
	case model.ReservationStatusConfirmed:
		return model.NotificationReservationConfirmed
	case model.ReservationStatusRefused:
		return model.NotificationReservationRefused
	default:
		return model.NotificationReservationCancelled
	}
}

// publish 通知發送失敗只記錄，預約本身已成功
func (s *ReservationServiceImpl) publish(ctx context.Context, t model.NotificationType, r *model.Reservation) {
	n := model.NewNotification(t, r, s.now())
	if err := s.notifications.Publish(ctx, n); err != nil {
		logger.WithComponent("service").Warn("publish notification failed",
			zap.String("type", string(t)),
			zap.String("reservation_id", r.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *ReservationServiceImpl) FindMyReservations(ctx context.Context, userID uuid.UUID) ([]*model.Reservation, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *ReservationServiceImpl) FindOne(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role model.Role) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != requesterID && role != model.RoleAdmin {
		return nil, apperrors.ErrNotReservationOwner
	}
	return reservation, nil
}

func (s *ReservationServiceImpl) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *ReservationServiceImpl) GetReservationStats(ctx context.Context, eventID uuid.UUID) (*model.ReservationStats, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, eventID)
}
