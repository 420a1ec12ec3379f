package service

import (
	"context"
	"errors"

	"booknest/internal/cache"
	"booknest/internal/model"
	"booknest/internal/repository"
	apperrors "booknest/pkg/app_errors"
	"booknest/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventService interface {
	Create(ctx context.Context, params model.CreateEventParams, ownerID uuid.UUID) (*model.Event, error)
	FindAll(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)
	FindOne(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams, requesterID uuid.UUID) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus, requesterID uuid.UUID) (*model.Event, error)
	// CompletePastEvents 將已過期的 PUBLISHED 活動標記為 COMPLETED
	CompletePastEvents(ctx context.Context) (int, error)
}

type EventServiceImpl struct {
	tx    repository.Transactor
	repo  repository.EventRepository
	cache cache.EventCache
	now   Clock
}

func NewEventService(tx repository.Transactor, repo repository.EventRepository, eventCache cache.EventCache, clock Clock) EventService {
	if clock == nil {
		clock = systemClock
	}
	return &EventServiceImpl{tx: tx, repo: repo, cache: eventCache, now: clock}
}

func (s *EventServiceImpl) Create(ctx context.Context, params model.CreateEventParams, ownerID uuid.UUID) (*model.Event, error) {
	if err := params.Validate(s.now()); err != nil {
		return nil, err
	}

	status := model.EventStatusDraft
	if params.Status != nil {
		status = *params.Status
	}

	return s.repo.Create(ctx, &model.Event{
		Title:           params.Title,
		Description:     params.Description,
		Date:            params.Date,
		Location:        params.Location,
		MaxParticipants: params.MaxParticipants,
		AvailableSeats:  params.MaxParticipants,
		Status:          status,
		CreatedBy:       ownerID,
	})
}

func (s *EventServiceImpl) FindAll(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperrors.ErrInvalidEventStatus
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperrors.Validation("endDate must not be before startDate")
	}
	return s.repo.List(ctx, filter)
}

// FindOne 先讀 Redis，miss 時回源並回填
func (s *EventServiceImpl) FindOne(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.cache.Get(ctx, id)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, apperrors.ErrCacheMiss) {
		logger.WithComponent("service").Warn("event cache read failed", zap.String("event_id", id.String()), zap.Error(err))
	}

	// 版本需在查詢前取得，查詢期間的失效會讓回填失敗
	version, versionErr := s.cache.Version(ctx, id)

	event, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if versionErr != nil {
		logger.WithComponent("service").Warn("event cache version read failed", zap.String("event_id", id.String()), zap.Error(versionErr))
		return event, nil
	}
	if err := s.cache.Set(ctx, event, version); err != nil {
		logger.WithComponent("service").Warn("event cache write failed", zap.String("event_id", id.String()), zap.Error(err))
	}
	return event, nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams, requesterID uuid.UUID) (*model.Event, error) {
	if err := params.Validate(s.now()); err != nil {
		return nil, err
	}
	params.AvailableSeats = nil

	var updated *model.Event
	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		event, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if event.CreatedBy != requesterID {
			return apperrors.ErrNotEventOwner
		}

		if params.MaxParticipants != nil {
			reserved := event.ReservedSeats()
			if *params.MaxParticipants < reserved {
				return apperrors.ErrCapacityBelowReserved
			}
			available := *params.MaxParticipants - reserved
			params.AvailableSeats = &available
		}

		updated, err = s.repo.Update(ctx, tx, id, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateEvents(ctx, s.cache, id)
	return updated, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if event.CreatedBy != requesterID {
		return apperrors.ErrNotEventOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateEvents(ctx, s.cache, id)
	return nil
}

func (s *EventServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus, requesterID uuid.UUID) (*model.Event, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidEventStatus
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != requesterID {
		return nil, apperrors.ErrNotEventOwner
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	invalidateEvents(ctx, s.cache, id)
	return updated, nil
}

func (s *EventServiceImpl) CompletePastEvents(ctx context.Context) (int, error) {
	ids, err := s.repo.CompletePast(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		invalidateEvents(ctx, s.cache, ids...)
	}
	return len(ids), nil
}
