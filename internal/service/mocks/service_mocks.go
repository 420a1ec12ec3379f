package mocks

import (
	"context"

	"booknest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct {
	mock.Mock
}

func NewAuthServiceMock() *AuthServiceMock {
	return &AuthServiceMock{}
}

func (m *AuthServiceMock) Register(ctx context.Context, input model.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *AuthServiceMock) Login(ctx context.Context, input model.LoginInput) (*model.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResult), args.Error(1)
}

func (m *AuthServiceMock) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *AuthServiceMock) ListUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *AuthServiceMock) UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateProfileParams) (*model.User, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) Create(ctx context.Context, params model.CreateEventParams, ownerID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, params, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) FindAll(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) FindOne(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams, requesterID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id, params, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *EventServiceMock) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus, requesterID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id, status, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) CompletePastEvents(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type ReservationServiceMock struct {
	mock.Mock
}

func NewReservationServiceMock() *ReservationServiceMock {
	return &ReservationServiceMock{}
}

func (m *ReservationServiceMock) reservation(args mock.Arguments) (*model.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) reservations(args mock.Arguments) ([]*model.Reservation, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Reservation), args.Error(1)
}

func (m *ReservationServiceMock) Create(ctx context.Context, params model.CreateReservationParams, userID uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, params, userID))
}

func (m *ReservationServiceMock) Cancel(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, id, userID))
}

func (m *ReservationServiceMock) ConfirmReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *ReservationServiceMock) RefuseReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *ReservationServiceMock) AdminCancelReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, id))
}

func (m *ReservationServiceMock) FindMyReservations(ctx context.Context, userID uuid.UUID) ([]*model.Reservation, error) {
	return m.reservations(m.Called(ctx, userID))
}

func (m *ReservationServiceMock) FindOne(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, role model.Role) (*model.Reservation, error) {
	return m.reservation(m.Called(ctx, id, requesterID, role))
}

func (m *ReservationServiceMock) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Reservation, error) {
	return m.reservations(m.Called(ctx, eventID))
}

func (m *ReservationServiceMock) GetReservationStats(ctx context.Context, eventID uuid.UUID) (*model.ReservationStats, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReservationStats), args.Error(1)
}
