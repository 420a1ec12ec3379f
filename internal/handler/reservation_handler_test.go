package handler_test

import (
	"net/http"
	"testing"

	"booknest/internal/handler"
	"booknest/internal/middleware"
	"booknest/internal/model"
	"booknest/internal/service/mocks"
	apperrors "booknest/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupReservationTestRouter(svc *mocks.ReservationServiceMock, user *middleware.CurrentUser) *gin.Engine {
	router, api := newTestEngine()
	handler.NewReservationHandler(svc).RegisterRoutes(api.Group("/reservations"), authAs(user))
	return router
}

func TestCreateReservation(t *testing.T) {
	eventID := uuid.New()
	seats := 2
	params := model.CreateReservationParams{EventID: eventID, NumberOfSeats: &seats}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Success", nil, http.StatusCreated},
		{"Failed - InsufficientSeats", apperrors.ErrInsufficientSeats, http.StatusBadRequest},
		{"Failed - EventNotPublished", apperrors.ErrEventNotPublished, http.StatusBadRequest},
		{"Failed - Duplicate", apperrors.ErrReservationExists, http.StatusConflict},
		{"Failed - EventNotFound", apperrors.ErrEventNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewReservationServiceMock()
			router := setupReservationTestRouter(svc, &participantUser)
			if tt.err == nil {
				svc.On("Create", mock.Anything, params, participantUser.ID).
					Return(&model.Reservation{ID: uuid.New(), EventID: eventID, NumberOfSeats: seats}, nil).Once()
			} else {
				svc.On("Create", mock.Anything, params, participantUser.ID).Return(nil, tt.err).Once()
			}

			w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/reservations", params))

			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}

	t.Run("Failed - MissingEventID", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/reservations", map[string]int{"number_of_seats": 2}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - Anonymous", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, nil)

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/reservations", params))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestFindReservations(t *testing.T) {
	t.Run("Mine", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)
		svc.On("FindMyReservations", mock.Anything, participantUser.ID).Return([]*model.Reservation{}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("One passes requester role", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)
		id := uuid.New()
		svc.On("FindOne", mock.Anything, id, participantUser.ID, model.RoleParticipant).Return(nil, apperrors.ErrNotReservationOwner).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/"+id.String(), nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed id is not found", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/abc", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("By event requires admin", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/event/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("By event and stats as admin", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &adminUser)
		eventID := uuid.New()
		svc.On("FindByEvent", mock.Anything, eventID).Return([]*model.Reservation{{ID: uuid.New()}}, nil).Once()
		svc.On("GetReservationStats", mock.Anything, eventID).
			Return(&model.ReservationStats{EventID: eventID, TotalReservations: 1, TotalSeatsReserved: 3}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/event/"+eventID.String(), nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/reservations/event/"+eventID.String()+"/stats", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_seats_reserved":3`)

		svc.AssertExpectations(t)
	})
}

func TestCancelReservation(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)
		svc.On("Cancel", mock.Anything, id, participantUser.ID).
			Return(&model.Reservation{ID: id, Status: model.ReservationStatusCancelled}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/reservations/"+id.String()+"/cancel", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed - AlreadyCancelled", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)
		svc.On("Cancel", mock.Anything, id, participantUser.ID).Return(nil, apperrors.ErrReservationAlreadyCancelled).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/reservations/"+id.String()+"/cancel", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminTransitions(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		path   string
		method string
		err    error
		status int
	}{
		{"confirm", "ConfirmReservation", nil, http.StatusOK},
		{"confirm", "ConfirmReservation", apperrors.ErrReservationNotPending, http.StatusBadRequest},
		{"refuse", "RefuseReservation", nil, http.StatusOK},
		{"refuse", "RefuseReservation", apperrors.ErrReservationNotFound, http.StatusNotFound},
		{"admin-cancel", "AdminCancelReservation", nil, http.StatusOK},
		{"admin-cancel", "AdminCancelReservation", apperrors.ErrReservationAlreadyCancelled, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			svc := mocks.NewReservationServiceMock()
			router := setupReservationTestRouter(svc, &adminUser)
			if tt.err == nil {
				svc.On(tt.method, mock.Anything, id).Return(&model.Reservation{ID: id}, nil).Once()
			} else {
				svc.On(tt.method, mock.Anything, id).Return(nil, tt.err).Once()
			}

			w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/reservations/"+id.String()+"/"+tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}

	t.Run("participant is forbidden", func(t *testing.T) {
		svc := mocks.NewReservationServiceMock()
		router := setupReservationTestRouter(svc, &participantUser)

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/reservations/"+id.String()+"/confirm", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
