package handler_test

import (
	"net/http"
	"testing"
	"time"

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

func setupEventTestRouter(svc *mocks.EventServiceMock, user *middleware.CurrentUser) *gin.Engine {
	router, api := newTestEngine()
	handler.NewEventHandler(svc).RegisterRoutes(api.Group("/events"), authAs(user))
	return router
}

func TestCreateEvent(t *testing.T) {
	params := model.CreateEventParams{
		Title:           "Go Meetup",
		Date:            time.Date(2030, 1, 10, 18, 0, 0, 0, time.UTC),
		Location:        "Casablanca",
		MaxParticipants: 30,
	}

	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Create", mock.Anything, params, adminUser.ID).Return(&model.Event{ID: uuid.New(), Title: params.Title}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/events", params))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failed - Participant", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &participantUser)

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/events", params))

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed - Anonymous", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/events", params))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - EventInPast", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Create", mock.Anything, params, adminUser.ID).Return(nil, apperrors.ErrEventInPast).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/events", params))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)

		w := serve(router, createJSONHTTPRequest(http.MethodPost, "/api/v1/events", InvalidJSON))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListEvents(t *testing.T) {
	t.Run("Filters", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)

		svc.On("FindAll", mock.Anything, mock.MatchedBy(func(f model.EventFilter) bool {
			return f.Status != nil && *f.Status == model.EventStatusPublished &&
				f.StartDate != nil && f.StartDate.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				f.EndDate != nil && f.EndDate.Equal(time.Date(2030, 2, 1, 12, 0, 0, 0, time.UTC))
		})).Return([]*model.Event{{ID: uuid.New()}}, nil).Once()

		req := createJSONHTTPRequest(http.MethodGet, "/api/v1/events?status=PUBLISHED&startDate=2030-01-01&endDate=2030-02-01T12:00:00Z", nil)
		w := serve(router, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid date", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/events?startDate=yesterday", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)
		id := uuid.New()
		svc.On("FindOne", mock.Anything, id).Return(&model.Event{ID: id}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/events/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Malformed id is not found", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/events/not-a-uuid", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, nil)
		id := uuid.New()
		svc.On("FindOne", mock.Anything, id).Return(nil, apperrors.ErrEventNotFound).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodGet, "/api/v1/events/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateEvent(t *testing.T) {
	id := uuid.New()
	max := 40
	params := model.UpdateEventParams{MaxParticipants: &max}

	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Update", mock.Anything, id, params, adminUser.ID).Return(&model.Event{ID: id, MaxParticipants: max}, nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/events/"+id.String(), params))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failed - NotOwner", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Update", mock.Anything, id, params, adminUser.ID).Return(nil, apperrors.ErrNotEventOwner).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/events/"+id.String(), params))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failed - CapacityBelowReserved", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Update", mock.Anything, id, params, adminUser.ID).Return(nil, apperrors.ErrCapacityBelowReserved).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/events/"+id.String(), params))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteEvent(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Delete", mock.Anything, id, adminUser.ID).Return(nil).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodDelete, "/api/v1/events/"+id.String(), nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Not found", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Delete", mock.Anything, id, adminUser.ID).Return(apperrors.ErrEventNotFound).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodDelete, "/api/v1/events/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - HasReservations", func(t *testing.T) {
		svc := mocks.NewEventServiceMock()
		router := setupEventTestRouter(svc, &adminUser)
		svc.On("Delete", mock.Anything, id, adminUser.ID).Return(apperrors.ErrEventHasReservations).Once()

		w := serve(router, createJSONHTTPRequest(http.MethodDelete, "/api/v1/events/"+id.String(), nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperrors.ErrEventHasReservations.Error(), decodeError(w))
	})
}

func TestUpdateEventStatus(t *testing.T) {
	id := uuid.New()

	svc := mocks.NewEventServiceMock()
	router := setupEventTestRouter(svc, &adminUser)
	svc.On("UpdateStatus", mock.Anything, id, model.EventStatusPublished, adminUser.ID).
		Return(&model.Event{ID: id, Status: model.EventStatusPublished}, nil).Once()
	svc.On("UpdateStatus", mock.Anything, id, model.EventStatus("ARCHIVED"), adminUser.ID).
		Return(nil, apperrors.ErrInvalidEventStatus).Once()

	w := serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/events/"+id.String()+"/status",
		model.UpdateEventStatusParams{Status: model.EventStatusPublished}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, createJSONHTTPRequest(http.MethodPatch, "/api/v1/events/"+id.String()+"/status",
		model.UpdateEventStatusParams{Status: "ARCHIVED"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}
