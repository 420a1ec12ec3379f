package handler

import (
	"net/http"
	"time"

	"booknest/internal/middleware"
	"booknest/internal/model"
	"booknest/internal/service"
	apperrors "booknest/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// RegisterRoutes rg 為 /events 群組，查詢公開，寫入限 ADMIN
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup, authenticate gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.GET(":id", h.Get)

	admin := rg.Group("", authenticate, middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("", h.Create)
		admin.PATCH(":id", h.Update)
		admin.DELETE(":id", h.Delete)
		admin.PATCH(":id/status", h.UpdateStatus)
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, "CreateEvent")
	if !ok {
		return
	}

	var params model.CreateEventParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	event, err := h.service.Create(c.Request.Context(), params, user.ID)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}

	handleSuccess(c, event, http.StatusCreated)
}

func (h *EventHandler) List(c *gin.Context) {
	filter, err := parseEventFilter(c)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}

	events, err := h.service.FindAll(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}

	handleSuccess(c, events, http.StatusOK)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", apperrors.ErrEventNotFound, "GetEvent")
	if !ok {
		return
	}

	event, err := h.service.FindOne(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}

	handleSuccess(c, event, http.StatusOK)
}

func (h *EventHandler) Update(c *gin.Context) {
	user, ok := currentUser(c, "UpdateEvent")
	if !ok {
		return
	}
	id, ok := parseID(c, "id", apperrors.ErrEventNotFound, "UpdateEvent")
	if !ok {
		return
	}

	var params model.UpdateEventParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	event, err := h.service.Update(c.Request.Context(), id, params, user.ID)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}

	handleSuccess(c, event, http.StatusOK)
}

func (h *EventHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c, "DeleteEvent")
	if !ok {
		return
	}
	id, ok := parseID(c, "id", apperrors.ErrEventNotFound, "DeleteEvent")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, user.ID); err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}

	handleSuccess(c, nil, http.StatusNoContent)
}

func (h *EventHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c, "UpdateEventStatus")
	if !ok {
		return
	}
	id, ok := parseID(c, "id", apperrors.ErrEventNotFound, "UpdateEventStatus")
	if !ok {
		return
	}

	var params model.UpdateEventStatusParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	event, err := h.service.UpdateStatus(c.Request.Context(), id, params.Status, user.ID)
	if err != nil {
		handleError(c, err, "UpdateEventStatus")
		return
	}

	handleSuccess(c, event, http.StatusOK)
}

// parseEventFilter 讀取 status、startDate、endDate，日期接受 RFC3339 或 YYYY-MM-DD
func parseEventFilter(c *gin.Context) (model.EventFilter, error) {
	var filter model.EventFilter

	if v := c.Query("status"); v != "" {
		status := model.EventStatus(v)
		filter.Status = &status
	}

	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	} {
		v := c.Query(q.name)
		if v == "" {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			return filter, apperrors.Validation("%s must be an RFC3339 timestamp or YYYY-MM-DD date", q.name)
		}
		*q.dst = &t
	}

	return filter, nil
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}
