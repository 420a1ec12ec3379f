package handler

import (
	"context"
	"net/http"

	"booknest/internal/middleware"
	"booknest/internal/model"
	"booknest/internal/service"
	apperrors "booknest/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	service service.ReservationService
}

func NewReservationHandler(service service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes rg 為 /reservations 群組，全部需要登入
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup, authenticate gin.HandlerFunc) {
	user := rg.Group("", authenticate)
	{
		user.POST("", h.Create)
		user.GET("me", h.FindMine)
		user.GET(":id", h.FindOne)
		user.PATCH(":id/cancel", h.Cancel)
	}

	admin := rg.Group("", authenticate, middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("event/:eventId", h.FindByEvent)
		admin.GET("event/:eventId/stats", h.Stats)
		admin.PATCH(":id/confirm", h.Confirm)
		admin.PATCH(":id/refuse", h.Refuse)
		admin.PATCH(":id/admin-cancel", h.AdminCancel)
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	user, ok := currentUser(c, "CreateReservation")
	if !ok {
		return
	}

	var params model.CreateReservationParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), params, user.ID)
	if err != nil {
		handleError(c, err, "CreateReservation")
		return
	}

	handleSuccess(c, reservation, http.StatusCreated)
}

func (h *ReservationHandler) FindMine(c *gin.Context) {
	user, ok := currentUser(c, "FindMyReservations")
	if !ok {
		return
	}

	reservations, err := h.service.FindMyReservations(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err, "FindMyReservations")
		return
	}

	handleSuccess(c, reservations, http.StatusOK)
}

func (h *ReservationHandler) FindOne(c *gin.Context) {
	user, ok := currentUser(c, "FindReservation")
	if !ok {
		return
	}
	id, ok := parseID(c, "id", apperrors.ErrReservationNotFound, "FindReservation")
	if !ok {
		return
	}

	reservation, err := h.service.FindOne(c.Request.Context(), id, user.ID, user.Role)
	if err != nil {
		handleError(c, err, "FindReservation")
		return
	}

	handleSuccess(c, reservation, http.StatusOK)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	user, ok := currentUser(c, "CancelReservation")
	if !ok {
		return
	}
	id, ok := parseID(c, "id", apperrors.ErrReservationNotFound, "CancelReservation")
	if !ok {
		return
	}

	reservation, err := h.service.Cancel(c.Request.Context(), id, user.ID)
	if err != nil {
		handleError(c, err, "CancelReservation")
		return
	}

	handleSuccess(c, reservation, http.StatusOK)
}

func (h *ReservationHandler) FindByEvent(c *gin.Context) {
	eventID, ok := parseID(c, "eventId", apperrors.ErrEventNotFound, "FindEventReservations")
	if !ok {
		return
	}

	reservations, err := h.service.FindByEvent(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "FindEventReservations")
		return
	}

	handleSuccess(c, reservations, http.StatusOK)
}

func (h *ReservationHandler) Stats(c *gin.Context) {
	eventID, ok := parseID(c, "eventId", apperrors.ErrEventNotFound, "ReservationStats")
	if !ok {
		return
	}

	stats, err := h.service.GetReservationStats(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "ReservationStats")
		return
	}

	handleSuccess(c, stats, http.StatusOK)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.adminTransition(c, "ConfirmReservation", h.service.ConfirmReservation)
}

func (h *ReservationHandler) Refuse(c *gin.Context) {
	h.adminTransition(c, "RefuseReservation", h.service.RefuseReservation)
}

func (h *ReservationHandler) AdminCancel(c *gin.Context) {
	h.adminTransition(c, "AdminCancelReservation", h.service.AdminCancelReservation)
}

func (h *ReservationHandler) adminTransition(
	c *gin.Context,
	operation string,
	fn func(ctx context.Context, id uuid.UUID) (*model.Reservation, error),
) {
	id, ok := parseID(c, "id", apperrors.ErrReservationNotFound, operation)
	if !ok {
		return
	}

	reservation, err := fn(c.Request.Context(), id)
	if err != nil {
		handleError(c, err, operation)
		return
	}

	handleSuccess(c, reservation, http.StatusOK)
}
