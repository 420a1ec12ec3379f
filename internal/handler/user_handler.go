package handler

import (
	"net/http"

	"booknest/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service service.AuthService
}

func NewUserHandler(service service.AuthService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes rg 為 /users 群組，需登入
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authenticate gin.HandlerFunc) {
	rg.Use(authenticate)
	rg.GET("", h.FindAll)
}

func (h *UserHandler) FindAll(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err, "FindAllUsers")
		return
	}

	handleSuccess(c, users, http.StatusOK)
}
