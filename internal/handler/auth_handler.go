package handler

import (
	"net/http"

	"booknest/internal/model"
	"booknest/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes rg 為 /auth 群組
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authenticate gin.HandlerFunc) {
	rg.POST("register", h.Register)
	rg.POST("login", h.Login)
	rg.GET("profile", authenticate, h.GetProfile)
	rg.PATCH("profile", authenticate, h.UpdateProfile)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input model.RegisterInput
	if err := BindJson(c, &input); err != nil {
		return
	}

	user, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		handleError(c, err, "Register")
		return
	}

	handleSuccess(c, user, http.StatusCreated)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input model.LoginInput
	if err := BindJson(c, &input); err != nil {
		return
	}

	result, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		handleError(c, err, "Login")
		return
	}

	handleSuccess(c, result, http.StatusOK)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c, "GetProfile")
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err, "GetProfile")
		return
	}

	handleSuccess(c, profile, http.StatusOK)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c, "UpdateProfile")
	if !ok {
		return
	}

	var params model.UpdateProfileParams
	if err := BindJson(c, &params); err != nil {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), user.ID, params)
	if err != nil {
		handleError(c, err, "UpdateProfile")
		return
	}

	handleSuccess(c, profile, http.StatusOK)
}
