package handler

import (
	"net/http"

	"booknest/internal/middleware"
	apperrors "booknest/pkg/app_errors"
	"booknest/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// statusFor 錯誤分類對應 HTTP 狀態碼
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)

	status := statusFor(apperrors.KindOf(err))
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error")
		c.JSON(status, gin.H{
			"error": "Internal server error",
		})
		return
	}

	log.Warn("Request rejected", zap.Int("status", status))
	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}

func handleSuccess(c *gin.Context, data interface{}, statusCode int) {
	if data != nil {
		c.JSON(statusCode, data)
	} else {
		c.Status(statusCode)
	}
}

// parseID 無法解析的 id 視為資源不存在
func parseID(c *gin.Context, param string, notFound error, operation string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		handleError(c, notFound, operation)
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *gin.Context, operation string) (middleware.CurrentUser, bool) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		handleError(c, apperrors.ErrUnauthorized, operation)
		return middleware.CurrentUser{}, false
	}
	return user, true
}
