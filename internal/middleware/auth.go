package middleware

import (
	"net/http"
	"strings"

	"booknest/internal/auth"
	"booknest/internal/model"
	apperrors "booknest/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// CurrentUser 驗證通過後存放在 gin context 的身分
type CurrentUser struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

func (u CurrentUser) IsAdmin() bool {
	return u.Role == model.RoleAdmin
}

// Auth 驗證 Authorization: Bearer <token>，失敗回傳 401
func Auth(issuer auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			abort(c, http.StatusUnauthorized, apperrors.ErrInvalidToken)
			return
		}
		id, err := claims.UserID()
		if err != nil {
			abort(c, http.StatusUnauthorized, apperrors.ErrInvalidToken)
			return
		}

		c.Set(currentUserKey, CurrentUser{ID: id, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireRole 必須放在 Auth 之後
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			return
		}
		if user.Role != role {
			abort(c, http.StatusForbidden, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func GetCurrentUser(c *gin.Context) (CurrentUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return CurrentUser{}, false
	}
	user, ok := v.(CurrentUser)
	return user, ok
}

// SetCurrentUser 供測試直接注入身分
func SetCurrentUser(c *gin.Context, user CurrentUser) {
	c.Set(currentUserKey, user)
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
