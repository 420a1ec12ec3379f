package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"booknest/internal/middleware"
	"booknest/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	InvalidJSON = `{"invalid": json}`

	adminUser       = middleware.CurrentUser{ID: uuid.New(), Email: "admin@booknest.com", Role: model.RoleAdmin}
	participantUser = middleware.CurrentUser{ID: uuid.New(), Email: "fatima@example.com", Role: model.RoleParticipant}
)

// authAs 取代真正的 JWT 驗證，直接注入身分；user 為 nil 時回 401
func authAs(user *middleware.CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		middleware.SetCurrentUser(c, *user)
		c.Next()
	}
}

func newTestEngine() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, router.Group("/api/v1")
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req := httptest.NewRequest(method, url, createJSONRequest(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) string {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Error
}
