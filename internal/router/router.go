package router

import (
	"net/http"

	"booknest/internal/handler"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Event       *handler.EventHandler
	Reservation *handler.ReservationHandler
	User        *handler.UserHandler
}

// InitRouter authLimit 只套用在 /auth 路由
func InitRouter(mode string, h Handlers, authenticate, authLimit gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(mode)
	router := gin.New()
	router.Use(mw...)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api/v1")
	{
		h.Auth.RegisterRoutes(api.Group("/auth", authLimit), authenticate)
		h.Event.RegisterRoutes(api.Group("/events"), authenticate)
		h.Reservation.RegisterRoutes(api.Group("/reservations"), authenticate)
		h.User.RegisterRoutes(api.Group("/users"), authenticate)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
