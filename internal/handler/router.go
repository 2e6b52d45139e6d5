package handler

import (
	"context"
	"net/http"
	"time"

	"event-reservation/config"
	"event-reservation/internal/auth"
	"event-reservation/internal/cache"
	"event-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthCheck 回報依賴是否可用，nil 表示健康
type HealthCheck func(ctx context.Context) error

type RouterDeps struct {
	Server       config.ServerConfig
	Tokens       *auth.TokenManager
	Limiter      cache.RateLimiter
	Auth         service.AuthService
	Events       service.EventService
	Reservations service.ReservationService
	Tickets      service.TicketService
	Health       HealthCheck
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), AccessLog(), CORS(deps.Server.CORSOrigin), RequestTimeout(deps.Server.RequestTimeout))

	r.GET("/health", health(deps.Health))

	api := r.Group("/api", Authenticate(deps.Tokens))
	user := api.Group("", RequireAuth())
	admin := api.Group("/admin", RequireAdmin())

	NewAuthHandler(deps.Auth).RegisterRoutes(api)
	NewEventHandler(deps.Events).RegisterRoutes(api, admin)
	NewReservationHandler(deps.Reservations, deps.Tickets).RegisterRoutes(user, admin, deps.Limiter)

	return r
}

func health(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
