package http

import (
	"gridjump/internal/http/handlers"
	"gridjump/internal/http/middleware"
	"gridjump/internal/service"
	"gridjump/internal/ws"

	"github.com/gin-gonic/gin"
)

// RouteConfig - то, что роутеру нужно кроме сервиса матчей
type RouteConfig struct {
	Version       string
	AllowedOrigin string
	Limiter       *middleware.RateLimiter
}

// RegisterRoutes вешает игровое api, поток состояния и healthz на r
func RegisterRoutes(r *gin.Engine, matches *service.MatchService, cfg RouteConfig) {
	h := handlers.New(matches, cfg.Version)

	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	{
		api.POST("/getGame", h.GetGame)
		api.GET("/leaderboard", h.GetLeaderboard)
		api.GET("/history", h.GetHistory)

		limited := api.Group("")
		if cfg.Limiter != nil {
			limited.Use(cfg.Limiter.Middleware())
		}
		limited.GET("/joinGame", h.JoinGame)
		limited.POST("/setMove", h.SetMove)
	}

	r.GET("/ws", ws.NewStreamHandler(matches, cfg.AllowedOrigin).HandleWS())
}
