package handlers

import (
	"net/http"

	"gridjump/internal/game"
	"gridjump/internal/logger"
	"gridjump/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler - зависимости http-обработчиков
type Handler struct {
	Matches *service.MatchService
	Version string
}

func New(matches *service.MatchService, version string) *Handler {
	return &Handler{Matches: matches, Version: version}
}

// writeError: нарушения правил уходят клиенту кодом, остальное - 500
func writeError(c *gin.Context, err error) {
	if code, ok := game.CodeOf(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": code})
		return
	}
	logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.Version,
		"matches": h.Matches.MatchCount(),
	})
}
