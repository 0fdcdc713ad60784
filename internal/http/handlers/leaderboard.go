package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 100

// лучшие результаты завершенных матчей
func (h *Handler) GetLeaderboard(c *gin.Context) {
	top, err := h.Matches.Leaderboard(c.Request.Context(), queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": top,
	})
}

// журнал событий матча: создание, старт, конец
func (h *Handler) GetHistory(c *gin.Context) {
	matchID, _ := strconv.ParseInt(c.Query("gameId"), 10, 64)

	logs, err := h.Matches.MatchHistory(c.Request.Context(), matchID, queryLimit(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": logs,
	})
}

// queryLimit читает ?limit=, не больше maxListLimit
func queryLimit(c *gin.Context) int {
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n < maxListLimit {
			return n
		}
	}
	return maxListLimit
}
