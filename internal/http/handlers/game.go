package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gridjump/internal/game"

	"github.com/gin-gonic/gin"
)

type getGameRequest struct {
	GameID   int64  `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type setMoveRequest struct {
	GameID   int64  `json:"gameId"`
	PlayerID string `json:"playerId"`
	Move     struct {
		Type string          `json:"type"`
		Vec  json.RawMessage `json:"vec"`
	} `json:"move"`
}

// новый игрок попадает в первое открытое лобби
func (h *Handler) JoinGame(c *gin.Context) {
	res, err := h.Matches.JoinGame(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// состояние матча; без playerId - без myPlayer
func (h *Handler) GetGame(c *gin.Context) {
	var req getGameRequest
	if !bindOptional(c, &req) {
		return
	}

	view, err := h.Matches.GetGame(req.GameID, req.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// заявка на текущий ход
func (h *Handler) SetMove(c *gin.Context) {
	var req setMoveRequest
	if !bindOptional(c, &req) {
		return
	}

	var vec []int
	if req.Move.Type != string(game.MoveNone) {
		var err error
		if vec, err = decodeVec(req.Move.Vec); err != nil {
			writeError(c, err)
			return
		}
	}

	turn, err := h.Matches.SetMove(req.GameID, req.PlayerID, req.Move.Type, vec)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "turnNum": turn})
}

// decodeVec разбирает vec поэлементно: дробные, строковые и прочие компоненты
// дают ErrInvalidMoveShape, а не ошибку разбора запроса. Длину проверяет ParseMove.
func decodeVec(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, game.ErrInvalidMoveShape
	}
	vec := make([]int, len(parts))
	for i, p := range parts {
		if err := json.Unmarshal(p, &vec[i]); err != nil {
			return nil, game.ErrInvalidMoveShape
		}
	}
	return vec, nil
}

// bindOptional разбирает json; пустое тело - пустой запрос, дальше его отбракует сервис
func bindOptional(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return false
	}
	return true
}
