package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gridjump/internal/game"
	"gridjump/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// как часто опрашивать лобби, где время старта еще не известно
	lobbyPoll = time.Second
	// запас после границы хода, чтобы ленивый update точно увидел новый ход
	turnSlack = 20 * time.Millisecond
)

// ViewSource отдает состояние матча глазами игрока
type ViewSource interface {
	GetGame(matchID int64, playerID string) (game.View, error)
}

// StreamHandler шлет подписчику состояние матча на каждой границе хода
type StreamHandler struct {
	Views         ViewSource
	AllowedOrigin string
	now           func() time.Time
}

func NewStreamHandler(views ViewSource, allowedOrigin string) *StreamHandler {
	return &StreamHandler{
		Views:         views,
		AllowedOrigin: allowedOrigin,
		now:           time.Now,
	}
}

func (h *StreamHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, _ := strconv.ParseInt(c.Query("gameId"), 10, 64)
		playerID := c.Query("playerId")

		// проверяем матч до апгрейда, чтобы ошибка ушла обычным json
		if _, err := h.Views.GetGame(matchID, playerID); err != nil {
			code, _ := game.CodeOf(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": code})
			return
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if h.AllowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == h.AllowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(matchID, playerID, conn, logger.Match(matchID))
		go h.feed(client)
		go client.Run()
	}
}

// feed - единственный писатель в client.Send; закрывает канал, когда матч закончился
func (h *StreamHandler) feed(c *Client) {
	var last []byte
	for {
		view, err := h.Views.GetGame(c.MatchID, c.PlayerID)
		if err != nil {
			close(c.Send)
			return
		}

		data, err := json.Marshal(view)
		if err != nil {
			c.log.Error("failed to encode view", "error", err)
			close(c.Send)
			return
		}
		if !bytes.Equal(data, last) {
			select {
			case c.Send <- data:
				last = data
			case <-c.Done:
				return
			}
		}

		if view.GameState == game.StateFinished {
			close(c.Send)
			return
		}

		select {
		case <-time.After(h.nextWake(view)):
		case <-c.Done:
			return
		}
	}
}

func (h *StreamHandler) nextWake(v game.View) time.Duration {
	if v.GameState != game.StatePlaying {
		if v.StartTime > 0 {
			if d := time.UnixMilli(v.StartTime).Sub(h.now()); d > 0 && d < lobbyPoll {
				return d + turnSlack
			}
		}
		return lobbyPoll
	}
	d := time.UnixMilli(v.NextTurnTime).Sub(h.now())
	if d < 0 {
		d = 0
	}
	return d + turnSlack
}
