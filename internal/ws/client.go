package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client - одно подключение подписчика на состояние матча
type Client struct {
	MatchID  int64
	PlayerID string
	Conn     *websocket.Conn
	Send     chan []byte
	Done     chan struct{}

	log *slog.Logger
}

func NewClient(matchID int64, playerID string, conn *websocket.Conn, log *slog.Logger) *Client {
	return &Client{
		MatchID:  matchID,
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, 16),
		Done:     make(chan struct{}),
		log:      log,
	}
}

// Run запускает обе помпы и блокируется, пока клиент не отключится
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// read: входящие сообщения не нужны, читаем только ради pong и закрытия
func (c *Client) readPump() {
	defer func() {
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("ws read failed", "error", err)
			}
			return
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game finished"))
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Debug("ws write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.Done:
			return
		}
	}
}
