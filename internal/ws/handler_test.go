package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gridjump/internal/game"
	"gridjump/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, svc *service.MatchService) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewStreamHandler(svc, "").HandleWS())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
}

func TestStreamPushesEveryTurnUntilFinished(t *testing.T) {
	settings := game.Settings{
		Width:        3,
		Height:       3,
		TurnDelay:    150 * time.Millisecond,
		StartDelay:   0,
		MinPlayers:   1,
		MaxPlayers:   2,
		PointDensity: 0,
		JumpTurns:    1,
		InventTurns:  0,
		MaxTurns:     2,
	}
	svc := service.NewMatchService(settings)
	t.Cleanup(svc.Close)

	joined, err := svc.JoinGame(context.Background())
	require.NoError(t, err)

	srv := newServer(t, svc)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "gameId=1&playerId="+joined.PlayerID), nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var turns []int
	var final game.View
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		var v game.View
		require.NoError(t, json.Unmarshal(data, &v))
		turns = append(turns, v.TurnNum)
		final = v
	}

	assert.Equal(t, game.StateFinished, final.GameState)
	require.NotNil(t, final.MyPlayer)
	assert.Len(t, final.Winners, 1)
	for i := 1; i < len(turns); i++ {
		assert.Greater(t, turns[i], turns[i-1])
	}
}

func TestStreamRejectsUnknownMatch(t *testing.T) {
	svc := service.NewMatchService(game.DefaultSettings())
	srv := newServer(t, svc)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "gameId=7"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
