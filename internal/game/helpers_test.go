package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testSettings(players int) Settings {
	return Settings{
		Width:        5,
		Height:       5,
		TurnDelay:    10 * time.Second,
		StartDelay:   time.Second,
		MinPlayers:   players,
		MaxPlayers:   4,
		PointDensity: 0,
		JumpTurns:    1,
		InventTurns:  0,
	}
}

func newTestMatch(t *testing.T, s Settings, opts ...Option) (*Match, *fakeClock) {
	t.Helper()
	require.NoError(t, s.Validate())
	clk := &fakeClock{now: t0}
	opts = append([]Option{WithClock(clk.Now), WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return NewMatch(1, s, opts...), clk
}

// startedMatch заводит игроков, запускает матч и раскладывает их по заданным клеткам
// на пустой доске; ходит 1-й ход
func startedMatch(t *testing.T, s Settings, positions map[string]Vec, order ...string) (*Match, *fakeClock) {
	t.Helper()
	s.MinPlayers = len(order)
	m, clk := newTestMatch(t, s)
	for _, id := range order {
		require.NoError(t, m.Join(id))
	}
	clk.Advance(s.StartDelay)
	require.Equal(t, StatePlaying, m.State())

	m.mu.Lock()
	m.board = NewBoard(s.Width, s.Height)
	for _, id := range order {
		m.byID[id].pos = positions[id]
	}
	m.mu.Unlock()
	return m, clk
}

// grant выдает игроку изобретенный вектор в обход хода
func grant(m *Match, id string, v Vec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].invented.Add(v)
	m.invents.Add(v)
}

func player(m *Match, id string) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// nextTurn переводит часы на следующую границу хода и дергает ленивый update
func nextTurn(m *Match, clk *fakeClock) {
	clk.Advance(m.settings.TurnDelay)
	m.View("")
}
