package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinSchedulesStartOnce(t *testing.T) {
	s := testSettings(2)
	m, clk := newTestMatch(t, s)

	require.NoError(t, m.Join("a"))
	assert.True(t, m.StartTime().IsZero(), "start must wait for min players")

	clk.Advance(300 * time.Millisecond)
	require.NoError(t, m.Join("b"))
	scheduled := m.StartTime()
	assert.Equal(t, t0.Add(300*time.Millisecond+s.StartDelay), scheduled)

	clk.Advance(300 * time.Millisecond)
	require.NoError(t, m.Join("c"))
	assert.Equal(t, scheduled, m.StartTime(), "further joins must not reschedule")
	assert.Equal(t, StateLobby, m.State())
}

func TestCanJoinUntilCapacity(t *testing.T) {
	s := testSettings(4)
	m, _ := newTestMatch(t, s)

	for i := 0; i < s.MaxPlayers; i++ {
		require.True(t, m.CanJoin(), "join %d", i)
		require.NoError(t, m.Join(fmt.Sprintf("p%d", i)))
	}
	assert.False(t, m.CanJoin())
	assert.ErrorIs(t, m.Join("late"), ErrPlayerLimit)
	assert.NoError(t, m.Join("p0"), "existing player rejoining is a no-op")
	assert.Equal(t, s.MaxPlayers, m.PlayerCount())
}

func TestCanJoinFalseAfterStart(t *testing.T) {
	s := testSettings(1)
	m, clk := newTestMatch(t, s)
	require.NoError(t, m.Join("a"))
	require.True(t, m.CanJoin())

	clk.Advance(s.StartDelay)
	assert.False(t, m.CanJoin())
	assert.ErrorIs(t, m.Join("b"), ErrLateJoin)
	assert.Equal(t, StatePlaying, m.State())
	assert.True(t, m.IsJoined("a"))
	assert.False(t, m.IsJoined("b"))
}

func TestStartPlacesPlayersWithoutOverlap(t *testing.T) {
	s := testSettings(4)
	s.Width, s.Height = 2, 2
	s.PointDensity = 1
	m, clk := newTestMatch(t, s)
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Join(id))
	}

	clk.Advance(s.StartDelay)
	v := m.View("")
	require.Equal(t, StatePlaying, v.GameState)
	assert.Equal(t, 1, v.TurnNum)

	seen := map[Vec]bool{}
	for _, p := range v.Players {
		assert.False(t, seen[p.Pos], "two players on %v", p.Pos)
		seen[p.Pos] = true
	}
	// все 4 клетки заняты игроками, значит очков на доске нет
	assert.Equal(t, []string{"..", ".."}, v.Board)
}

func TestBoardDensityAndStartCells(t *testing.T) {
	s := testSettings(1)
	s.PointDensity = 1
	m, clk := newTestMatch(t, s)
	require.NoError(t, m.Join("a"))
	clk.Advance(s.StartDelay)

	v := m.View("a")
	require.NotNil(t, v.MyPlayer)
	pos := v.MyPlayer.Pos
	for x, row := range v.Board {
		for y := range row {
			want := byte(CellPoint)
			if (Vec{x, y}) == pos {
				want = byte(CellEmpty)
			}
			assert.Equal(t, want, row[y], "cell %d,%d", x, y)
		}
	}
}

func TestLobbyView(t *testing.T) {
	s := testSettings(2)
	m, _ := newTestMatch(t, s)
	require.NoError(t, m.Join("a"))

	v := m.View("a")
	assert.Equal(t, View{GameState: StateLobby, StartTime: -1, PlayerCount: 1}, v)

	require.NoError(t, m.Join("b"))
	v = m.View("")
	assert.Equal(t, t0.Add(s.StartDelay).UnixMilli(), v.StartTime)
	assert.Nil(t, v.Board)
}

func TestViewIsIdempotentWithinTurn(t *testing.T) {
	m, clk := startedMatch(t, testSettings(2), map[string]Vec{"a": {0, 0}, "b": {4, 4}}, "a", "b")
	grant(m, "a", Vec{1, 0})
	_, err := m.SubmitMove("a", Move{Kind: MoveJump, Vec: Vec{1, 0}})
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	first := m.View("a")
	clk.Advance(3 * time.Second)
	second := m.View("a")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.TurnNum)
	assert.Equal(t, Vec{0, 0}, second.MyPlayer.Pos)
}

func TestViewOmitsSelfForStrangers(t *testing.T) {
	m, _ := startedMatch(t, testSettings(1), map[string]Vec{"a": {0, 0}}, "a")
	assert.Nil(t, m.View("").MyPlayer)
	assert.Nil(t, m.View("nobody").MyPlayer)
	assert.NotNil(t, m.View("a").MyPlayer)
}

func TestCatchUpCollapsesElapsedTurns(t *testing.T) {
	var reports []TurnReport
	s := testSettings(1)
	m, clk := newTestMatch(t, s, WithHooks(Hooks{
		OnTurn: func(r TurnReport) { reports = append(reports, r) },
	}))
	require.NoError(t, m.Join("a"))
	clk.Advance(s.StartDelay)
	require.Equal(t, StatePlaying, m.State())

	_, err := m.SubmitMove("a", Move{Kind: MoveInvent, Vec: Vec{0, 1}})
	require.NoError(t, err)

	clk.Advance(35 * time.Second)
	v := m.View("a")
	require.Len(t, reports, 1, "several elapsed turns resolve in a single execution")
	assert.Equal(t, 1, reports[0].Turn)
	assert.Equal(t, 4, v.TurnNum)
	assert.Equal(t, []Vec{{0, 1}}, v.MyPlayer.Invented)

	clk.Advance(5 * time.Second)
	assert.Equal(t, 5, m.View("a").TurnNum)
	assert.Len(t, reports, 2)
	assert.Equal(t, 4, reports[1].Turn)
}

func TestTurnNumberNeverDecreases(t *testing.T) {
	m, clk := startedMatch(t, testSettings(1), map[string]Vec{"a": {0, 0}}, "a")
	last := m.View("").TurnNum
	for i := 0; i < 20; i++ {
		clk.Advance(time.Duration(i%7) * 3 * time.Second)
		cur := m.View("").TurnNum
		require.GreaterOrEqual(t, cur, last)
		last = cur
	}
}

func TestMatchFinishesAfterMaxTurns(t *testing.T) {
	var results []Result
	s := testSettings(2)
	s.MaxTurns = 2
	s.MinPlayers = 2
	m, clk := newTestMatch(t, s, WithHooks(Hooks{
		OnFinish: func(r Result) { results = append(results, r) },
	}))
	require.NoError(t, m.Join("a"))
	require.NoError(t, m.Join("b"))
	clk.Advance(s.StartDelay)
	require.Equal(t, StatePlaying, m.State())

	m.mu.Lock()
	m.board = NewBoard(s.Width, s.Height)
	m.board.Set(Vec{1, 0}, CellPoint)
	m.byID["a"].pos = Vec{0, 0}
	m.byID["b"].pos = Vec{3, 3}
	m.mu.Unlock()
	grant(m, "a", Vec{1, 0})

	_, err := m.SubmitMove("a", Move{Kind: MoveJump, Vec: Vec{1, 0}})
	require.NoError(t, err)
	nextTurn(m, clk)
	assert.Equal(t, StatePlaying, m.State())
	nextTurn(m, clk)

	v := m.View("b")
	require.Equal(t, StateFinished, v.GameState)
	assert.Equal(t, []string{HashID("a")}, v.Winners)

	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Turns)
	assert.Equal(t, []Score{
		{PlayerHash: HashID("a"), Points: 1, Winner: true},
		{PlayerHash: HashID("b"), Points: 0, Winner: false},
	}, results[0].Scores)

	_, err = m.SubmitMove("a", Move{Kind: MoveInvent, Vec: Vec{5, 5}})
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, m.Join("c"), ErrLateJoin)

	nextTurn(m, clk)
	assert.Len(t, results, 1, "finished match does not run more turns")
}

func TestHooksSeeLifecycle(t *testing.T) {
	var scheduled, started int
	s := testSettings(2)
	m, clk := newTestMatch(t, s, WithHooks(Hooks{
		OnSchedule: func(int64, time.Time) { scheduled++ },
		OnStart:    func(_ int64, players int) { started = players },
	}))
	require.NoError(t, m.Join("a"))
	require.NoError(t, m.Join("b"))
	require.NoError(t, m.Join("c"))
	clk.Advance(s.StartDelay)
	m.View("")

	assert.Equal(t, 1, scheduled)
	assert.Equal(t, 3, started)
}

func TestConcurrentAccess(t *testing.T) {
	s := testSettings(2)
	s.StartDelay = 0
	m := NewMatch(7, s)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			_ = m.Join(id)
			for j := 0; j < 50; j++ {
				m.View(id)
				_, _ = m.SubmitMove(id, Move{Kind: MoveInvent, Vec: Vec{i, j}})
				m.CanJoin()
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.PlayerCount(), s.MaxPlayers)
}
