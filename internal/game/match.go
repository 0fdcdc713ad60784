package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"gridjump/internal/logger"
)

// Match - один матч. Все таймеры ленивые: старт и ходы вычисляются
// в update() при следующем обращении, фоновых горутин нет.
type Match struct {
	ID int64

	mu       sync.Mutex
	settings Settings
	now      func() time.Time
	rng      *rand.Rand
	hooks    Hooks
	log      *slog.Logger

	state     State
	startTime time.Time // начало первого хода, zero - не назначено
	players   []*Player
	byID      map[string]*Player
	board     *Board
	invents   *vecSet
	turn      int
}

type Option func(*Match)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(m *Match) { m.now = now }
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Match) { m.rng = rng }
}

func WithHooks(h Hooks) Option {
	return func(m *Match) { m.hooks = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Match) { m.log = l }
}

// NewMatch создает матч в состоянии lobby
func NewMatch(id int64, settings Settings, opts ...Option) *Match {
	m := &Match{
		ID:       id,
		settings: settings,
		now:      time.Now,
		state:    StateLobby,
		byID:     make(map[string]*Player),
		invents:  newVecSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.log == nil {
		m.log = logger.Match(id)
	}
	return m
}

func (m *Match) Settings() Settings { return m.settings }

// update должен вызываться в начале каждой операции, под m.mu
func (m *Match) update() {
	now := m.now()
	if m.shouldStart(now) {
		m.start()
	}
	if m.state != StatePlaying {
		return
	}

	current := TurnAt(m.startTime, now, m.settings.TurnDelay)
	if current <= m.turn {
		return
	}

	// сколько бы ходов ни прошло без наблюдателей, разрешаем заявки один раз
	report := m.runMoves()
	m.turn = current

	m.log.Info("turn executed",
		"turn", report.Turn,
		"current_turn", m.turn,
		"accepted", report.Accepted(),
		"rejected", len(report.Outcomes)-report.Accepted())
	if m.hooks.OnTurn != nil {
		m.hooks.OnTurn(report)
	}

	if m.settings.MaxTurns > 0 && m.turn > m.settings.MaxTurns {
		m.finish(now)
	}
}

func (m *Match) shouldStart(now time.Time) bool {
	return m.state == StateLobby && !m.startTime.IsZero() && !now.Before(m.startTime)
}

func (m *Match) start() {
	positions := placePlayers(m.rng, m.settings.Width, m.settings.Height, len(m.players))
	for i, p := range m.players {
		p.pos = positions[i]
	}
	m.board = generateBoard(m.rng, m.settings.Width, m.settings.Height, m.settings.PointDensity, positions)
	m.turn = 1
	m.state = StatePlaying

	m.log.Info("match started", "players", len(m.players), "points", m.board.Points())
	if m.hooks.OnStart != nil {
		m.hooks.OnStart(m.ID, len(m.players))
	}
}

func (m *Match) finish(now time.Time) {
	m.state = StateFinished
	res := Result{
		MatchID:    m.ID,
		Turns:      m.settings.MaxTurns,
		FinishedAt: now,
		Scores:     make([]Score, 0, len(m.players)),
	}
	best := m.bestScore()
	for _, p := range m.players {
		res.Scores = append(res.Scores, Score{
			PlayerHash: HashID(p.ID),
			Points:     p.points,
			Winner:     p.points == best,
		})
	}

	m.log.Info("match finished", "turns", res.Turns, "best_score", best)
	if m.hooks.OnFinish != nil {
		m.hooks.OnFinish(res)
	}
}

func (m *Match) bestScore() int {
	best := 0
	for _, p := range m.players {
		if p.points > best {
			best = p.points
		}
	}
	return best
}

// Join добавляет игрока в лобби. Повторный вход с тем же id ничего не делает.
func (m *Match) Join(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update()

	if m.state != StateLobby {
		return ErrLateJoin
	}
	if _, ok := m.byID[id]; ok {
		return nil
	}
	if len(m.players) >= m.settings.MaxPlayers {
		return ErrPlayerLimit
	}

	p := newPlayer(id)
	m.players = append(m.players, p)
	m.byID[id] = p

	if len(m.players) >= m.settings.MinPlayers && m.startTime.IsZero() {
		m.startTime = m.now().Add(m.settings.StartDelay)
		m.log.Info("match start scheduled", "start_time", m.startTime, "players", len(m.players))
		if m.hooks.OnSchedule != nil {
			m.hooks.OnSchedule(m.ID, m.startTime)
		}
	}
	return nil
}

// CanJoin - можно ли прямо сейчас войти в матч
func (m *Match) CanJoin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update()
	return m.state == StateLobby && len(m.players) < m.settings.MaxPlayers
}

func (m *Match) IsJoined(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok
}

// StartTime - запланированное время старта, zero если игроков пока мало
func (m *Match) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update()
	return m.state
}

func (m *Match) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}
