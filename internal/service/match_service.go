package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gridjump/internal/domain"
	"gridjump/internal/game"
	"gridjump/internal/logger"
	"gridjump/internal/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	CodeNoMatchID     game.Code = "ERR_NO_GAME_ID"
	CodeMatchNotFound game.Code = "ERR_GAME_DOES_NOT_EXIST"
)

var (
	ErrNoMatchID     = &game.RuleError{Code: CodeNoMatchID}
	ErrMatchNotFound = &game.RuleError{Code: CodeMatchNotFound}
)

const persistTimeout = 5 * time.Second

// ResultStore хранит итоги завершенных матчей
type ResultStore interface {
	Create(ctx context.Context, res *domain.MatchResult) error
	GetTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// JoinResult - ответ на joinGame
type JoinResult struct {
	PlayerID  string `json:"playerId"`
	MatchID   int64  `json:"gameId"`
	StartTime int64  `json:"startTime"`
}

// MatchService - реестр матчей и распределение игроков по лобби.
// Матчи только добавляются, номера идут подряд с 1.
type MatchService struct {
	mu      sync.RWMutex
	matches []*game.Match
	byID    map[int64]*game.Match
	seq     int64

	settings  game.Settings
	matchOpts []game.Option
	results   ResultStore
	audit     *AuditService
	metrics   *metrics.Metrics
	newID     func() string
	log       *slog.Logger

	wg sync.WaitGroup
}

type Option func(*MatchService)

func WithResultStore(r ResultStore) Option {
	return func(s *MatchService) { s.results = r }
}

func WithAuditStore(a AuditStore) Option {
	return func(s *MatchService) { s.audit = NewAuditService(a) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *MatchService) { s.metrics = m }
}

// WithMatchOptions передает опции в каждый создаваемый матч (часы в тестах)
func WithMatchOptions(opts ...game.Option) Option {
	return func(s *MatchService) { s.matchOpts = append(s.matchOpts, opts...) }
}

func WithIDGenerator(f func() string) Option {
	return func(s *MatchService) { s.newID = f }
}

func NewMatchService(settings game.Settings, opts ...Option) *MatchService {
	s := &MatchService{
		byID:     make(map[int64]*game.Match),
		settings: settings,
		newID:    uuid.NewString,
		log:      logger.With("component", "match_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	return s
}

// JoinGame выдает новому игроку id и сажает его в первое открытое лобби.
// Если лобби успело заполниться или стартовать, пробуем следующее.
func (s *MatchService) JoinGame(ctx context.Context) (JoinResult, error) {
	playerID := s.newID()

	skip := make(map[int64]bool)
	for {
		if err := ctx.Err(); err != nil {
			return JoinResult{}, err
		}

		m := s.openLobby(skip)

		err := m.Join(playerID)
		s.metrics.ObserveJoin(err)
		switch {
		case err == nil:
			s.log.Debug("player joined", "match_id", m.ID, "player", game.HashID(playerID))
			return JoinResult{
				PlayerID:  playerID,
				MatchID:   m.ID,
				StartTime: game.UnixMilli(m.StartTime()),
			}, nil
		case errors.Is(err, game.ErrLateJoin), errors.Is(err, game.ErrPlayerLimit):
			skip[m.ID] = true
		default:
			return JoinResult{}, fmt.Errorf("join match %d: %w", m.ID, err)
		}
	}
}

// openLobby возвращает первое открытое лобби в порядке создания или создает новое
func (s *MatchService) openLobby(skip map[int64]bool) *game.Match {
	s.mu.RLock()
	m := s.firstJoinable(skip)
	s.mu.RUnlock()
	if m != nil {
		return m
	}

	s.mu.Lock()
	// пока ждали блокировку, лобби мог создать кто-то другой
	if m := s.firstJoinable(skip); m != nil {
		s.mu.Unlock()
		return m
	}
	return s.createLocked()
}

// firstJoinable вызывается под s.mu
func (s *MatchService) firstJoinable(skip map[int64]bool) *game.Match {
	for _, m := range s.matches {
		if skip[m.ID] {
			continue
		}
		if m.CanJoin() {
			return m
		}
	}
	return nil
}

// createLocked снимает s.mu, захваченный вызывающим
func (s *MatchService) createLocked() *game.Match {
	s.seq++
	id := s.seq
	opts := append([]game.Option{game.WithHooks(s.hooks())}, s.matchOpts...)
	m := game.NewMatch(id, s.settings, opts...)
	s.matches = append(s.matches, m)
	s.byID[id] = m
	s.mu.Unlock()

	s.metrics.MatchesCreated.Inc()
	s.log.Info("match created", "match_id", id)
	s.persist(func(ctx context.Context) { s.audit.LogCreated(ctx, id) })
	return m
}

// Match находит матч по номеру
func (s *MatchService) Match(id int64) (*game.Match, error) {
	if id == 0 {
		return nil, ErrNoMatchID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// GetGame - состояние матча для игрока; пустой playerID - взгляд наблюдателя
func (s *MatchService) GetGame(matchID int64, playerID string) (game.View, error) {
	m, err := s.Match(matchID)
	if err != nil {
		return game.View{}, err
	}
	return m.View(playerID), nil
}

// SetMove принимает ход и возвращает номер хода, в котором он будет разрешен
func (s *MatchService) SetMove(matchID int64, playerID, kind string, vec []int) (int, error) {
	m, err := s.Match(matchID)
	if err != nil {
		return 0, err
	}
	move, err := game.ParseMove(kind, vec)
	if err != nil {
		s.metrics.ObserveSubmit("invalid", err)
		return 0, err
	}
	turn, err := m.SubmitMove(playerID, move)
	s.metrics.ObserveSubmit(move.Kind, err)
	return turn, err
}

// Leaderboard - лучшие результаты завершенных матчей
func (s *MatchService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if s.results == nil {
		return []domain.LeaderboardEntry{}, nil
	}
	entries, err := s.results.GetTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// MatchHistory - журнал событий существующего матча
func (s *MatchService) MatchHistory(ctx context.Context, matchID int64, limit int) ([]*domain.AuditLog, error) {
	if _, err := s.Match(matchID); err != nil {
		return nil, err
	}
	logs, err := s.audit.History(ctx, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("match %d history: %w", matchID, err)
	}
	return logs, nil
}

// MatchCount - сколько матчей создано за все время
func (s *MatchService) MatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

// Close дожидается фоновой записи в хранилища
func (s *MatchService) Close() {
	s.wg.Wait()
}

// hooks вызываются под блокировкой матча, поэтому запись в базу уходит в горутину
func (s *MatchService) hooks() game.Hooks {
	return game.Hooks{
		OnSchedule: func(matchID int64, startTime time.Time) {
			s.persist(func(ctx context.Context) { s.audit.LogScheduled(ctx, matchID, startTime) })
		},
		OnStart: func(matchID int64, players int) {
			s.metrics.MatchesStarted.Inc()
			s.metrics.PlayersPerMatch.Observe(float64(players))
			s.persist(func(ctx context.Context) { s.audit.LogStart(ctx, matchID, players) })
		},
		OnTurn: func(r game.TurnReport) {
			s.metrics.ObserveTurn(r)
		},
		OnFinish: func(r game.Result) {
			s.metrics.MatchesFinished.Inc()
			res := toDomainResult(r)
			s.persist(func(ctx context.Context) {
				if s.results != nil {
					if err := s.results.Create(ctx, res); err != nil {
						s.log.Error("failed to save match result", "error", err, "match_id", res.MatchID)
					}
				}
				s.audit.LogEnd(ctx, res)
			})
		},
	}
}

func (s *MatchService) persist(fn func(ctx context.Context)) {
	if s.results == nil && s.audit == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func toDomainResult(r game.Result) *domain.MatchResult {
	res := &domain.MatchResult{
		MatchID:    r.MatchID,
		Turns:      r.Turns,
		FinishedAt: r.FinishedAt,
		Players:    make([]domain.PlayerResult, 0, len(r.Scores)),
	}
	for _, sc := range r.Scores {
		res.Players = append(res.Players, domain.PlayerResult{
			PlayerHash: sc.PlayerHash,
			Points:     sc.Points,
			Winner:     sc.Winner,
		})
	}
	return res
}
