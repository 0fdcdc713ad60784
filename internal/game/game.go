package game

import (
	"errors"
	"fmt"
	"time"
)

type State string

const (
	StateLobby    State = "lobby"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Settings - параметры одного матча, фиксируются при создании
type Settings struct {
	Width        int
	Height       int
	TurnDelay    time.Duration
	StartDelay   time.Duration
	MinPlayers   int
	MaxPlayers   int
	PointDensity float64
	JumpTurns    int // кулдаун после успешного прыжка
	InventTurns  int // кулдаун после успешного изобретения
	MaxTurns     int // 0 - матч не заканчивается
}

// DefaultSettings возвращает значения по умолчанию
func DefaultSettings() Settings {
	return Settings{
		Width:        20,
		Height:       20,
		TurnDelay:    5 * time.Second,
		StartDelay:   10 * time.Second,
		MinPlayers:   2,
		MaxPlayers:   8,
		PointDensity: 0.1,
		JumpTurns:    1,
		InventTurns:  2,
	}
}

// Validate проверяет что с настройками вообще можно играть
func (s Settings) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("board must be at least 1x1, got %dx%d", s.Width, s.Height))
	}
	if s.TurnDelay <= 0 {
		errs = append(errs, fmt.Errorf("turn delay must be positive, got %s", s.TurnDelay))
	}
	if s.StartDelay < 0 {
		errs = append(errs, fmt.Errorf("start delay must not be negative, got %s", s.StartDelay))
	}
	if s.MinPlayers < 1 {
		errs = append(errs, fmt.Errorf("min players must be at least 1, got %d", s.MinPlayers))
	}
	if s.MaxPlayers < s.MinPlayers {
		errs = append(errs, fmt.Errorf("max players %d is below min players %d", s.MaxPlayers, s.MinPlayers))
	}
	if s.MaxPlayers > s.Width*s.Height {
		errs = append(errs, fmt.Errorf("max players %d do not fit on a %dx%d board", s.MaxPlayers, s.Width, s.Height))
	}
	if s.PointDensity < 0 || s.PointDensity > 1 {
		errs = append(errs, fmt.Errorf("point density must be in [0,1], got %v", s.PointDensity))
	}
	if s.JumpTurns < 0 || s.InventTurns < 0 {
		errs = append(errs, errors.New("cooldowns must not be negative"))
	}
	if s.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("max turns must not be negative, got %d", s.MaxTurns))
	}
	return errors.Join(errs...)
}

// cooldown возвращает число ходов ожидания после успешного хода данного вида
func (s Settings) cooldown(kind MoveKind) int {
	switch kind {
	case MoveJump:
		return s.JumpTurns
	case MoveInvent:
		return s.InventTurns
	}
	return 0
}

// Hooks вызываются под блокировкой матча. Обратно в матч из них ходить нельзя.
type Hooks struct {
	OnSchedule func(matchID int64, startTime time.Time)
	OnStart    func(matchID int64, players int)
	OnTurn     func(report TurnReport)
	OnFinish   func(result Result)
}

// Result - итог завершенного матча
type Result struct {
	MatchID    int64
	Turns      int
	FinishedAt time.Time
	Scores     []Score
}

type Score struct {
	PlayerHash string
	Points     int
	Winner     bool
}
