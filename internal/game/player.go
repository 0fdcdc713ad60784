package game

import (
	"crypto/sha256"
	"encoding/hex"
)

type MoveKind string

const (
	MoveNone   MoveKind = "none"
	MoveJump   MoveKind = "jump"
	MoveInvent MoveKind = "invent"
)

// Move - заявка игрока на текущий ход
type Move struct {
	Kind MoveKind
	Vec  Vec
}

// ParseMove собирает ход из сырых данных запроса
func ParseMove(kind string, vec []int) (Move, error) {
	switch MoveKind(kind) {
	case MoveNone:
		return Move{Kind: MoveNone}, nil
	case MoveJump, MoveInvent:
	default:
		return Move{}, ErrInvalidMoveShape
	}
	if len(vec) != 2 {
		return Move{}, ErrInvalidMoveShape
	}
	return Move{Kind: MoveKind(kind), Vec: Vec{vec[0], vec[1]}}, nil
}

// MoveStatus - результат последнего хода, виден только самому игроку
type MoveStatus struct {
	OK  bool `json:"ok"`
	Msg Code `json:"msg"`
}

type Player struct {
	ID string

	pos          Vec
	invented     *vecSet
	points       int
	nextMoveTurn int
	move         Move
	lastStatus   MoveStatus
}

func newPlayer(id string) *Player {
	return &Player{
		ID:         id,
		invented:   newVecSet(),
		move:       Move{Kind: MoveNone},
		lastStatus: MoveStatus{OK: true},
	}
}

func (p *Player) Pos() Vec          { return p.pos }
func (p *Player) Points() int       { return p.points }
func (p *Player) NextMoveTurn() int { return p.nextMoveTurn }
func (p *Player) Invented() []Vec   { return p.invented.List() }
func (p *Player) Pending() Move     { return p.move }
func (p *Player) LastStatus() MoveStatus {
	return p.lastStatus
}

func (p *Player) resetMove() {
	p.move = Move{Kind: MoveNone}
}

func (p *Player) setStatus(ok bool, code Code) {
	p.lastStatus = MoveStatus{OK: ok, Msg: code}
}

// HashID - короткий публичный идентификатор игрока; сам ID секретен
func HashID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}
