package game

// View - состояние матча глазами конкретного игрока (или наблюдателя)
type View struct {
	GameState    State        `json:"gameState"`
	StartTime    int64        `json:"startTime"`
	PlayerCount  int          `json:"playerCount,omitempty"`
	NextTurnTime int64        `json:"nextTurnTime,omitempty"`
	TurnDelay    int64        `json:"turnDelay,omitempty"`
	TurnNum      int          `json:"turnNum,omitempty"`
	Board        []string     `json:"board,omitempty"`
	Players      []PlayerView `json:"players,omitempty"`
	Winners      []string     `json:"winners,omitempty"`
	MyPlayer     *SelfView    `json:"myPlayer,omitempty"`
}

type PlayerView struct {
	Pos      Vec   `json:"pos"`
	Invented []Vec `json:"invented"`
	Points   int   `json:"points"`
}

type SelfView struct {
	PlayerView
	NextMoveTurn   int        `json:"nextMoveTurn"`
	LastMoveStatus MoveStatus `json:"lastMoveStatus"`
}

// View отдает текущее состояние. myPlayer заполняется, только если
// playerID передан и игрок в матче.
func (m *Match) View(playerID string) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update()

	if m.state == StateLobby {
		return View{
			GameState:   m.state,
			StartTime:   UnixMilli(m.startTime),
			PlayerCount: len(m.players),
		}
	}

	v := View{
		GameState:    m.state,
		StartTime:    UnixMilli(m.startTime),
		NextTurnTime: TurnEnd(m.startTime, m.turn, m.settings.TurnDelay).UnixMilli(),
		TurnDelay:    m.settings.TurnDelay.Milliseconds(),
		TurnNum:      m.turn,
		Board:        m.board.Rows(),
		Players:      make([]PlayerView, 0, len(m.players)),
	}
	for _, p := range m.players {
		v.Players = append(v.Players, playerView(p))
	}

	if m.state == StateFinished {
		best := m.bestScore()
		for _, p := range m.players {
			if p.points == best {
				v.Winners = append(v.Winners, HashID(p.ID))
			}
		}
	}

	if playerID != "" {
		if p, ok := m.byID[playerID]; ok {
			v.MyPlayer = &SelfView{
				PlayerView:     playerView(p),
				NextMoveTurn:   p.nextMoveTurn,
				LastMoveStatus: p.lastStatus,
			}
		}
	}
	return v
}

func playerView(p *Player) PlayerView {
	return PlayerView{
		Pos:      p.pos,
		Invented: p.invented.List(),
		Points:   p.points,
	}
}
