package game

// Outcome - чем закончилась заявка одного игрока
type Outcome struct {
	PlayerID string
	Kind     MoveKind
	Status   MoveStatus
}

// TurnReport - итог разрешения одного хода
type TurnReport struct {
	MatchID  int64
	Turn     int
	Outcomes []Outcome
}

func (r TurnReport) Accepted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status.OK {
			n++
		}
	}
	return n
}

// proposal - заявка, пережившая проверку и ждущая применения
type proposal struct {
	player *Player
	move   Move
	dest   Vec
}

// runMoves разрешает все заявки хода m.turn одновременно.
// При столкновении выигрывает тот, кто раньше вошел в матч.
func (m *Match) runMoves() TurnReport {
	if m.board == nil {
		panic("game: turn executed without a board")
	}

	report := TurnReport{MatchID: m.ID, Turn: m.turn}
	reject := func(p *Player, code Code) {
		report.Outcomes = append(report.Outcomes, Outcome{
			PlayerID: p.ID,
			Kind:     p.move.Kind,
			Status:   MoveStatus{OK: false, Msg: code},
		})
		p.setStatus(false, code)
		p.resetMove()
	}

	// заявки до окончания кулдауна отбрасываем
	upcoming := m.turn + 1
	for _, p := range m.players {
		if p.move.Kind != MoveNone && p.nextMoveTurn > upcoming {
			reject(p, CodeMoveDelay)
		}
	}

	// на занятую клетку прыгнуть нельзя, даже если ее хозяин стоит на месте
	taken := make(map[Vec]struct{}, len(m.players))
	for _, p := range m.players {
		taken[p.pos] = struct{}{}
	}
	claimed := newVecSet()

	accepted := make([]proposal, 0, len(m.players))
	for _, p := range m.players {
		switch p.move.Kind {
		case MoveJump:
			v := p.move.Vec
			if !p.invented.Has(v) {
				reject(p, CodeNotInvented)
				continue
			}
			dest := p.pos.Add(v)
			if !m.board.InBounds(dest) {
				reject(p, CodeOutOfBounds)
				continue
			}
			if _, ok := taken[dest]; ok {
				reject(p, CodeJumpConflict)
				continue
			}
			taken[dest] = struct{}{}
			accepted = append(accepted, proposal{player: p, move: p.move, dest: dest})

		case MoveInvent:
			v := p.move.Vec
			if m.invents.Has(v) {
				reject(p, CodeAlreadyInvented)
				continue
			}
			if !claimed.Add(v) {
				reject(p, CodeInventConflict)
				continue
			}
			accepted = append(accepted, proposal{player: p, move: p.move})
		}
	}

	for _, pr := range accepted {
		p := pr.player
		var code Code
		switch pr.move.Kind {
		case MoveJump:
			p.pos = pr.dest
			if m.board.Consume(p.pos) {
				p.points++
			}
			code = CodeJumpSuccess
		case MoveInvent:
			m.invents.Add(pr.move.Vec)
			p.invented.Add(pr.move.Vec)
			code = CodeInventSuccess
		}
		p.nextMoveTurn = m.turn + 1 + m.settings.cooldown(pr.move.Kind)
		p.setStatus(true, code)
		report.Outcomes = append(report.Outcomes, Outcome{PlayerID: p.ID, Kind: pr.move.Kind, Status: p.lastStatus})
		m.log.Debug("move applied", "player", HashID(p.ID), "kind", pr.move.Kind, "vec", pr.move.Vec)
	}

	for _, p := range m.players {
		p.resetMove()
	}
	return report
}
