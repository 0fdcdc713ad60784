package game

// SubmitMove ставит ход игрока в очередь на текущий ход, перезаписывая
// предыдущую заявку. Возвращает номер хода, в конце которого он будет разрешен.
// Кулдаун и конфликты с другими игроками здесь не проверяются.
func (m *Match) SubmitMove(playerID string, move Move) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.update()

	p, ok := m.byID[playerID]
	if !ok {
		return 0, ErrPlayerNotFound
	}
	if m.state != StatePlaying {
		return 0, ErrNotPlaying
	}
	if err := m.checkMove(p, move); err != nil {
		return 0, err
	}

	p.move = move
	m.log.Debug("move submitted", "player", HashID(p.ID), "kind", move.Kind, "vec", move.Vec, "turn", m.turn)
	return m.turn, nil
}

// checkMove - дешевая предварительная проверка, не зависит от чужих заявок
func (m *Match) checkMove(p *Player, move Move) error {
	switch move.Kind {
	case MoveNone:
		return nil
	case MoveJump:
		return m.checkJump(p, move.Vec)
	case MoveInvent:
		if m.invents.Has(move.Vec) {
			return ErrAlreadyInvented
		}
		return nil
	default:
		return ErrInvalidMoveShape
	}
}

func (m *Match) checkJump(p *Player, v Vec) error {
	if !p.invented.Has(v) {
		return ErrNotInvented
	}
	if !m.board.InBounds(p.pos.Add(v)) {
		return ErrOutOfBounds
	}
	return nil
}
