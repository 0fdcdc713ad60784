package game

import "errors"

// Code - строковый код результата, уходит клиенту как есть
type Code string

// ошибки, которые возвращаются вызывающему сразу
const (
	CodeLateJoin         Code = "ERR_LATE_JOIN"
	CodePlayerLimit      Code = "ERR_PLAYER_LIMIT"
	CodePlayerNotFound   Code = "ERR_PLAYER_NOT_IN_GAME"
	CodeNotInvented      Code = "ERR_NOT_INVENTED"
	CodeOutOfBounds      Code = "ERR_JUMP_OUT_OF_BOUNDS"
	CodeAlreadyInvented  Code = "ERR_ALREADY_INVENTED"
	CodeInvalidMoveShape Code = "ERR_INVALID_MOVE"
	CodeNotPlaying       Code = "ERR_GAME_NOT_PLAYING"
)

// результаты, которые видны только в lastMoveStatus игрока
const (
	CodeMoveDelay      Code = "ERR_MOVE_DELAY"
	CodeJumpConflict   Code = "ERR_JUMP_CONFLICT"
	CodeInventConflict Code = "ERR_INVENT_CONFLICT"
	CodeJumpSuccess    Code = "JUMP_SUCCESS"
	CodeInventSuccess  Code = "INVENT_SUCCESS"
)

// RuleError - нарушение правил игры, не внутренняя ошибка
type RuleError struct {
	Code Code
}

func (e *RuleError) Error() string {
	return string(e.Code)
}

var (
	ErrLateJoin         = &RuleError{Code: CodeLateJoin}
	ErrPlayerLimit      = &RuleError{Code: CodePlayerLimit}
	ErrPlayerNotFound   = &RuleError{Code: CodePlayerNotFound}
	ErrNotInvented      = &RuleError{Code: CodeNotInvented}
	ErrOutOfBounds      = &RuleError{Code: CodeOutOfBounds}
	ErrAlreadyInvented  = &RuleError{Code: CodeAlreadyInvented}
	ErrInvalidMoveShape = &RuleError{Code: CodeInvalidMoveShape}
	ErrNotPlaying       = &RuleError{Code: CodeNotPlaying}
)

// CodeOf достает код из ошибки правил; ok=false для прочих ошибок
func CodeOf(err error) (Code, bool) {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}
