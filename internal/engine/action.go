package engine

import "fmt"

// Action represents a player action
type Action int

const (
	ActionFold Action = iota
	ActionCheck
	ActionCall
	ActionRaise
	ActionAllIn
)

func (a Action) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionAllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// RejectCode classifies why a command was refused
type RejectCode string

const (
	RejectUnknownPlayer     RejectCode = "unknown_player"
	RejectNotYourTurn       RejectCode = "not_your_turn"
	RejectFolded            RejectCode = "folded"
	RejectIllegalAction     RejectCode = "illegal_action"
	RejectBadAmount         RejectCode = "bad_amount"
	RejectWrongPhase        RejectCode = "wrong_phase"
	RejectNotEnoughPlayers  RejectCode = "not_enough_players"
	RejectInsufficientChips RejectCode = "insufficient_chips"
	RejectSeatTaken         RejectCode = "seat_taken"
)

// Rejection is returned when a command fails at the validation boundary.
// A rejected command never mutates engine state.
type Rejection struct {
	Code   RejectCode
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Code)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Detail)
}

func reject(code RejectCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is an engine rejection and returns its code
func IsRejection(err error) (RejectCode, bool) {
	if r, ok := err.(*Rejection); ok {
		return r.Code, true
	}
	return "", false
}

// LastAction records the most recent applied action together with the
// phase it occurred in, since the phase may already have advanced by the
// time a consumer reads state.
type LastAction struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
	Amount   int    `json:"amount"`
	Phase    Phase  `json:"phase"`
}
