package engine

import (
	"github.com/cardroom/holdem/poker"
)

// Phase represents the betting state machine phase
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Interactive reports whether players act during this phase
func (p Phase) Interactive() bool {
	return p >= PhasePreflop && p <= PhaseRiver
}

// Winner records one payout at the end of a hand
type Winner struct {
	PlayerID string            `json:"playerId"`
	Amount   int               `json:"amount"`
	Hand     *poker.HandResult `json:"hand,omitempty"`
}

// GameState is the serializable per-hand state snapshot. It is the only
// source of truth other participants observe, so the transport layer
// re-broadcasts it verbatim after every mutating call.
type GameState struct {
	HandID     string       `json:"handId"`
	Phase      Phase        `json:"phase"`
	Players    []*Player    `json:"players"`
	Community  []poker.Card `json:"community"`
	Pots       []Pot        `json:"pots"`
	CurrentBet int          `json:"currentBet"`
	MinRaise   int          `json:"minRaise"`
	DealerSeat int          `json:"dealerSeat"`
	TurnSeat   int          `json:"turnSeat"` // -1 outside interactive phases
	SmallBlind int          `json:"smallBlind"`
	BigBlind   int          `json:"bigBlind"`
	LastAction *LastAction  `json:"lastAction,omitempty"`
	Winners    []Winner     `json:"winners,omitempty"`
}

// Clone returns a deep copy of the state, suitable for snapshot
// broadcasting and replay testing.
func (gs *GameState) Clone() *GameState {
	cp := *gs
	cp.Players = make([]*Player, len(gs.Players))
	for i, p := range gs.Players {
		cp.Players[i] = p.clone()
	}
	cp.Community = append([]poker.Card{}, gs.Community...)
	cp.Pots = make([]Pot, len(gs.Pots))
	for i, pot := range gs.Pots {
		cp.Pots[i] = Pot{Amount: pot.Amount, Eligible: append([]string{}, pot.Eligible...)}
	}
	if gs.LastAction != nil {
		la := *gs.LastAction
		cp.LastAction = &la
	}
	cp.Winners = append([]Winner{}, gs.Winners...)
	return &cp
}

// PlayerByID finds a player in the roster, or nil
func (gs *GameState) PlayerByID(id string) *Player {
	for _, p := range gs.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PotTotal returns the chips across all pots, excluding live street bets
func (gs *GameState) PotTotal() int {
	total := 0
	for _, pot := range gs.Pots {
		total += pot.Amount
	}
	return total
}

// Settings holds the table parameters the engine enforces
type Settings struct {
	SmallBlind    int `json:"smallBlind"`
	BigBlind      int `json:"bigBlind"`
	StartingChips int `json:"startingChips"`
	MaxSeats      int `json:"maxSeats"`
}

// RoomState is the enclosing snapshot carrying settings, roster and the
// start flag alongside the per-hand game state.
type RoomState struct {
	Settings Settings   `json:"settings"`
	Started  bool       `json:"started"`
	Game     *GameState `json:"game"`
}
