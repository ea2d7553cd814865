package engine

import (
	"github.com/cardroom/holdem/poker"
)

// Player represents a seated player. Owned and exclusively mutated by
// the engine.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`

	Chips     int          `json:"chips"`
	HoleCards []poker.Card `json:"holeCards,omitempty"`
	Bet       int          `json:"bet"`      // Current bet in this street
	TotalBet  int          `json:"totalBet"` // Total bet in the hand

	Folded        bool `json:"folded"`
	AllIn         bool `json:"allIn"`
	Acted         bool `json:"acted"`
	IsTurn        bool `json:"isTurn"`
	IsDealer      bool `json:"isDealer"`
	IsSmallBlind  bool `json:"isSmallBlind"`
	IsBigBlind    bool `json:"isBigBlind"`
	Connected     bool `json:"connected"`
	JoinedMidHand bool `json:"joinedMidHand"`
}

// CanAct returns true if the player can still act this street
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// InHand returns true if the player still contests the pot
func (p *Player) InHand() bool {
	return !p.Folded
}

// resetForHand clears all per-hand state ahead of a fresh deal
func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.Acted = false
	p.IsTurn = false
	p.IsDealer = false
	p.IsSmallBlind = false
	p.IsBigBlind = false
	p.JoinedMidHand = false
}

// clone returns a deep copy of the player
func (p *Player) clone() *Player {
	cp := *p
	if p.HoleCards != nil {
		cp.HoleCards = append([]poker.Card{}, p.HoleCards...)
	}
	return &cp
}
