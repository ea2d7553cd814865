// Package simulator self-plays hands with random legal actions and
// verifies the table's bookkeeping invariants after every step: chips
// are conserved and no card is ever dealt twice.
package simulator

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/sanity-io/litter"

	"github.com/cardroom/holdem/internal/display"
	"github.com/cardroom/holdem/internal/engine"
	"github.com/cardroom/holdem/poker"
)

// Config holds configuration for a simulation run
type Config struct {
	Hands         int
	Players       int
	SmallBlind    int
	BigBlind      int
	StartingChips int
	Seed          int64
	Verbose       bool
	Logger        *log.Logger
}

// Stats summarizes a completed simulation
type Stats struct {
	HandsPlayed int
	Showdowns   int
	FoldWins    int
	Actions     int
	MaxPot      int
}

// Simulator runs random self-played hands against one engine
type Simulator struct {
	config   Config
	renderer *display.Renderer
}

// New creates a simulator with the given configuration
func New(config Config) *Simulator {
	if config.Players < 2 {
		config.Players = 4
	}
	if config.SmallBlind == 0 {
		config.SmallBlind = 10
	}
	if config.BigBlind == 0 {
		config.BigBlind = config.SmallBlind * 2
	}
	if config.StartingChips == 0 {
		config.StartingChips = config.BigBlind * 100
	}
	return &Simulator{config: config, renderer: display.NewRenderer()}
}

// Run executes the simulation. It stops early once fewer than two
// players have chips left; any invariant violation aborts with a full
// state dump in the error.
func (s *Simulator) Run() (*Stats, error) {
	rng := rand.New(rand.NewSource(s.config.Seed))
	eng := engine.New(rng, engine.Settings{
		SmallBlind:    s.config.SmallBlind,
		BigBlind:      s.config.BigBlind,
		StartingChips: s.config.StartingChips,
		MaxSeats:      s.config.Players,
	})

	for i := 0; i < s.config.Players; i++ {
		if _, err := eng.AddPlayer(fmt.Sprintf("sim%d", i+1), fmt.Sprintf("sim%d", i+1)); err != nil {
			return nil, err
		}
	}

	total := eng.TotalChips()
	stats := &Stats{}

	for hand := 0; hand < s.config.Hands; hand++ {
		if err := eng.StartHand(); err != nil {
			if code, ok := engine.IsRejection(err); ok && code == engine.RejectNotEnoughPlayers {
				s.config.Logger.Info("Table is down to one stack, stopping", "hands", stats.HandsPlayed)
				break
			}
			return nil, err
		}

		if err := s.playHand(eng, rng, total, stats); err != nil {
			return nil, fmt.Errorf("hand %d: %w", hand+1, err)
		}

		st := eng.State()
		if len(st.Winners) > 0 && st.Winners[0].Hand != nil {
			stats.Showdowns++
		} else {
			stats.FoldWins++
		}
		stats.HandsPlayed++

		if err := checkDeckIntegrity(st); err != nil {
			return nil, fmt.Errorf("hand %d: %w\n%s", hand+1, err, litter.Sdump(st))
		}

		if s.config.Verbose {
			fmt.Print(s.renderer.HandSummary(hand+1, st))
		}

		eng.ResetForNextHand()
	}

	return stats, nil
}

// playHand drives one hand to completion with random legal actions
func (s *Simulator) playHand(eng *engine.Engine, rng *rand.Rand, total int, stats *Stats) error {
	for eng.State().Phase.Interactive() {
		st := eng.State()
		acting := playerAtSeat(st, st.TurnSeat)
		if acting == nil {
			return fmt.Errorf("interactive phase with no acting player\n%s", litter.Sdump(st))
		}

		actions := eng.ValidActions(acting.ID)
		if len(actions) == 0 {
			return fmt.Errorf("acting player %s has no legal actions\n%s", acting.ID, litter.Sdump(st))
		}

		action := actions[rng.Intn(len(actions))]
		amount := 0
		if action == engine.ActionRaise {
			min, max := eng.MinRaiseAmount(), eng.MaxRaiseAmount(acting.ID)
			amount = min + rng.Intn(max-min+1)
		}

		if err := eng.ProcessAction(acting.ID, action, amount); err != nil {
			return fmt.Errorf("legal action %s rejected: %w\n%s", action, err, litter.Sdump(eng.State()))
		}
		stats.Actions++

		if pot := eng.State().PotTotal(); pot > stats.MaxPot {
			stats.MaxPot = pot
		}
		if have := eng.TotalChips(); have != total {
			return fmt.Errorf("chip conservation violated: have %d, want %d\n%s",
				have, total, litter.Sdump(eng.State()))
		}
	}

	if eng.State().Phase != engine.PhaseEnded {
		return fmt.Errorf("hand stalled in %s\n%s", eng.State().Phase, litter.Sdump(eng.State()))
	}
	return nil
}

// checkDeckIntegrity verifies no card appears twice across hole cards
// and the board.
func checkDeckIntegrity(st *engine.GameState) error {
	seen := make(map[poker.Card]bool)
	check := func(c poker.Card) error {
		if seen[c] {
			return fmt.Errorf("card %s dealt twice", c)
		}
		seen[c] = true
		return nil
	}

	for _, p := range st.Players {
		for _, c := range p.HoleCards {
			if err := check(c); err != nil {
				return err
			}
		}
	}
	for _, c := range st.Community {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

func playerAtSeat(st *engine.GameState, seat int) *engine.Player {
	for _, p := range st.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// PrintSummary prints the simulation results
func PrintSummary(stats *Stats) {
	fmt.Printf("\n=== SIMULATION RESULTS ===\n")
	fmt.Printf("Hands played: %d\n", stats.HandsPlayed)
	fmt.Printf("Showdowns: %d\n", stats.Showdowns)
	fmt.Printf("Fold wins: %d\n", stats.FoldWins)
	fmt.Printf("Actions taken: %d\n", stats.Actions)
	fmt.Printf("Largest pot: %d chips\n", stats.MaxPot)
}
