package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/engine"
)

// Room owns the engine and is its single mutator. Every engine call is
// funneled through one command goroutine, so the engine itself needs no
// locking. Turn timers and the between-hand restart both run on a
// quartz clock and re-enter through the same command channel.
type Room struct {
	engine         *engine.Engine
	logger         *log.Logger
	clock          quartz.Clock
	turnTimeout    time.Duration
	autoStart      bool
	interHandDelay time.Duration

	commands chan func()
	notify   func(*engine.Engine)

	// Command-goroutine state, touched only from Run
	turnTimer       *quartz.Timer
	turnHandID      string
	turnPlayerID    string
	nextHandPending bool
}

// NewRoom creates a room around an engine
func NewRoom(e *engine.Engine, table TableSettings, clock quartz.Clock, logger *log.Logger) *Room {
	return &Room{
		engine:         e,
		logger:         logger.WithPrefix("room"),
		clock:          clock,
		turnTimeout:    time.Duration(table.TurnTimeoutSeconds) * time.Second,
		autoStart:      table.AutoStart,
		interHandDelay: 2 * time.Second,
		commands:       make(chan func(), 64),
	}
}

// SetNotify installs the callback invoked on the command goroutine
// after every mutation, typically to broadcast per-recipient state.
// Must be called before Run.
func (r *Room) SetNotify(fn func(*engine.Engine)) {
	r.notify = fn
}

// Run processes commands until the context is cancelled
func (r *Room) Run(ctx context.Context) error {
	for {
		select {
		case cmd := <-r.commands:
			cmd()
			r.afterMutation()

		case <-ctx.Done():
			r.stopTurnTimer()
			return nil
		}
	}
}

// do runs fn on the command goroutine and waits for it to complete
func (r *Room) do(fn func(e *engine.Engine)) {
	done := make(chan struct{})
	r.commands <- func() {
		fn(r.engine)
		close(done)
	}
	<-done
}

// enqueue schedules fn on the command goroutine without waiting. Used
// from timer callbacks, which must not block.
func (r *Room) enqueue(fn func(e *engine.Engine)) {
	r.commands <- func() { fn(r.engine) }
}

// Join seats a player, or reconnects one who already holds the seat
func (r *Room) Join(id, name string) error {
	var err error
	r.do(func(e *engine.Engine) {
		if p := e.State().PlayerByID(id); p != nil {
			err = e.SetConnected(id, true)
			return
		}
		_, err = e.AddPlayer(id, name)
	})
	return err
}

// Leave removes a player from the table
func (r *Room) Leave(id string) error {
	var err error
	r.do(func(e *engine.Engine) {
		err = e.RemovePlayer(id)
	})
	return err
}

// Disconnect marks a player disconnected without freeing the seat
func (r *Room) Disconnect(id string) error {
	var err error
	r.do(func(e *engine.Engine) {
		err = e.SetConnected(id, false)
	})
	return err
}

// Act applies one player action
func (r *Room) Act(id string, action engine.Action, amount int) error {
	var err error
	r.do(func(e *engine.Engine) {
		err = e.ProcessAction(id, action, amount)
	})
	return err
}

// StartHand begins the next hand
func (r *Room) StartHand() error {
	var err error
	r.do(func(e *engine.Engine) {
		err = e.StartHand()
	})
	return err
}

// Tip transfers chips between players
func (r *Room) Tip(from, to string, amount int) error {
	var err error
	r.do(func(e *engine.Engine) {
		err = e.Tip(from, to, amount)
	})
	return err
}

// AddChips credits every connected player
func (r *Room) AddChips(amount int) {
	r.do(func(e *engine.Engine) {
		e.AddChipsToAll(amount)
	})
}

// Settings returns the current table settings
func (r *Room) Settings() engine.Settings {
	var s engine.Settings
	r.do(func(e *engine.Engine) {
		s = e.Settings()
	})
	return s
}

// Snapshot returns a deep-copied room state
func (r *Room) Snapshot() engine.RoomState {
	var snap engine.RoomState
	r.do(func(e *engine.Engine) {
		snap = e.Snapshot()
	})
	return snap
}

// StateFor builds the per-recipient state payload: the redacted
// snapshot plus the recipient's legal actions and amounts.
func (r *Room) StateFor(playerID string) StateData {
	var data StateData
	r.do(func(e *engine.Engine) {
		data = stateFor(e, playerID)
	})
	return data
}

func stateFor(e *engine.Engine, playerID string) StateData {
	data := StateData{Room: redactFor(e.Snapshot(), playerID)}
	for _, a := range e.ValidActions(playerID) {
		data.ValidActions = append(data.ValidActions, a.String())
	}
	if len(data.ValidActions) > 0 {
		data.CallAmount = e.CallAmount(playerID)
		data.MinRaise = e.MinRaiseAmount()
		data.MaxRaise = e.MaxRaiseAmount(playerID)
	}
	return data
}

// redactFor strips hole cards the recipient may not see. Everything is
// visible once the hand reaches showdown.
func redactFor(snap engine.RoomState, playerID string) engine.RoomState {
	if snap.Game == nil || snap.Game.Phase >= engine.PhaseShowdown {
		return snap
	}
	for _, p := range snap.Game.Players {
		if p.ID != playerID {
			p.HoleCards = nil
		}
	}
	return snap
}

// afterMutation runs on the command goroutine after every command:
// broadcast the new state, keep the turn timer pointed at the acting
// player, and schedule the next hand when this one is over.
func (r *Room) afterMutation() {
	if r.notify != nil {
		r.notify(r.engine)
	}

	st := r.engine.State()

	var acting *engine.Player
	if st.Phase.Interactive() {
		for _, p := range st.Players {
			if p.IsTurn {
				acting = p
				break
			}
		}
	}

	if acting == nil {
		r.stopTurnTimer()
	} else if st.HandID != r.turnHandID || acting.ID != r.turnPlayerID {
		r.stopTurnTimer()
		r.turnHandID = st.HandID
		r.turnPlayerID = acting.ID
		id := acting.ID
		r.turnTimer = r.clock.AfterFunc(r.turnTimeout, func() {
			r.enqueue(func(e *engine.Engine) {
				r.logger.Warn("Turn timed out, folding", "player", id)
				if err := e.HandleTurnTimeout(id); err != nil {
					r.logger.Error("Timeout fold failed", "player", id, "error", err)
				}
			})
		})
	}

	if st.Phase == engine.PhaseEnded && r.autoStart && !r.nextHandPending {
		r.nextHandPending = true
		r.clock.AfterFunc(r.interHandDelay, func() {
			r.enqueue(func(e *engine.Engine) {
				r.nextHandPending = false
				e.ResetForNextHand()
				if err := e.StartHand(); err != nil {
					r.logger.Info("Next hand not started", "reason", err)
				}
			})
		})
	}
}

func (r *Room) stopTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	r.turnHandID = ""
	r.turnPlayerID = ""
}
