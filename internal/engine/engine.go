// Package engine implements the authoritative Texas Hold'em rules
// engine: the betting-round state machine, turn order, raise sizing,
// all-in handling and pot settlement. It owns a single hand from deal
// to payout.
//
// The engine is not internally thread-safe. It is designed to be driven
// by exactly one authoritative mutator processing one command at a
// time; embedding systems must serialize all calls into it. Every
// mutating call either fully succeeds or returns a Rejection and leaves
// state untouched.
package engine

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/cardroom/holdem/poker"
)

// Engine drives one table. Deck and evaluator are pure utilities; all
// mutable hand state lives in the GameState aggregate so independent
// tables can run side by side.
type Engine struct {
	state    *GameState
	settings Settings
	deck     *poker.Deck
	rng      *rand.Rand
	newDeck  func() *poker.Deck

	// Chips contributed by players removed mid-hand. Dead money: stays
	// in the pots but wins nothing.
	deadContribs []int
}

// New creates an engine with the given random source and settings
func New(rng *rand.Rand, settings Settings, opts ...Option) *Engine {
	if settings.MaxSeats <= 0 {
		settings.MaxSeats = 9
	}
	e := &Engine{
		settings: settings,
		rng:      rng,
		state: &GameState{
			Phase:      PhaseWaiting,
			DealerSeat: -1,
			TurnSeat:   -1,
			SmallBlind: settings.SmallBlind,
			BigBlind:   settings.BigBlind,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the live game state. Callers must not mutate it.
func (e *Engine) State() *GameState {
	return e.state
}

// Settings returns the current table settings, including the
// starting-chips baseline raised by AddChipsToAll.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Snapshot returns a deep-copied room state safe to serialize and
// broadcast from another goroutine.
func (e *Engine) Snapshot() RoomState {
	return RoomState{
		Settings: e.settings,
		Started:  e.state.Phase != PhaseWaiting,
		Game:     e.state.Clone(),
	}
}

// AddPlayer seats a new player with the starting chip stack. A player
// joining while a hand is in progress is seated folded and flagged so
// it becomes eligible at the next StartHand.
func (e *Engine) AddPlayer(id, name string) (*Player, error) {
	if e.state.PlayerByID(id) != nil {
		return nil, reject(RejectSeatTaken, "player %s already seated", id)
	}
	if len(e.state.Players) >= e.settings.MaxSeats {
		return nil, reject(RejectSeatTaken, "table is full")
	}

	p := &Player{
		ID:        id,
		Name:      name,
		Seat:      e.freeSeat(),
		Chips:     e.settings.StartingChips,
		Connected: true,
	}
	if e.state.Phase.Interactive() {
		p.Folded = true
		p.JoinedMidHand = true
	}

	e.state.Players = append(e.state.Players, p)
	sort.Slice(e.state.Players, func(i, j int) bool {
		return e.state.Players[i].Seat < e.state.Players[j].Seat
	})
	return p, nil
}

// RemovePlayer deletes a player from the roster and purges it from
// every pot's eligibility list. Chips it already contributed stay in
// the pots as dead money.
func (e *Engine) RemovePlayer(id string) error {
	idx := -1
	for i, p := range e.state.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return reject(RejectUnknownPlayer, "no player %s", id)
	}

	p := e.state.Players[idx]
	wasTurn := p.IsTurn
	seat := p.Seat
	if e.state.Phase.Interactive() && p.TotalBet > 0 {
		e.deadContribs = append(e.deadContribs, p.TotalBet)
	}

	e.state.Players = append(e.state.Players[:idx], e.state.Players[idx+1:]...)
	for i := range e.state.Pots {
		e.state.Pots[i].removeEligible(id)
	}

	if !e.state.Phase.Interactive() {
		return nil
	}

	switch e.countInHand() {
	case 0:
		e.state.Pots = nil
		e.clearTurn()
		e.state.Phase = PhaseEnded
	case 1:
		e.finishByFold()
	default:
		if e.roundComplete() {
			e.advancePhase()
		} else if wasTurn {
			e.setTurnSeat(e.nextCanActAfterSeat(seat))
		}
	}
	return nil
}

// SetConnected updates a player's connection flag. Disconnect handling
// itself (timeouts, forced folds) belongs to the embedding system.
func (e *Engine) SetConnected(id string, connected bool) error {
	p := e.state.PlayerByID(id)
	if p == nil {
		return reject(RejectUnknownPlayer, "no player %s", id)
	}
	p.Connected = connected
	return nil
}

// StartHand begins a new hand: advances the button, posts blinds, deals
// hole cards and opens preflop betting. Requires at least two connected
// players with chips.
func (e *Engine) StartHand() error {
	if e.state.Phase != PhaseWaiting {
		return reject(RejectWrongPhase, "cannot start hand during %s", e.state.Phase)
	}

	eligible := e.eligiblePlayers()
	if len(eligible) < 2 {
		return reject(RejectNotEnoughPlayers, "need 2 players with chips, have %d", len(eligible))
	}

	for _, p := range e.state.Players {
		wasEligible := p.Connected && p.Chips > 0
		p.resetForHand()
		if !wasEligible {
			// Sitting out this deal
			p.Folded = true
		}
	}
	e.deadContribs = nil

	e.state.DealerSeat = e.nextEligibleSeatAfter(e.state.DealerSeat)
	e.playerAtSeat(e.state.DealerSeat).IsDealer = true

	// Order eligible players clockwise from the button
	order := e.eligibleFromSeat(e.state.DealerSeat)

	var sb, bb *Player
	if len(order) == 2 {
		// Heads-up: the button posts the small blind
		sb, bb = order[0], order[1]
	} else {
		sb, bb = order[1], order[2]
	}
	e.postBlind(sb, e.settings.SmallBlind)
	e.postBlind(bb, e.settings.BigBlind)
	sb.IsSmallBlind = true
	bb.IsBigBlind = true

	// Fresh shuffled deck each hand; two cards round-robin from the
	// seat after the button.
	if e.newDeck != nil {
		e.deck = e.newDeck()
	} else {
		e.deck = poker.NewDeck(e.rng)
	}
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(order); i++ {
			p := order[i%len(order)]
			card, _ := e.deck.Deal()
			p.HoleCards = append(p.HoleCards, card)
		}
	}

	eligibleIDs := make([]string, len(order))
	for i, p := range order {
		eligibleIDs[i] = p.ID
	}

	e.state.HandID = uuid.NewString()
	e.state.Phase = PhasePreflop
	e.state.Community = nil
	e.state.Pots = []Pot{{Amount: 0, Eligible: eligibleIDs}}
	e.state.CurrentBet = e.settings.BigBlind
	e.state.MinRaise = e.settings.BigBlind
	e.state.LastAction = nil
	e.state.Winners = nil

	next := e.nextCanActAfterSeat(bb.Seat)
	if next == -1 {
		// Blinds put everyone all-in; run the board out
		e.advancePhase()
		return nil
	}
	e.setTurnSeat(next)
	return nil
}

// ValidActions returns the set of actions currently legal for the
// player. Empty unless it is that player's turn in an interactive phase.
func (e *Engine) ValidActions(playerID string) []Action {
	p := e.state.PlayerByID(playerID)
	if p == nil || !e.state.Phase.Interactive() || !p.IsTurn || !p.CanAct() {
		return nil
	}

	actions := []Action{ActionFold}
	owes := e.state.CurrentBet - p.Bet
	if owes == 0 {
		actions = append(actions, ActionCheck)
	}
	if owes > 0 && p.Chips > 0 {
		actions = append(actions, ActionCall)
	}
	// An acted player facing a higher bet means a short all-in raised
	// the price without reopening the action: call or fold only.
	if !p.Acted && p.Chips >= owes+e.state.MinRaise {
		actions = append(actions, ActionRaise)
	}
	if p.Chips > 0 && (!p.Acted || p.Bet+p.Chips <= e.state.CurrentBet) {
		actions = append(actions, ActionAllIn)
	}
	return actions
}

// CallAmount returns the chips the player must add to match the
// current bet, capped by its stack.
func (e *Engine) CallAmount(playerID string) int {
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return 0
	}
	owes := e.state.CurrentBet - p.Bet
	if owes < 0 {
		owes = 0
	}
	if owes > p.Chips {
		owes = p.Chips
	}
	return owes
}

// MinRaiseAmount returns the minimum legal raise increment above the
// current bet.
func (e *Engine) MinRaiseAmount() int {
	return e.state.MinRaise
}

// MaxRaiseAmount returns the largest raise increment the player can
// make, i.e. moving all-in above the current bet. Zero when the player
// cannot exceed the current bet.
func (e *Engine) MaxRaiseAmount(playerID string) int {
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return 0
	}
	max := p.Bet + p.Chips - e.state.CurrentBet
	if max < 0 {
		max = 0
	}
	return max
}

// ProcessAction validates and applies one player action. For raises,
// amount is the increment above the current bet; for every other action
// it must be zero. Rejected actions leave state untouched.
func (e *Engine) ProcessAction(playerID string, action Action, amount int) error {
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return reject(RejectUnknownPlayer, "no player %s", playerID)
	}
	if !e.state.Phase.Interactive() {
		return reject(RejectWrongPhase, "no actions during %s", e.state.Phase)
	}
	if p.Folded {
		return reject(RejectFolded, "%s has folded", playerID)
	}
	if !p.IsTurn {
		return reject(RejectNotYourTurn, "it is not %s's turn", playerID)
	}

	if action != ActionRaise && amount != 0 {
		return reject(RejectBadAmount, "%s takes no amount", action)
	}

	owes := e.state.CurrentBet - p.Bet
	switch action {
	case ActionFold:
		// Always legal on turn
	case ActionCheck:
		if owes != 0 {
			return reject(RejectIllegalAction, "cannot check, must call %d", owes)
		}
	case ActionCall:
		if owes <= 0 {
			return reject(RejectIllegalAction, "nothing to call")
		}
		if p.Chips <= 0 {
			return reject(RejectIllegalAction, "no chips to call with")
		}
	case ActionRaise:
		if p.Acted {
			return reject(RejectIllegalAction, "betting was not reopened")
		}
		maxRaise := p.Bet + p.Chips - e.state.CurrentBet
		if maxRaise < e.state.MinRaise {
			return reject(RejectIllegalAction, "insufficient chips to raise, minimum %d", e.state.MinRaise)
		}
		if amount < e.state.MinRaise || amount > maxRaise {
			return reject(RejectBadAmount, "raise must be between %d and %d", e.state.MinRaise, maxRaise)
		}
	case ActionAllIn:
		if p.Chips <= 0 {
			return reject(RejectIllegalAction, "no chips")
		}
		if p.Acted && p.Bet+p.Chips > e.state.CurrentBet {
			return reject(RejectIllegalAction, "betting was not reopened")
		}
	default:
		return reject(RejectIllegalAction, "unknown action")
	}

	applied := e.apply(p, action, amount)
	e.state.LastAction = &LastAction{
		PlayerID: playerID,
		Action:   action,
		Amount:   applied,
		Phase:    e.state.Phase,
	}

	e.finishTurn(p)
	return nil
}

// apply mutates state for a pre-validated action and returns the chips moved
func (e *Engine) apply(p *Player, action Action, amount int) int {
	switch action {
	case ActionFold:
		p.Folded = true
		p.Acted = true
		for i := range e.state.Pots {
			e.state.Pots[i].removeEligible(p.ID)
		}
		return 0

	case ActionCheck:
		p.Acted = true
		return 0

	case ActionCall:
		pay := e.state.CurrentBet - p.Bet
		if pay > p.Chips {
			pay = p.Chips
		}
		e.pay(p, pay)
		p.Acted = true
		return pay

	case ActionRaise:
		newBet := e.state.CurrentBet + amount
		pay := newBet - p.Bet
		e.pay(p, pay)
		e.state.CurrentBet = newBet
		e.state.MinRaise = amount
		e.reopenAction(p)
		p.Acted = true
		return pay

	case ActionAllIn:
		pay := p.Chips
		e.pay(p, pay)
		if p.Bet > e.state.CurrentBet {
			// A short all-in raises the price but re-opens action only
			// when it amounts to a full raise.
			if excess := p.Bet - e.state.CurrentBet; excess >= e.state.MinRaise {
				e.state.MinRaise = excess
				e.reopenAction(p)
			}
			e.state.CurrentBet = p.Bet
		}
		p.Acted = true
		return pay
	}
	return 0
}

func (e *Engine) pay(p *Player, amount int) {
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// reopenAction clears acted flags for everyone else still able to act,
// since they must respond to the larger bet.
func (e *Engine) reopenAction(raiser *Player) {
	for _, p := range e.state.Players {
		if p != raiser && p.CanAct() {
			p.Acted = false
		}
	}
}

// finishTurn moves the hand forward after an applied action
func (e *Engine) finishTurn(p *Player) {
	e.clearTurn()

	if e.countInHand() == 1 {
		e.finishByFold()
		return
	}
	if e.roundComplete() {
		e.advancePhase()
		return
	}
	e.setTurnSeat(e.nextCanActAfterSeat(p.Seat))
}

// HandleTurnTimeout force-folds the player if it still holds the turn.
// A stale timer firing after the turn moved on is not an error.
func (e *Engine) HandleTurnTimeout(playerID string) error {
	p := e.state.PlayerByID(playerID)
	if p == nil {
		return reject(RejectUnknownPlayer, "no player %s", playerID)
	}
	if !e.state.Phase.Interactive() || !p.IsTurn {
		return nil
	}
	return e.ProcessAction(playerID, ActionFold, 0)
}

// Tip transfers chips between two players atomically, outside of pot
// accounting.
func (e *Engine) Tip(fromID, toID string, amount int) error {
	if amount <= 0 {
		return reject(RejectBadAmount, "tip must be positive, got %d", amount)
	}
	from := e.state.PlayerByID(fromID)
	if from == nil {
		return reject(RejectUnknownPlayer, "no player %s", fromID)
	}
	to := e.state.PlayerByID(toID)
	if to == nil {
		return reject(RejectUnknownPlayer, "no player %s", toID)
	}
	if from.Chips < amount {
		return reject(RejectInsufficientChips, "%s has %d chips, tip is %d", fromID, from.Chips, amount)
	}
	from.Chips -= amount
	to.Chips += amount
	return nil
}

// AddChipsToAll credits every connected player and raises the nominal
// starting-chips baseline. A no-op for non-positive amounts.
func (e *Engine) AddChipsToAll(amount int) {
	if amount <= 0 {
		return
	}
	for _, p := range e.state.Players {
		if p.Connected {
			p.Chips += amount
		}
	}
	e.settings.StartingChips += amount
}

// ResetForNextHand prunes departed broke players and returns the table
// to the waiting phase. Connected players with zero chips stay seated
// but will not be dealt in.
func (e *Engine) ResetForNextHand() {
	kept := e.state.Players[:0]
	for _, p := range e.state.Players {
		if p.Chips == 0 && !p.Connected {
			continue
		}
		kept = append(kept, p)
	}
	e.state.Players = kept

	e.clearTurn()
	e.state.Phase = PhaseWaiting
	e.state.HandID = ""
	e.state.Community = nil
	e.state.Pots = nil
	e.state.Winners = nil
	e.state.LastAction = nil
	e.deadContribs = nil
}

// TotalChips sums stacks, live street bets and pots. Constant across a
// hand except for Tip and AddChipsToAll; the simulator asserts on it.
func (e *Engine) TotalChips() int {
	total := e.state.PotTotal()
	for _, p := range e.state.Players {
		total += p.Chips + p.Bet
	}
	return total
}

// roundComplete reports whether the current betting street is over:
// every player still able to act has acted and matched the current bet,
// or at most one such player remains (having matched it).
func (e *Engine) roundComplete() bool {
	var active []*Player
	for _, p := range e.state.Players {
		if p.CanAct() {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return true
	case 1:
		return active[0].Bet == e.state.CurrentBet
	}

	for _, p := range active {
		if !p.Acted || p.Bet != e.state.CurrentBet {
			return false
		}
	}
	return true
}

// advancePhase collects street bets into the pots and deals the next
// street. When all but at most one remaining player is all-in it keeps
// advancing, running the board out to showdown with no further betting.
func (e *Engine) advancePhase() {
	for _, p := range e.state.Players {
		p.Bet = 0
		p.Acted = false
	}
	e.rebuildPots()
	e.state.CurrentBet = 0
	e.state.MinRaise = e.settings.BigBlind
	e.clearTurn()

	switch e.state.Phase {
	case PhasePreflop:
		e.state.Phase = PhaseFlop
		e.deck.Burn()
		e.state.Community = append(e.state.Community, e.deck.DealN(3)...)
	case PhaseFlop:
		e.state.Phase = PhaseTurn
		e.deck.Burn()
		e.state.Community = append(e.state.Community, e.deck.DealN(1)...)
	case PhaseTurn:
		e.state.Phase = PhaseRiver
		e.deck.Burn()
		e.state.Community = append(e.state.Community, e.deck.DealN(1)...)
	case PhaseRiver:
		e.showdown()
		return
	default:
		return
	}

	if e.countCanAct() <= 1 {
		e.advancePhase()
		return
	}
	e.setTurnSeat(e.nextCanActAfterSeat(e.state.DealerSeat))
}

// showdown settles every pot against the full board and credits winners
func (e *Engine) showdown() {
	e.state.Phase = PhaseShowdown
	e.clearTurn()

	results := make(map[string]poker.HandResult)
	for _, p := range e.state.Players {
		if p.InHand() {
			cards := append(append([]poker.Card{}, p.HoleCards...), e.state.Community...)
			results[p.ID] = poker.Evaluate(cards)
		}
	}

	payouts := make(map[string]int)
	var order []string
	for _, pot := range e.state.Pots {
		if pot.Amount == 0 {
			continue
		}

		var contenders []poker.Contender
		for _, p := range e.state.Players {
			if p.InHand() && pot.hasEligible(p.ID) {
				contenders = append(contenders, poker.Contender{ID: p.ID, Hole: p.HoleCards})
			}
		}
		if len(contenders) == 0 {
			continue
		}

		var winners []string
		if len(contenders) == 1 {
			winners = []string{contenders[0].ID}
		} else {
			winners = poker.FindWinners(contenders, e.state.Community)
		}

		// Even split; the remainder goes to the first evaluated winner
		// so no chips are lost to rounding.
		share := pot.Amount / len(winners)
		rem := pot.Amount % len(winners)
		for i, id := range winners {
			amount := share
			if i == 0 {
				amount += rem
			}
			if _, seen := payouts[id]; !seen {
				order = append(order, id)
			}
			payouts[id] += amount
			e.state.PlayerByID(id).Chips += amount
		}
	}

	e.state.Winners = nil
	for _, id := range order {
		result := results[id]
		e.state.Winners = append(e.state.Winners, Winner{
			PlayerID: id,
			Amount:   payouts[id],
			Hand:     &result,
		})
	}
	e.state.Pots = nil
	e.state.Phase = PhaseEnded
}

// finishByFold ends the hand immediately for the sole unfolded player,
// with no hand evaluation.
func (e *Engine) finishByFold() {
	for _, p := range e.state.Players {
		p.Bet = 0
		p.Acted = false
	}
	e.rebuildPots()
	e.clearTurn()

	var winner *Player
	for _, p := range e.state.Players {
		if p.InHand() {
			winner = p
			break
		}
	}

	total := e.state.PotTotal()
	winner.Chips += total
	e.state.Winners = []Winner{{PlayerID: winner.ID, Amount: total}}
	e.state.Pots = nil
	e.state.Phase = PhaseEnded
}

// rebuildPots recomputes the tiered pot structure from hand-long
// contributions, including dead money from departed players.
func (e *Engine) rebuildPots() {
	contribs := make([]potContribution, 0, len(e.state.Players)+len(e.deadContribs))
	for _, p := range e.state.Players {
		contribs = append(contribs, potContribution{
			id:     p.ID,
			amount: p.TotalBet,
			live:   p.InHand(),
			allIn:  p.AllIn,
		})
	}
	for _, amount := range e.deadContribs {
		contribs = append(contribs, potContribution{amount: amount})
	}
	e.state.Pots = buildPots(contribs)
}

func (e *Engine) postBlind(p *Player, blind int) {
	pay := blind
	if pay > p.Chips {
		pay = p.Chips
	}
	e.pay(p, pay)
}

func (e *Engine) eligiblePlayers() []*Player {
	var out []*Player
	for _, p := range e.state.Players {
		if p.Connected && p.Chips > 0 {
			out = append(out, p)
		}
	}
	return out
}

// eligibleFromSeat orders this hand's dealt-in players clockwise
// starting at the given seat.
func (e *Engine) eligibleFromSeat(seat int) []*Player {
	var dealt []*Player
	for _, p := range e.state.Players {
		if !p.Folded {
			dealt = append(dealt, p)
		}
	}
	start := 0
	for i, p := range dealt {
		if p.Seat == seat {
			start = i
			break
		}
	}
	ordered := make([]*Player, 0, len(dealt))
	for i := 0; i < len(dealt); i++ {
		ordered = append(ordered, dealt[(start+i)%len(dealt)])
	}
	return ordered
}

// nextEligibleSeatAfter finds the next seat, clockwise and exclusive,
// holding a connected player with chips.
func (e *Engine) nextEligibleSeatAfter(seat int) int {
	n := len(e.state.Players)
	start := e.seatIndexAfter(seat)
	for i := 0; i < n; i++ {
		p := e.state.Players[(start+i)%n]
		if p.Connected && p.Chips > 0 {
			return p.Seat
		}
	}
	return -1
}

// nextCanActAfterSeat finds the next seat, clockwise and exclusive,
// whose player can still act this street.
func (e *Engine) nextCanActAfterSeat(seat int) int {
	n := len(e.state.Players)
	if n == 0 {
		return -1
	}
	start := e.seatIndexAfter(seat)
	for i := 0; i < n; i++ {
		p := e.state.Players[(start+i)%n]
		if p.CanAct() {
			return p.Seat
		}
	}
	return -1
}

// seatIndexAfter returns the roster index of the first player seated
// strictly after the given seat, wrapping around.
func (e *Engine) seatIndexAfter(seat int) int {
	for i, p := range e.state.Players {
		if p.Seat > seat {
			return i
		}
	}
	return 0
}

func (e *Engine) playerAtSeat(seat int) *Player {
	for _, p := range e.state.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (e *Engine) freeSeat() int {
	taken := make(map[int]bool, len(e.state.Players))
	for _, p := range e.state.Players {
		taken[p.Seat] = true
	}
	for seat := 0; ; seat++ {
		if !taken[seat] {
			return seat
		}
	}
}

func (e *Engine) clearTurn() {
	e.state.TurnSeat = -1
	for _, p := range e.state.Players {
		p.IsTurn = false
	}
}

func (e *Engine) setTurnSeat(seat int) {
	e.clearTurn()
	if seat < 0 {
		return
	}
	if p := e.playerAtSeat(seat); p != nil {
		p.IsTurn = true
		e.state.TurnSeat = seat
	}
}

func (e *Engine) countInHand() int {
	count := 0
	for _, p := range e.state.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

func (e *Engine) countCanAct() int {
	count := 0
	for _, p := range e.state.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}
