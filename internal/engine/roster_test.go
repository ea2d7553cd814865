package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPlayerRejectsDuplicatesAndFullTable(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.MaxSeats = 2
	e := newTestEngine(t, settings, 1000, 1000)

	_, err := e.AddPlayer("p1", "again")
	code, ok := IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, RejectSeatTaken, code)

	_, err = e.AddPlayer("p3", "p3")
	code, _ = IsRejection(err)
	assert.Equal(t, RejectSeatTaken, code)
}

func TestAddPlayerMidHandWaitsForNextDeal(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000)
	require.NoError(t, e.StartHand())

	p3, err := e.AddPlayer("p3", "p3")
	require.NoError(t, err)
	assert.True(t, p3.Folded)
	assert.True(t, p3.JoinedMidHand)
	assert.Empty(t, p3.HoleCards)
	assert.False(t, e.State().Pots[0].hasEligible("p3"))

	// The running hand plays out without p3
	require.NoError(t, e.ProcessAction("p1", ActionFold, 0))
	require.Equal(t, PhaseEnded, e.State().Phase)
	assert.Equal(t, 1000, p3.Chips)

	// Next hand deals p3 in
	e.ResetForNextHand()
	require.NoError(t, e.StartHand())
	assert.False(t, p3.Folded)
	assert.False(t, p3.JoinedMidHand)
	assert.Len(t, p3.HoleCards, 2)
}

func TestRemovePlayerMidHandLeavesDeadMoney(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	require.NoError(t, e.ProcessAction("p1", ActionCall, 0))

	// p2 leaves holding the turn with its small blind committed
	require.NoError(t, e.RemovePlayer("p2"))

	st := e.State()
	assert.Nil(t, st.PlayerByID("p2"))
	assert.True(t, st.PlayerByID("p3").IsTurn, "turn passes to the next player")

	require.NoError(t, e.ProcessAction("p3", ActionCheck, 0))
	require.Equal(t, PhaseFlop, st.Phase)

	// The abandoned small blind stays in the pot as dead money
	require.Len(t, st.Pots, 1)
	assert.Equal(t, 50, st.Pots[0].Amount)
	assert.ElementsMatch(t, []string{"p1", "p3"}, st.Pots[0].Eligible)
}

func TestRemoveLastOpponentEndsHand(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000)
	require.NoError(t, e.StartHand())

	require.NoError(t, e.RemovePlayer("p2"))

	st := e.State()
	require.Equal(t, PhaseEnded, st.Phase)
	require.Len(t, st.Winners, 1)
	assert.Equal(t, "p1", st.Winners[0].PlayerID)
	assert.Equal(t, 30, st.Winners[0].Amount)
	// p1's own 10 comes back plus p2's abandoned big blind
	assert.Equal(t, 1020, st.PlayerByID("p1").Chips)
}

func TestRemoveUnknownPlayer(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000)
	err := e.RemovePlayer("ghost")
	code, ok := IsRejection(err)
	require.True(t, ok)
	assert.Equal(t, RejectUnknownPlayer, code)
}

func TestTip(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000)

	require.NoError(t, e.Tip("p1", "p2", 100))
	assert.Equal(t, 900, e.State().PlayerByID("p1").Chips)
	assert.Equal(t, 1100, e.State().PlayerByID("p2").Chips)

	err := e.Tip("p1", "p2", 0)
	code, _ := IsRejection(err)
	assert.Equal(t, RejectBadAmount, code)

	err = e.Tip("p1", "p2", 5000)
	code, _ = IsRejection(err)
	assert.Equal(t, RejectInsufficientChips, code)

	err = e.Tip("ghost", "p2", 10)
	code, _ = IsRejection(err)
	assert.Equal(t, RejectUnknownPlayer, code)

	err = e.Tip("p1", "ghost", 10)
	code, _ = IsRejection(err)
	assert.Equal(t, RejectUnknownPlayer, code)

	// Failed tips move nothing
	assert.Equal(t, 900, e.State().PlayerByID("p1").Chips)
	assert.Equal(t, 1100, e.State().PlayerByID("p2").Chips)
}

func TestAddChipsToAllSkipsDisconnected(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000)
	require.NoError(t, e.SetConnected("p2", false))

	e.AddChipsToAll(500)
	assert.Equal(t, 1500, e.State().PlayerByID("p1").Chips)
	assert.Equal(t, 1000, e.State().PlayerByID("p2").Chips)
	assert.Equal(t, 1500, e.Settings().StartingChips, "new joiners get the raised baseline")

	e.AddChipsToAll(0)
	e.AddChipsToAll(-5)
	assert.Equal(t, 1500, e.State().PlayerByID("p1").Chips)
}

func TestTurnTimeoutFoldsOnlyTheTurnHolder(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 1000, 1000)
	require.NoError(t, e.StartHand())

	// A stale timer for a player no longer on the clock is ignored
	require.NoError(t, e.HandleTurnTimeout("p2"))
	assert.False(t, e.State().PlayerByID("p2").Folded)
	assert.True(t, e.State().PlayerByID("p1").IsTurn)

	require.NoError(t, e.HandleTurnTimeout("p1"))
	p1 := e.State().PlayerByID("p1")
	assert.True(t, p1.Folded)
	assert.Equal(t, ActionFold, e.State().LastAction.Action)
}

func TestResetForNextHandPrunesDepartedBrokePlayers(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 0, 0)
	require.NoError(t, e.SetConnected("p2", false))

	e.ResetForNextHand()
	st := e.State()
	assert.Nil(t, st.PlayerByID("p2"), "disconnected and broke: removed")
	assert.NotNil(t, st.PlayerByID("p3"), "still connected: keeps the seat")
	assert.Equal(t, PhaseWaiting, st.Phase)
	assert.Empty(t, st.HandID)
}

func TestBrokePlayerSitsOutTheDeal(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testSettings(), 1000, 0, 1000)
	require.NoError(t, e.StartHand())

	st := e.State()
	p2 := st.PlayerByID("p2")
	assert.True(t, p2.Folded)
	assert.Empty(t, p2.HoleCards)
	assert.False(t, p2.IsSmallBlind)
	assert.False(t, p2.IsBigBlind)

	// Only two players are dealt in, so the heads-up rule applies and
	// the button posts the small blind
	assert.True(t, st.PlayerByID("p1").IsDealer)
	assert.True(t, st.PlayerByID("p1").IsSmallBlind)
	assert.True(t, st.PlayerByID("p3").IsBigBlind)
}
