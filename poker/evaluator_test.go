package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cards    string
		category Category
	}{
		{"royal flush", "As Ks Qs Js Ts", RoyalFlush},
		{"straight flush", "9h 8h 7h 6h 5h", StraightFlush},
		{"wheel straight flush", "5d 4d 3d 2d Ad", StraightFlush},
		{"four of a kind", "Ks Kh Kd Kc 7s", FourOfAKind},
		{"full house", "Qs Qh Qd 8c 8s", FullHouse},
		{"flush", "Kd Jd 8d 4d 2d", Flush},
		{"straight", "9s 8h 7d 6c 5s", Straight},
		{"wheel straight", "5c 4d 3s 2h Ac", Straight},
		{"three of a kind", "7s 7h 7d Kc 2s", ThreeOfAKind},
		{"two pair", "Js Jh 4d 4c As", TwoPair},
		{"one pair", "Ts Th 8d 5c 2s", OnePair},
		{"high card", "Ks Jh 8d 5c 2s", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(MustParseCards(tt.cards))
			assert.Equal(t, tt.category, result.Category)
			assert.Len(t, result.Cards, 5)
		})
	}
}

// Literal orderings from the rulebook: each hand must beat the next.
func TestHandRankingOrder(t *testing.T) {
	t.Parallel()

	ladder := []string{
		"As Ks Qs Js Ts", // royal flush
		"9h 8h 7h 6h 5h", // straight flush
		"Ks Kh Kd Kc 7s", // four of a kind
		"Qs Qh Qd 8c 8s", // full house
		"Kd Jd 8d 4d 2d", // flush
		"9s 8h 7d 6c 5s", // straight
		"7s 7h 7d Kc 2s", // trips
		"Js Jh 4d 4c As", // two pair
		"Ts Th 8d 5c 2s", // pair
		"Ks Jh 8d 5c 2s", // high card
	}

	for i := 0; i < len(ladder)-1; i++ {
		stronger := Evaluate(MustParseCards(ladder[i]))
		weaker := Evaluate(MustParseCards(ladder[i+1]))
		assert.Equal(t, 1, Compare(stronger, weaker),
			"%q should beat %q", ladder[i], ladder[i+1])
	}
}

func TestWheelRanksAsFiveHigh(t *testing.T) {
	t.Parallel()

	wheel := Evaluate(MustParseCards("5c 4d 3s 2h Ac"))
	require.Equal(t, Straight, wheel.Category)
	assert.Equal(t, 5, wheel.Strength, "wheel is a 5-high straight, not ace-high")

	sixHigh := Evaluate(MustParseCards("6c 5d 4s 3h 2c"))
	assert.Equal(t, 1, Compare(sixHigh, wheel), "6-high straight beats the wheel")

	aceHighHand := Evaluate(MustParseCards("Ac Kd 9s 5h 2c"))
	assert.Equal(t, 1, Compare(wheel, aceHighHand), "the wheel is still a straight")
}

func TestEvaluateSevenCardsPicksBestFive(t *testing.T) {
	t.Parallel()

	// Board pairs the hole cards into a full house among 7 cards
	result := Evaluate(MustParseCards("Ah Ad As Kh Kd 7c 2s"))
	require.Equal(t, FullHouse, result.Category)
	assert.Equal(t, []int{int(Ace), int(King)}, result.Kickers)

	// Two trips resolve to a full house using the lower trips as the pair
	result = Evaluate(MustParseCards("Qh Qd Qs 9h 9d 9c 2s"))
	require.Equal(t, FullHouse, result.Category)
	assert.Equal(t, []int{int(Queen), int(Nine)}, result.Kickers)

	// Six cards of one suit: flush takes the top five
	result = Evaluate(MustParseCards("Ah Jh 9h 7h 5h 2h 2s"))
	require.Equal(t, Flush, result.Category)
	assert.Equal(t, []int{int(Ace), int(Jack), int(Nine), int(Seven), int(Five)}, result.Kickers)
}

func TestKickersBreakTies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stronger string
		weaker   string
	}{
		{"pair kicker", "Ts Th Ad 5c 2s", "Tc Td Kd 5h 2h"},
		{"quad kicker", "Ks Kh Kd Kc As", "Ks Kh Kd Kc 7s"},
		{"two pair low pair", "Js Jh 5d 5c As", "Jc Jd 4d 4h Ah"},
		{"flush second card", "Kd Qd 8d 4d 2d", "Kh Jh 8h 4h 2h"},
		{"high card last kicker", "Ks Jh 8d 5c 3s", "Kc Jd 8h 5s 2h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Evaluate(MustParseCards(tt.stronger))
			b := Evaluate(MustParseCards(tt.weaker))
			assert.Equal(t, 1, Compare(a, b))
			assert.Equal(t, -1, Compare(b, a))
		})
	}
}

func TestCompareExactTie(t *testing.T) {
	t.Parallel()

	a := Evaluate(MustParseCards("Ts Th 8d 5c 2s"))
	b := Evaluate(MustParseCards("Tc Td 8h 5d 2h"))
	assert.Equal(t, 0, Compare(a, b))
}

func TestFindWinners(t *testing.T) {
	t.Parallel()

	community := MustParseCards("Ah Kh 7d 7c 2s")

	t.Run("single winner", func(t *testing.T) {
		winners := FindWinners([]Contender{
			{ID: "alice", Hole: MustParseCards("As Ad")}, // aces full
			{ID: "bob", Hole: MustParseCards("Ks Kd")},   // kings full
			{ID: "carol", Hole: MustParseCards("9s 8d")}, // pair of sevens
		}, community)
		assert.Equal(t, []string{"alice"}, winners)
	})

	t.Run("multi-way tie via community cards", func(t *testing.T) {
		winners := FindWinners([]Contender{
			{ID: "alice", Hole: MustParseCards("3s 4d")},
			{ID: "bob", Hole: MustParseCards("3d 4c")},
		}, MustParseCards("Ah Kh Qd Jc Ts"))
		assert.Equal(t, []string{"alice", "bob"}, winners)
	})

	t.Run("no contenders", func(t *testing.T) {
		assert.Empty(t, FindWinners(nil, community))
	})
}

func TestEvaluatePanicsBelowFiveCards(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		Evaluate(MustParseCards("As Ks Qs Js"))
	})
}
