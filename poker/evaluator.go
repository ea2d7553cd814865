package poker

import (
	"fmt"
	"sort"
)

// Category enumerates poker hand categories ordered from weakest to strongest.
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandResult is the evaluation of a best 5-card hand: its category, a
// strength value monotonic within the category, the 5 cards that justify
// it, and the ordered kicker ranks used to break ties.
type HandResult struct {
	Category Category `json:"category"`
	Strength int      `json:"strength"`
	Cards    []Card   `json:"cards"`
	Kickers  []int    `json:"kickers"`
}

// Evaluate determines the best 5-card hand from 5 to 7 cards.
// Fewer than 5 cards is a precondition violation and panics; it cannot
// occur during correct play.
func Evaluate(cards []Card) HandResult {
	if len(cards) < 5 {
		panic(fmt.Sprintf("evaluate requires at least 5 cards, got %d", len(cards)))
	}

	sorted := sortByRankDesc(cards)

	// Straight flush (royal when ace-high)
	for _, suited := range suitGroups(sorted) {
		if len(suited) < 5 {
			continue
		}
		if high := straightHigh(suited); high != 0 {
			category := StraightFlush
			if high == Ace {
				category = RoyalFlush
			}
			return HandResult{
				Category: category,
				Strength: int(high),
				Cards:    straightCards(suited, high),
				Kickers:  []int{int(high)},
			}
		}
	}

	groups := rankGroups(sorted)

	// Four of a kind
	if quad := bestOfCount(groups, 4); quad != 0 {
		hand := append([]Card{}, groups[quad]...)
		kicker := highestExcluding(sorted, quad)
		hand = append(hand, kicker)
		return HandResult{
			Category: FourOfAKind,
			Strength: int(quad),
			Cards:    hand,
			Kickers:  []int{int(quad), int(kicker.Rank)},
		}
	}

	// Full house: highest trips plus the highest remaining pair-or-better
	if trips := bestOfCount(groups, 3); trips != 0 {
		pair := Rank(0)
		for rank, group := range groups {
			if rank != trips && len(group) >= 2 && rank > pair {
				pair = rank
			}
		}
		if pair != 0 {
			hand := append([]Card{}, groups[trips][:3]...)
			hand = append(hand, groups[pair][:2]...)
			return HandResult{
				Category: FullHouse,
				Strength: int(trips),
				Cards:    hand,
				Kickers:  []int{int(trips), int(pair)},
			}
		}
	}

	// Flush: top 5 of any suit with 5 or more cards
	for _, suited := range suitGroups(sorted) {
		if len(suited) < 5 {
			continue
		}
		hand := suited[:5]
		return HandResult{
			Category: Flush,
			Strength: int(hand[0].Rank),
			Cards:    hand,
			Kickers:  ranksOf(hand),
		}
	}

	// Straight (wheel included)
	if high := straightHigh(sorted); high != 0 {
		return HandResult{
			Category: Straight,
			Strength: int(high),
			Cards:    straightCards(sorted, high),
			Kickers:  []int{int(high)},
		}
	}

	// Three of a kind
	if trips := bestOfCount(groups, 3); trips != 0 {
		hand := append([]Card{}, groups[trips][:3]...)
		kickers := topExcluding(sorted, 2, trips)
		hand = append(hand, kickers...)
		return HandResult{
			Category: ThreeOfAKind,
			Strength: int(trips),
			Cards:    hand,
			Kickers:  append([]int{int(trips)}, ranksOf(kickers)...),
		}
	}

	// Two pair / one pair
	if high := bestOfCount(groups, 2); high != 0 {
		low := Rank(0)
		for rank, group := range groups {
			if rank != high && len(group) >= 2 && rank > low {
				low = rank
			}
		}
		if low != 0 {
			hand := append([]Card{}, groups[high][:2]...)
			hand = append(hand, groups[low][:2]...)
			kickers := topExcluding(sorted, 1, high, low)
			hand = append(hand, kickers...)
			return HandResult{
				Category: TwoPair,
				Strength: int(high),
				Cards:    hand,
				Kickers:  []int{int(high), int(low), int(kickers[0].Rank)},
			}
		}

		hand := append([]Card{}, groups[high][:2]...)
		kickers := topExcluding(sorted, 3, high)
		hand = append(hand, kickers...)
		return HandResult{
			Category: OnePair,
			Strength: int(high),
			Cards:    hand,
			Kickers:  append([]int{int(high)}, ranksOf(kickers)...),
		}
	}

	// High card
	hand := sorted[:5]
	return HandResult{
		Category: HighCard,
		Strength: int(hand[0].Rank),
		Cards:    hand,
		Kickers:  ranksOf(hand),
	}
}

// Compare compares two evaluated hands. Returns 1 if a is stronger,
// -1 if b is stronger, 0 on an exact tie.
func Compare(a, b HandResult) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Kickers) && i < len(b.Kickers); i++ {
		if a.Kickers[i] != b.Kickers[i] {
			if a.Kickers[i] > b.Kickers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Contender is a showdown candidate: a player identity and its hole cards.
type Contender struct {
	ID   string
	Hole []Card
}

// FindWinners evaluates every contender's best hand over hole plus
// community cards and returns the IDs of all co-winners, preserving
// contender order.
func FindWinners(contenders []Contender, community []Card) []string {
	var best HandResult
	var winners []string
	for _, c := range contenders {
		result := Evaluate(append(append([]Card{}, c.Hole...), community...))
		if len(winners) == 0 {
			best = result
			winners = []string{c.ID}
			continue
		}
		switch Compare(result, best) {
		case 1:
			best = result
			winners = []string{c.ID}
		case 0:
			winners = append(winners, c.ID)
		}
	}
	return winners
}

func sortByRankDesc(cards []Card) []Card {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})
	return sorted
}

// rankGroups groups cards by rank, each group in input order
func rankGroups(cards []Card) map[Rank][]Card {
	groups := make(map[Rank][]Card)
	for _, c := range cards {
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	return groups
}

// suitGroups splits cards by suit, preserving descending rank order
func suitGroups(sorted []Card) [][]Card {
	groups := make([][]Card, 4)
	for _, c := range sorted {
		groups[c.Suit] = append(groups[c.Suit], c)
	}
	return groups
}

// bestOfCount returns the highest rank appearing at least n times, or 0
func bestOfCount(groups map[Rank][]Card, n int) Rank {
	best := Rank(0)
	for rank, group := range groups {
		if len(group) >= n && rank > best {
			best = rank
		}
	}
	return best
}

// straightHigh returns the high rank of the best straight formed by the
// distinct ranks present, treating A-2-3-4-5 as a 5-high straight.
// Returns 0 when no straight exists.
func straightHigh(cards []Card) Rank {
	present := make(map[Rank]bool, len(cards))
	for _, c := range cards {
		present[c.Rank] = true
	}

	for high := Ace; high >= Six; high-- {
		run := true
		for r := high; r > high-5; r-- {
			if !present[r] {
				run = false
				break
			}
		}
		if run {
			return high
		}
	}

	// Wheel: ace plays low
	if present[Ace] && present[Two] && present[Three] && present[Four] && present[Five] {
		return Five
	}
	return 0
}

// straightCards selects one card per rank of the straight ending at high
func straightCards(sorted []Card, high Rank) []Card {
	wanted := make([]Rank, 0, 5)
	for r := high; r > high-5; r-- {
		wanted = append(wanted, r)
	}
	if high == Five {
		wanted = []Rank{Five, Four, Three, Two, Ace}
	}

	hand := make([]Card, 0, 5)
	for _, rank := range wanted {
		for _, c := range sorted {
			if c.Rank == rank {
				hand = append(hand, c)
				break
			}
		}
	}
	return hand
}

// highestExcluding returns the highest card whose rank is not excluded
func highestExcluding(sorted []Card, excluded ...Rank) Card {
	return topExcluding(sorted, 1, excluded...)[0]
}

// topExcluding returns the n highest cards whose ranks are not excluded
func topExcluding(sorted []Card, n int, excluded ...Rank) []Card {
	out := make([]Card, 0, n)
	for _, c := range sorted {
		skip := false
		for _, rank := range excluded {
			if c.Rank == rank {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

func ranksOf(cards []Card) []int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	return ranks
}
