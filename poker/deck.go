package poker

import (
	"math/rand"
)

// Deck represents a standard 52-card deck
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with an explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

// NewOrderedDeck creates an unshuffled deck with the given cards on
// top, followed by the rest of the 52 in canonical order. Used to rig
// deals in deterministic tests.
func NewOrderedDeck(top []Card) *Deck {
	d := &Deck{}
	d.fill()

	onTop := make(map[Card]bool, len(top))
	for _, c := range top {
		onTop[c] = true
	}

	rest := make([]Card, 0, 52-len(top))
	for _, c := range d.cards {
		if !onTop[c] {
			rest = append(rest, c)
		}
	}

	copy(d.cards[:], top)
	copy(d.cards[len(top):], rest)
	return d
}

func (d *Deck) fill() {
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
}

// Shuffle shuffles the deck using Fisher-Yates and rewinds the cursor
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.Intn(i + 1)
		} else {
			j = rand.Intn(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals a single card from the deck. Returns ok=false when the
// deck is exhausted; callers are expected to guard against running out.
func (d *Deck) Deal() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []Card {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, ok := d.Deal()
		if !ok {
			break
		}
		cards = append(cards, card)
	}
	return cards
}

// Burn deals and discards a single card, as done between streets
func (d *Deck) Burn() bool {
	_, ok := d.Deal()
	return ok
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Reset restores a full fresh 52-card deck and reshuffles it,
// discarding prior state
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}
