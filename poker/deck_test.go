package poker

import (
	"math/rand"
	"testing"
)

func TestDeckDealsAll52DistinctCards(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewSource(42)))
	seen := make(map[Card]bool)

	for i := 0; i < 52; i++ {
		wantRemaining := 52 - i
		if deck.Remaining() != wantRemaining {
			t.Fatalf("after %d deals expected %d remaining, got %d", i, wantRemaining, deck.Remaining())
		}
		card, ok := deck.Deal()
		if !ok {
			t.Fatalf("deck exhausted after %d cards", i)
		}
		if seen[card] {
			t.Fatalf("card %s dealt twice", card)
		}
		seen[card] = true
	}

	if len(seen) != 52 {
		t.Errorf("expected 52 distinct cards, got %d", len(seen))
	}
	if deck.Remaining() != 0 {
		t.Errorf("expected empty deck, got %d remaining", deck.Remaining())
	}
}

func TestDeckEmptyDealIsNotAnError(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewSource(1)))
	deck.DealN(52)

	if _, ok := deck.Deal(); ok {
		t.Error("expected ok=false dealing from an empty deck")
	}
	if deck.Remaining() != 0 {
		t.Errorf("remaining went negative: %d", deck.Remaining())
	}
	if cards := deck.DealN(3); len(cards) != 0 {
		t.Errorf("expected no cards from empty deck, got %d", len(cards))
	}
}

func TestDeckReset(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewSource(7)))
	deck.DealN(20)
	deck.Burn()

	deck.Reset()
	if deck.Remaining() != 52 {
		t.Fatalf("expected full deck after reset, got %d", deck.Remaining())
	}

	seen := make(map[Card]bool)
	for _, card := range deck.DealN(52) {
		if seen[card] {
			t.Fatalf("card %s duplicated after reset", card)
		}
		seen[card] = true
	}
}

func TestDeckShuffleIsSeedDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(rand.New(rand.NewSource(99)))
	b := NewDeck(rand.New(rand.NewSource(99)))

	for i := 0; i < 52; i++ {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		if ca != cb {
			t.Fatalf("decks with identical seeds diverged at card %d: %s vs %s", i, ca, cb)
		}
	}
}

func TestBurnDiscardsExactlyOneCard(t *testing.T) {
	t.Parallel()

	deck := NewDeck(rand.New(rand.NewSource(3)))
	if !deck.Burn() {
		t.Fatal("burn failed on fresh deck")
	}
	if deck.Remaining() != 51 {
		t.Errorf("expected 51 remaining after burn, got %d", deck.Remaining())
	}
}
