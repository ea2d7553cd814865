package poker

import (
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank)
	}
	if aceSpades.Suit != Spades {
		t.Errorf("Expected suit Spades, got %d", aceSpades.Suit)
	}
	if aceSpades.String() != "A♠" {
		t.Errorf("Expected 'A♠', got %s", aceSpades.String())
	}

	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2♣" {
		t.Errorf("Expected '2♣', got %s", twoClubs.String())
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		wantCard Card
		wantErr  bool
	}{
		{input: "As", wantCard: NewCard(Ace, Spades)},
		{input: "2h", wantCard: NewCard(Two, Hearts)},
		{input: "Kd", wantCard: NewCard(King, Diamonds)},
		{input: "Tc", wantCard: NewCard(Ten, Clubs)},
		{input: "9s", wantCard: NewCard(Nine, Spades)},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			card, err := ParseCard(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error parsing %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error parsing %q: %v", tt.input, err)
			}
			if card != tt.wantCard {
				t.Errorf("parsed %q as %v, want %v", tt.input, card, tt.wantCard)
			}
		})
	}
}

func TestMustParseCards(t *testing.T) {
	t.Parallel()

	cards := MustParseCards("As Kd 9h")
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	if cards[0] != NewCard(Ace, Spades) || cards[2] != NewCard(Nine, Hearts) {
		t.Errorf("unexpected cards: %v", cards)
	}
}
