// Package display renders static hand summaries for console output.
// It is presentation only; nothing here mutates game state.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardroom/holdem/internal/engine"
	"github.com/cardroom/holdem/poker"
)

// Styles contains styling for hand summaries
type Styles struct {
	Header    lipgloss.Style
	Winner    lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Pot       lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles creates the default summary styles
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		Pot: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Renderer formats completed hands for the console
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a renderer with default styles
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// HandSummary renders one completed hand: board, winners and stacks
func (r *Renderer) HandSummary(handNumber int, st *engine.GameState) string {
	var b strings.Builder

	b.WriteString(r.styles.Header.Render(fmt.Sprintf(" Hand #%d ", handNumber)))
	b.WriteString("\n")

	if len(st.Community) > 0 {
		b.WriteString(fmt.Sprintf("Board: %s\n", r.FormatCards(st.Community)))
	}

	for _, w := range st.Winners {
		name := r.styles.Winner.Render(w.PlayerID)
		if w.Hand == nil {
			b.WriteString(fmt.Sprintf("%s wins %s (all others folded)\n",
				name, r.styles.Pot.Render(fmt.Sprintf("$%d", w.Amount))))
			continue
		}
		b.WriteString(fmt.Sprintf("%s wins %s with %s %s\n",
			name,
			r.styles.Pot.Render(fmt.Sprintf("$%d", w.Amount)),
			DescribeHand(w.Hand),
			r.FormatCards(w.Hand.Cards)))
	}

	b.WriteString("Stacks:")
	for _, p := range st.Players {
		b.WriteString(fmt.Sprintf(" %s", r.styles.Muted.Render(fmt.Sprintf("%s=$%d", p.ID, p.Chips))))
	}
	b.WriteString("\n")

	return b.String()
}

// FormatCards formats cards in suit colors inside brackets
func (r *Renderer) FormatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return ""
	}

	var formatted []string
	for _, card := range cards {
		if card.IsRed() {
			formatted = append(formatted, r.styles.CardRed.Render(card.String()))
		} else {
			formatted = append(formatted, r.styles.CardBlack.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// DescribeHand returns a readable description like "Pair of Aces" or
// "Full House (Kings full of Twos)".
func DescribeHand(hand *poker.HandResult) string {
	k := hand.Kickers
	switch hand.Category {
	case poker.HighCard:
		if len(k) > 0 {
			return fmt.Sprintf("High Card (%s high)", rankName(k[0]))
		}
	case poker.OnePair:
		if len(k) > 0 {
			return fmt.Sprintf("Pair of %ss", rankName(k[0]))
		}
	case poker.TwoPair:
		if len(k) >= 2 {
			return fmt.Sprintf("Two Pair (%ss and %ss)", rankName(k[0]), rankName(k[1]))
		}
	case poker.ThreeOfAKind:
		if len(k) > 0 {
			return fmt.Sprintf("Three of a Kind (%ss)", rankName(k[0]))
		}
	case poker.Straight:
		if len(k) > 0 {
			return fmt.Sprintf("Straight (%s high)", rankName(k[0]))
		}
	case poker.Flush:
		if len(k) > 0 {
			return fmt.Sprintf("Flush (%s high)", rankName(k[0]))
		}
	case poker.FullHouse:
		if len(k) >= 2 {
			return fmt.Sprintf("Full House (%ss full of %ss)", rankName(k[0]), rankName(k[1]))
		}
	case poker.FourOfAKind:
		if len(k) > 0 {
			return fmt.Sprintf("Four of a Kind (%ss)", rankName(k[0]))
		}
	case poker.StraightFlush:
		if len(k) > 0 {
			return fmt.Sprintf("Straight Flush (%s high)", rankName(k[0]))
		}
	case poker.RoyalFlush:
		return "Royal Flush"
	}
	return hand.Category.String()
}

func rankName(rank int) string {
	switch poker.Rank(rank) {
	case poker.Two:
		return "Two"
	case poker.Three:
		return "Three"
	case poker.Four:
		return "Four"
	case poker.Five:
		return "Five"
	case poker.Six:
		return "Six"
	case poker.Seven:
		return "Seven"
	case poker.Eight:
		return "Eight"
	case poker.Nine:
		return "Nine"
	case poker.Ten:
		return "Ten"
	case poker.Jack:
		return "Jack"
	case poker.Queen:
		return "Queen"
	case poker.King:
		return "King"
	case poker.Ace:
		return "Ace"
	default:
		return "Unknown"
	}
}
