package deck

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit string

// suit constants
const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// face cards
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an individual playing card
type Card struct {
	Rank int
	Suit Suit
}

// RankToString converts a numeric rank into its display form (2-10, J, Q, K, A)
func RankToString(rank int) string {
	switch rank {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}

	return strconv.Itoa(rank)
}

// ParseRank converts a display rank back into its numeric form
// An error is returned if the rank is not one of 2-10, J, Q, K, A
func ParseRank(s string) (int, error) {
	switch strings.ToUpper(s) {
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	}

	rank, err := strconv.Atoi(s)
	if err != nil || rank < 2 || rank > 10 {
		return 0, fmt.Errorf("invalid rank: %s", s)
	}

	return rank, nil
}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}

	panic("unknown suit")
}

// String returns the wire form of the card, i.e., "A♠" or "10♦"
func (c *Card) String() string {
	return RankToString(c.Rank) + c.Suit.String()
}

// Equal returns true if the cards are equal (matches suit and rank)
func (c *Card) Equal(card *Card) bool {
	return c.Suit == card.Suit && c.Rank == card.Rank
}

// ParseCard parses a card from its wire form
func ParseCard(s string) (*Card, error) {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil, fmt.Errorf("invalid card: %s", s)
	}

	var suit Suit
	switch runes[len(runes)-1] {
	case '♠':
		suit = Spades
	case '♥':
		suit = Hearts
	case '♦':
		suit = Diamonds
	case '♣':
		suit = Clubs
	default:
		return nil, fmt.Errorf("invalid card: %s", s)
	}

	rank, err := ParseRank(string(runes[:len(runes)-1]))
	if err != nil {
		return nil, fmt.Errorf("invalid card: %s", s)
	}

	return &Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a slice of cards in their wire form
func ParseCards(strs []string) ([]*Card, error) {
	cards := make([]*Card, len(strs))
	for i, s := range strs {
		card, err := ParseCard(s)
		if err != nil {
			return nil, err
		}

		cards[i] = card
	}

	return cards, nil
}

// CardsToStrings converts a slice of cards to their wire form
func CardsToStrings(cards []*Card) []string {
	strs := make([]string, len(cards))
	for i, card := range cards {
		strs[i] = card.String()
	}

	return strs
}

// MarshalJSON encodes the card as its wire string
func (c *Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a card from its wire string
func (c *Card) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	card, err := ParseCard(s)
	if err != nil {
		return err
	}

	*c = *card
	return nil
}
