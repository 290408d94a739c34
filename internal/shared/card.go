package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents the suit of a suited card.
type Suit int

const (
	Spades   Suit = iota // S
	Hearts               // H
	Diamonds             // D
	Clubs                // C
)

// Suits lists the four suits in deck order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

var suitLetters = map[Suit]string{
	Spades:   "S",
	Hearts:   "H",
	Diamonds: "D",
	Clubs:    "C",
}

func (s Suit) String() string {
	if l, ok := suitLetters[s]; ok {
		return l
	}
	return "?"
}

// Kind tells which variant of the card union a Card is.
type Kind int

const (
	KindSuited Kind = iota
	KindTrump
	KindExcuse
)

// Face ranks of suited cards.
const (
	Jack   = 11
	Knight = 12
	Queen  = 13
	King   = 14
)

// Card is one of the 78 tarot cards: a suited card (rank 1-14), a numbered
// trump (rank 1-21) or the Excuse. Cards are comparable and usable as map keys.
type Card struct {
	Kind Kind
	Suit Suit // only meaningful for KindSuited
	Rank int  // 1-14 suited, 1-21 trump, 0 for the Excuse
}

// Excuse is the zero-rank trump that can be played at any time.
var Excuse = Card{Kind: KindExcuse}

// Suited returns the suited card of the given suit and rank.
func Suited(s Suit, rank int) Card {
	return Card{Kind: KindSuited, Suit: s, Rank: rank}
}

// Trump returns the numbered trump of the given rank.
func Trump(rank int) Card {
	return Card{Kind: KindTrump, Rank: rank}
}

// Petit and TwentyOne are the two numbered bouts.
var (
	Petit     = Trump(1)
	TwentyOne = Trump(21)
)

// IsTrump reports whether c is a numbered trump. The Excuse is not.
func (c Card) IsTrump() bool { return c.Kind == KindTrump }

// IsExcuse reports whether c is the Excuse.
func (c Card) IsExcuse() bool { return c.Kind == KindExcuse }

// IsSuited reports whether c belongs to one of the four suits.
func (c Card) IsSuited() bool { return c.Kind == KindSuited }

// Valid reports whether c is one of the 78 real cards.
func (c Card) Valid() bool {
	switch c.Kind {
	case KindSuited:
		_, ok := suitLetters[c.Suit]
		return ok && c.Rank >= 1 && c.Rank <= King
	case KindTrump:
		return c.Rank >= 1 && c.Rank <= 21
	case KindExcuse:
		return c.Rank == 0 && c.Suit == 0
	}
	return false
}

// SuitOf returns the suit of a suited card; ok is false for trumps and the Excuse.
func SuitOf(c Card) (s Suit, ok bool) {
	if c.Kind != KindSuited {
		return 0, false
	}
	return c.Suit, true
}

// IsBout reports whether c is the petit, the 21 or the Excuse.
func IsBout(c Card) bool {
	return c == Petit || c == TwentyOne || c == Excuse
}

// DoublePoints returns twice the card's point value so that half points
// stay integral. The whole deck is worth 182.
func DoublePoints(c Card) int {
	switch c.Kind {
	case KindSuited:
		switch c.Rank {
		case Jack:
			return 3
		case Knight:
			return 5
		case Queen:
			return 7
		case King:
			return 9
		default:
			return 1
		}
	case KindTrump, KindExcuse:
		if IsBout(c) {
			return 9
		}
		return 1
	}
	panic(fmt.Sprintf("unknown card kind %d", c.Kind))
}

// trumpOrder orders the Excuse below every numbered trump.
func trumpOrder(c Card) int {
	if c.Kind == KindExcuse {
		return 0
	}
	return c.Rank
}

// TrumpBeats reports whether trump a ranks strictly above trump b.
// Both cards must be trumps or the Excuse.
func TrumpBeats(a, b Card) bool {
	return trumpOrder(a) > trumpOrder(b)
}

// Bouts returns the three bouts.
func Bouts() []Card { return []Card{Petit, TwentyOne, Excuse} }

// Kings returns the four kings.
func Kings() []Card { return faces(King) }

// Queens returns the four queens.
func Queens() []Card { return faces(Queen) }

// Knights returns the four knights.
func Knights() []Card { return faces(Knight) }

func faces(rank int) []Card {
	out := make([]Card, 0, len(Suits))
	for _, s := range Suits {
		out = append(out, Suited(s, rank))
	}
	return out
}

var faceLetters = map[int]string{Jack: "V", Knight: "C", Queen: "D", King: "R"}

// String formats the card in the compact notation used on the wire:
// "H_R" (king of hearts), "S_10", "T21", "EX".
func (c Card) String() string {
	switch c.Kind {
	case KindSuited:
		r, ok := faceLetters[c.Rank]
		if !ok {
			r = strconv.Itoa(c.Rank)
		}
		return c.Suit.String() + "_" + r
	case KindTrump:
		return "T" + strconv.Itoa(c.Rank)
	case KindExcuse:
		return "EX"
	}
	return "??"
}

// ParseCard parses the notation produced by Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case s == "EX":
		return Excuse, nil
	case strings.HasPrefix(s, "T"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 || n > 21 {
			return Card{}, fmt.Errorf("invalid trump %q", s)
		}
		return Trump(n), nil
	}
	suitPart, rankPart, found := strings.Cut(s, "_")
	if !found {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	var suit Suit = -1
	for k, v := range suitLetters {
		if v == suitPart {
			suit = k
		}
	}
	if suit < 0 {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}
	for rank, letter := range faceLetters {
		if letter == rankPart {
			return Suited(suit, rank), nil
		}
	}
	n, err := strconv.Atoi(rankPart)
	if err != nil || n < 1 || n > 10 {
		return Card{}, fmt.Errorf("invalid rank in %q", s)
	}
	return Suited(suit, n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card %+v", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
