package shared

import (
	"slices"
	"sort"
)

// Hand is an immutable snapshot of the cards a seat holds. Methods never
// modify the receiver; they return new hands.
type Hand struct {
	cards []Card
}

// NewHand builds a hand from cards. Duplicates are dropped.
func NewHand(cards ...Card) Hand {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	SortCards(out)
	return Hand{cards: out}
}

// Cards returns a copy of the cards in display order.
func (h Hand) Cards() []Card {
	return slices.Clone(h.cards)
}

// Len returns the number of cards held.
func (h Hand) Len() int { return len(h.cards) }

// Contains reports whether the hand holds c.
func (h Hand) Contains(c Card) bool {
	return slices.Contains(h.cards, c)
}

// ContainsAll reports whether the hand holds every card in cs.
func (h Hand) ContainsAll(cs []Card) bool {
	for _, c := range cs {
		if !h.Contains(c) {
			return false
		}
	}
	return true
}

// HasSuit reports whether the hand holds a card of suit s.
func (h Hand) HasSuit(s Suit) bool {
	for _, c := range h.cards {
		if c.Kind == KindSuited && c.Suit == s {
			return true
		}
	}
	return false
}

// HasTrump reports whether the hand holds a numbered trump.
func (h Hand) HasTrump() bool {
	return len(h.Trumps()) > 0
}

// Trumps returns the numbered trumps held, highest first.
func (h Hand) Trumps() []Card {
	var out []Card
	for _, c := range h.cards {
		if c.IsTrump() {
			out = append(out, c)
		}
	}
	return out
}

// With returns a new hand that also holds cs.
func (h Hand) With(cs ...Card) Hand {
	return NewHand(append(slices.Clone(h.cards), cs...)...)
}

// Without returns a new hand with cs removed.
func (h Hand) Without(cs ...Card) Hand {
	out := make([]Card, 0, len(h.cards))
	for _, c := range h.cards {
		if !slices.Contains(cs, c) {
			out = append(out, c)
		}
	}
	return Hand{cards: out}
}

// SortCards orders cards for display: trumps high to low (Excuse first),
// then suits in deck order with the highest rank first.
func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		aTrump, bTrump := a.Kind != KindSuited, b.Kind != KindSuited
		if aTrump != bTrump {
			return aTrump
		}
		if aTrump {
			if a.IsExcuse() != b.IsExcuse() {
				return a.IsExcuse()
			}
			return a.Rank > b.Rank
		}
		if a.Suit != b.Suit {
			return a.Suit < b.Suit
		}
		return a.Rank > b.Rank
	})
}

// CanCallPartner reports whether a taker holding hand is able to call a
// partner, i.e. does not hold every king, queen and knight.
func CanCallPartner(h Hand) bool {
	return !(h.ContainsAll(Kings()) && h.ContainsAll(Queens()) && h.ContainsAll(Knights()))
}

// CallableCards returns the cards a taker holding h may call: the
// missing kings, or the missing queens when all kings are held, and so on.
func CallableCards(h Hand) []Card {
	for _, class := range [][]Card{Kings(), Queens(), Knights()} {
		if h.ContainsAll(class) {
			continue
		}
		var out []Card
		for _, c := range class {
			if !h.Contains(c) {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// HandfulMinimum is the fewest trumps a five-seat handful may show.
const HandfulMinimum = 8
