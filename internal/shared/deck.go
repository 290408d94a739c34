package shared

import (
	"log"
	"math/rand/v2"
)

const (
	// Seats is the only supported table size.
	Seats = 5
	// DogSize is the number of cards set aside at deal time.
	DogSize = 3
	// HandSize is the number of cards each seat receives.
	HandSize = 15
	// DeckSize is the number of cards in a tarot deck.
	DeckSize = 78

	dealBlock = 3
)

// Deck represents a collection of cards in dealing order.
type Deck struct {
	Cards []Card
}

// NewDeck creates the 78-card tarot deck in a fixed order.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := King; rank >= 1; rank-- {
			cards = append(cards, Suited(suit, rank))
		}
	}
	for rank := 1; rank <= 21; rank++ {
		cards = append(cards, Trump(rank))
	}
	cards = append(cards, Excuse)
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal is five hands plus the dog, together partitioning the deck.
type Deal struct {
	Hands [Seats]Hand
	Dog   []Card
}

// IsMaldonne reports whether some hand's only trump is the petit. The
// Excuse counts as a trump here, so petit plus Excuse is a legal hand.
func (d Deal) IsMaldonne() bool {
	for _, h := range d.Hands {
		var trumps []Card
		for _, c := range h.cards {
			if c.Kind != KindSuited {
				trumps = append(trumps, c)
			}
		}
		if len(trumps) == 1 && trumps[0] == Petit {
			return true
		}
	}
	return false
}

// Deal walks the deck in its current order and distributes it: blocks of
// three to each hand in turn, single cards to the dog. The first card never
// goes to the dog and the dog is never left short. The candidate is
// returned as is, even when it is a maldonne.
func (d *Deck) Deal(rng *rand.Rand) Deal {
	if len(d.Cards) != DeckSize {
		log.Panicf("Error: cannot deal a deck of %d cards, need %d.", len(d.Cards), DeckSize)
	}
	var hands [Seats][]Card
	dog := make([]Card, 0, DogSize)
	seat := 0
	for i := 0; i < len(d.Cards); {
		if shouldAddToDog(i, len(d.Cards), len(dog), rng) {
			dog = append(dog, d.Cards[i])
			i++
			continue
		}
		hands[seat] = append(hands[seat], d.Cards[i:i+dealBlock]...)
		i += dealBlock
		seat = (seat + 1) % Seats
	}

	var deal Deal
	for s := range hands {
		deal.Hands[s] = NewHand(hands[s]...)
	}
	deal.Dog = dog
	return deal
}

func shouldAddToDog(index, deckSize, dogSize int, rng *rand.Rand) bool {
	if dogSize == DogSize || index == 0 {
		return false
	}
	remaining := deckSize - index
	dogRemaining := DogSize - dogSize
	// Past this bound every dog slot has to be filled before the deck runs out.
	if remaining <= dogRemaining*(dealBlock+1) {
		return true
	}
	return rng.IntN(2) == 0
}

// DealCards shuffles and deals until the deal is not a maldonne.
func DealCards(d *Deck, rng *rand.Rand) Deal {
	for {
		d.Shuffle(rng)
		deal := d.Deal(rng)
		if !deal.IsMaldonne() {
			return deal
		}
	}
}
