package strategy

import (
	"math/rand/v2"

	"tarot-game/internal/game"
	"tarot-game/internal/shared"
)

// Random makes every decision uniformly at random among the legal options.
type Random struct {
	Seat string
	rng  *rand.Rand
}

var _ game.Strategy = (*Random)(nil)

// NewRandom returns a random strategy for seat drawing from rng.
func NewRandom(seat string, rng *rand.Rand) *Random {
	return &Random{Seat: seat, rng: rng}
}

// NewRandomFactory seats a Random strategy at every seat.
func NewRandomFactory() game.StrategyFactory {
	return func(seat string, rng *rand.Rand) game.Strategy {
		return NewRandom(seat, rng)
	}
}

// Bid picks one of the bids above the current contract, or passes with the
// same odds as any single bid.
func (r *Random) Bid(hand shared.Hand, state game.BiddingState) (shared.Bid, bool) {
	current, ok := state.Current()
	candidates := shared.BidsAbove(current, ok)
	i := r.rng.IntN(len(candidates) + 1)
	if i == len(candidates) {
		return "", false
	}
	return candidates[i], true
}

// CallPartner calls one of the face cards missing from the highest class
// the hand does not complete.
func (r *Random) CallPartner(hand shared.Hand, state game.BiddingState) (shared.Card, bool) {
	callable := shared.CallableCards(hand)
	if len(callable) == 0 {
		return shared.Card{}, false
	}
	return callable[r.rng.IntN(len(callable))], true
}

// ChooseAside discards random suited cards other than kings, topping up
// with trumps that are not bouts when there are not enough.
func (r *Random) ChooseAside(hand shared.Hand, dog []shared.Card, state game.BiddingState, partner game.PartnerCall) []shared.Card {
	pool := hand.With(dog...).Cards()
	var plain, trumps, rest []shared.Card
	for _, c := range pool {
		switch {
		case c.IsSuited() && c.Rank != shared.King:
			plain = append(plain, c)
		case c.IsTrump() && !shared.IsBout(c):
			trumps = append(trumps, c)
		default:
			rest = append(rest, c)
		}
	}
	aside := make([]shared.Card, 0, len(dog))
	for _, group := range [][]shared.Card{plain, trumps, rest} {
		r.rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		for _, c := range group {
			if len(aside) == len(dog) {
				return aside
			}
			aside = append(aside, c)
		}
	}
	return aside
}

// CheckHandful shows every numbered trump when there are enough of them.
func (r *Random) CheckHandful(hand shared.Hand, state game.BiddingState) []shared.Card {
	trumps := hand.Trumps()
	if len(trumps) < shared.HandfulMinimum {
		return nil
	}
	return trumps
}

// HandleHandful ignores the shown cards.
func (r *Random) HandleHandful(shown []shared.Card, state game.BiddingState, seats []string, hand shared.Hand) {}

// PickCard plays a random legal card.
func (r *Random) PickCard(trick []shared.PlayedCard, hand shared.Hand, state game.BiddingState, seats []string, taker string, partner game.PartnerCall) shared.Card {
	legal := shared.LegalPlays(hand, trick)
	if len(legal) == 0 {
		// Only reachable with an empty hand.
		return shared.Card{}
	}
	return legal[r.rng.IntN(len(legal))]
}
