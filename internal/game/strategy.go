package game

import (
	"encoding/json"
	"math/rand/v2"

	"tarot-game/internal/shared"
)

// PartnerCall is the card the taker called, if any. Card is meaningless
// unless Called is set.
type PartnerCall struct {
	Card   shared.Card
	Called bool
}

type partnerCallJSON struct {
	Card   *shared.Card `json:"card"`
	Called bool         `json:"called"`
}

func (p PartnerCall) MarshalJSON() ([]byte, error) {
	out := partnerCallJSON{Called: p.Called}
	if p.Called {
		out.Card = &p.Card
	}
	return json.Marshal(out)
}

func (p *PartnerCall) UnmarshalJSON(data []byte) error {
	var in partnerCallJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = PartnerCall{Called: in.Called}
	if in.Card != nil {
		p.Card = *in.Card
	}
	return nil
}

// Bidder chooses a bid from the hand dealt to the seat. Returning ok=false
// passes; a returned bid must beat the current contract.
type Bidder interface {
	Bid(hand shared.Hand, state BiddingState) (bid shared.Bid, ok bool)
}

// PartnerCaller picks the card whose holder becomes the taker's partner. It
// is only consulted when shared.CanCallPartner holds for the hand, and must
// return a card the hand does not hold.
type PartnerCaller interface {
	CallPartner(hand shared.Hand, state BiddingState) (card shared.Card, ok bool)
}

// DogHandler chooses the aside after the taker sees the dog. It is only
// consulted when the contract allows seeing the dog, and must return exactly
// as many cards as the dog holds, taken from hand and dog.
type DogHandler interface {
	ChooseAside(hand shared.Hand, dog []shared.Card, state BiddingState, partner PartnerCall) []shared.Card
}

// TrickPlayer plays the cards. CheckHandful is asked of the taker before
// each play of the first trick until the taker has played or shown a
// handful; an empty result means no handful. HandleHandful informs every
// other seat of the shown cards. PickCard must return a legal play.
type TrickPlayer interface {
	CheckHandful(hand shared.Hand, state BiddingState) []shared.Card
	HandleHandful(shown []shared.Card, state BiddingState, seats []string, hand shared.Hand)
	PickCard(trick []shared.PlayedCard, hand shared.Hand, state BiddingState, seats []string, taker string, partner PartnerCall) shared.Card
}

// Strategy makes every decision for one seat.
type Strategy interface {
	Bidder
	PartnerCaller
	DogHandler
	TrickPlayer
}

// StrategyFactory builds a fresh strategy for a seat, drawing any
// randomness from rng.
type StrategyFactory func(seat string, rng *rand.Rand) Strategy
