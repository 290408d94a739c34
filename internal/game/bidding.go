package game

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"tarot-game/internal/shared"
)

// ErrInsufficientBid is returned when a bid does not beat the current maximum.
var ErrInsufficientBid = errors.New("bid does not beat the current contract")

// BidRecord is one accepted bid of the auction.
type BidRecord struct {
	Seat string     `json:"seat"`
	Bid  shared.Bid `json:"bid"`
}

// BiddingState is a read-only snapshot of the auction handed to strategies.
type BiddingState struct {
	Sequence []BidRecord           `json:"sequence"`
	MaxBids  map[string]shared.Bid `json:"max_bids"`
}

// Current returns the highest bid so far.
func (s BiddingState) Current() (shared.Bid, bool) {
	if len(s.Sequence) == 0 {
		return "", false
	}
	return s.Sequence[len(s.Sequence)-1].Bid, true
}

// Taker returns the seat holding the highest bid.
func (s BiddingState) Taker() (string, bool) {
	if len(s.Sequence) == 0 {
		return "", false
	}
	return s.Sequence[len(s.Sequence)-1].Seat, true
}

// BidDecider asks a seat for its bid; ok is false for a pass.
type BidDecider func(seat string, state BiddingState) (bid shared.Bid, ok bool)

// Bidding is the auction ladder: each accepted bid strictly beats the previous one.
type Bidding struct {
	sequence []BidRecord
	maxBids  map[string]shared.Bid
}

// NewBidding returns an empty auction.
func NewBidding() *Bidding {
	return &Bidding{maxBids: map[string]shared.Bid{}}
}

// Place records bid for seat.
func (b *Bidding) Place(seat string, bid shared.Bid) error {
	if !bid.Valid() {
		return fmt.Errorf("%w: unknown bid %q", ErrInsufficientBid, string(bid))
	}
	if current, ok := b.State().Current(); ok && !bid.Beats(current) {
		return fmt.Errorf("%w: %s bid %s over %s", ErrInsufficientBid, seat, bid, current)
	}
	b.sequence = append(b.sequence, BidRecord{Seat: seat, Bid: bid})
	b.maxBids[seat] = bid
	return nil
}

// State returns a snapshot of the auction.
func (b *Bidding) State() BiddingState {
	return BiddingState{Sequence: slices.Clone(b.sequence), MaxBids: maps.Clone(b.maxBids)}
}

// Run cycles through seats, starting with the first, until the only seat
// left is the one holding the highest bid or everybody has passed. A seat
// that passes is out of the auction.
func (b *Bidding) Run(seats []string, decide BidDecider) error {
	remaining := slices.Clone(seats)
	for i := 0; len(remaining) > 0; {
		i %= len(remaining)
		seat := remaining[i]
		if taker, ok := b.State().Taker(); ok && taker == seat {
			// A seat cannot raise its own bid.
			return nil
		}
		bid, ok := decide(seat, b.State())
		if !ok {
			remaining = slices.Delete(remaining, i, i+1)
			continue
		}
		if err := b.Place(seat, bid); err != nil {
			return err
		}
		i++
	}
	return nil
}
