package strategy

import (
	"math/rand/v2"
	"slices"
	"testing"

	"tarot-game/internal/game"
	"tarot-game/internal/shared"
)

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestBidAlwaysBeatsCurrent(t *testing.T) {
	r := NewRandom("n", newRng(1))
	b := game.NewBidding()
	if err := b.Place("e", shared.Push); err != nil {
		t.Fatal(err)
	}
	passes := 0
	for i := 0; i < 500; i++ {
		bid, ok := r.Bid(shared.NewHand(), b.State())
		if !ok {
			passes++
			continue
		}
		if !bid.Beats(shared.Push) {
			t.Fatalf("bid %s does not beat %s", bid, shared.Push)
		}
	}
	if passes == 0 || passes == 500 {
		t.Fatalf("passed %d times out of 500", passes)
	}
}

func TestBidPassesOverTopContract(t *testing.T) {
	r := NewRandom("n", newRng(2))
	b := game.NewBidding()
	if err := b.Place("e", shared.GuardAgainst); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if bid, ok := r.Bid(shared.NewHand(), b.State()); ok {
			t.Fatalf("bid %s over a guard against", bid)
		}
	}
}

func TestCallPartner(t *testing.T) {
	r := NewRandom("n", newRng(3))
	kings := shared.Kings()

	hand := shared.NewHand(kings[0], kings[1], shared.Trump(5))
	for i := 0; i < 50; i++ {
		card, ok := r.CallPartner(hand, game.BiddingState{})
		if !ok {
			t.Fatal("no call with kings missing")
		}
		if card != kings[2] && card != kings[3] {
			t.Fatalf("called %s, want a missing king", card)
		}
	}

	hand = shared.NewHand(append(kings, shared.Queens()[1:]...)...)
	card, ok := r.CallPartner(hand, game.BiddingState{})
	if !ok || card != shared.Queens()[0] {
		t.Fatalf("CallPartner = %s, %v; want the missing queen", card, ok)
	}

	full := append(append(slices.Clone(kings), shared.Queens()...), shared.Knights()...)
	if _, ok := r.CallPartner(shared.NewHand(full...), game.BiddingState{}); ok {
		t.Fatal("called a partner while holding every face")
	}
}

func TestChooseAside(t *testing.T) {
	kings := shared.Kings()
	cases := []struct {
		name    string
		hand    []shared.Card
		dog     []shared.Card
		allowed func(c shared.Card) bool
	}{
		{
			name: "plain cards first",
			hand: []shared.Card{kings[0], kings[1], shared.Trump(4), shared.Suited(shared.Clubs, 3)},
			dog:  []shared.Card{shared.Suited(shared.Hearts, 2), shared.Suited(shared.Spades, 7), shared.Trump(9)},
			allowed: func(c shared.Card) bool {
				return c.IsSuited() && c.Rank != shared.King
			},
		},
		{
			name: "tops up with small trumps",
			hand: []shared.Card{kings[0], kings[1], kings[2], shared.Petit, shared.Trump(6)},
			dog:  []shared.Card{kings[3], shared.Suited(shared.Hearts, 2), shared.Trump(8)},
			allowed: func(c shared.Card) bool {
				return (c.IsSuited() && c.Rank != shared.King) || (c.IsTrump() && !shared.IsBout(c))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRandom("n", newRng(4))
			pool := shared.NewHand(tc.hand...).With(tc.dog...)
			for i := 0; i < 50; i++ {
				aside := r.ChooseAside(shared.NewHand(tc.hand...), tc.dog, game.BiddingState{}, game.PartnerCall{})
				if len(aside) != len(tc.dog) {
					t.Fatalf("aside has %d cards", len(aside))
				}
				for j, c := range aside {
					if !pool.Contains(c) || slices.Contains(aside[:j], c) {
						t.Fatalf("bad aside %v", aside)
					}
					if !tc.allowed(c) {
						t.Fatalf("aside %v discards %s", aside, c)
					}
				}
			}
		})
	}
}

func TestCheckHandful(t *testing.T) {
	r := NewRandom("n", newRng(5))
	var cards []shared.Card
	for rank := 1; rank < shared.HandfulMinimum; rank++ {
		cards = append(cards, shared.Trump(rank))
	}
	cards = append(cards, shared.Excuse)
	if got := r.CheckHandful(shared.NewHand(cards...), game.BiddingState{}); got != nil {
		t.Fatalf("showed %v with too few trumps", got)
	}
	cards = append(cards, shared.Trump(20))
	if got := r.CheckHandful(shared.NewHand(cards...), game.BiddingState{}); len(got) != shared.HandfulMinimum {
		t.Fatalf("showed %v, want %d trumps", got, shared.HandfulMinimum)
	}
}

func TestPickCardIsLegal(t *testing.T) {
	rng := newRng(6)
	for seed := uint64(0); seed < 30; seed++ {
		deal := shared.DealCards(shared.NewDeck(), newRng(seed))
		r := NewRandom("s", rng)
		hand := deal.Hands[2]
		plays := []shared.PlayedCard{
			{Player: "n", Card: deal.Hands[0].Cards()[0]},
			{Player: "e", Card: deal.Hands[1].Cards()[0]},
		}
		for i := 0; i < 10; i++ {
			card := r.PickCard(plays, hand, game.BiddingState{}, nil, "n", game.PartnerCall{})
			if err := shared.VerifyPlay(hand, card, plays); err != nil {
				t.Fatalf("seed %d: picked %s: %v", seed, card, err)
			}
		}
	}
}

func TestFactory(t *testing.T) {
	s := NewRandomFactory()("w", newRng(7))
	r, ok := s.(*Random)
	if !ok || r.Seat != "w" {
		t.Fatalf("factory returned %#v", s)
	}
}
