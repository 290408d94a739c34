package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"

	"tarot-game/internal/protocol"
	"tarot-game/internal/shared"

	"github.com/google/uuid"
)

// Phase represents where a round is in its lifecycle.
type Phase string

const (
	PhaseDealing     Phase = "Dealing"
	PhaseBidding     Phase = "Bidding"
	PhaseVoid        Phase = "Void" // Everybody passed
	PhasePartnerCall Phase = "PartnerCall"
	PhaseDogHandling Phase = "DogHandling"
	PhaseTrickPlay   Phase = "TrickPlay"
	PhaseScoring     Phase = "Scoring"
	PhaseComplete    Phase = "Complete"
)

var (
	// ErrInvalidSeats reports a table that is not five distinct, fully
	// equipped seats.
	ErrInvalidSeats = errors.New("invalid seats")
	// ErrContractViolation is wrapped by every ContractError.
	ErrContractViolation = errors.New("strategy contract violation")
)

// ContractError reports a decision that broke its strategy contract. The
// round is abandoned when one occurs.
type ContractError struct {
	Seat     string
	Decision string // "bid", "partner_call", "aside", "handful", "play"
	Err      error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("seat %s broke the %s contract: %v", e.Seat, e.Decision, e.Err)
}

func (e *ContractError) Unwrap() []error { return []error{ErrContractViolation, e.Err} }

// MessageSender receives every round event as an encoded protocol message.
type MessageSender func(message []byte)

// RoundParams parameterizes a round.
type RoundParams struct {
	Seats      []string            // Seat order; the first seat bids and leads first
	Strategies map[string]Strategy // One per seat
	Rng        *rand.Rand          // Shuffling and dealing; required unless Deal is set
	Deal       *shared.Deal        // Optional fixed deal, hands in seat order
	Send       MessageSender       // Optional event sink
	Logger     *log.Logger         // Defaults to the standard logger
}

// Result is the record of a scored round.
type Result struct {
	ID          string         `json:"id"`
	Seats       []string       `json:"seats"`
	FirstPlayer string         `json:"first_player"`
	Bidding     BiddingState   `json:"bidding"`
	Bid         shared.Bid     `json:"bid"`
	Camp        shared.Camp    `json:"camp"`
	PartnerCall PartnerCall    `json:"partner_call"`
	Dog         []shared.Card  `json:"dog"`
	Aside       []shared.Card  `json:"aside"`
	Handful     []shared.Card  `json:"handful,omitempty"`
	Tricks      []shared.Trick `json:"tricks"`
	Score       Score          `json:"score"`
	Payoffs     map[string]int `json:"payoffs"`
}

// Round runs a single deal from shuffle to score.
type Round struct {
	ID    string
	Phase Phase

	seats      []string
	strategies map[string]Strategy
	rng        *rand.Rand
	fixedDeal  *shared.Deal
	send       MessageSender
	logger     *log.Logger

	players map[string]shared.Player
}

// NewRound validates params and prepares a round.
func NewRound(params RoundParams) (*Round, error) {
	if len(params.Seats) != shared.Seats {
		return nil, fmt.Errorf("%w: need %d seats, got %d", ErrInvalidSeats, shared.Seats, len(params.Seats))
	}
	seen := map[string]bool{}
	for _, s := range params.Seats {
		if s == "" {
			return nil, fmt.Errorf("%w: empty seat id", ErrInvalidSeats)
		}
		if seen[s] {
			return nil, fmt.Errorf("%w: duplicate seat id %q", ErrInvalidSeats, s)
		}
		seen[s] = true
		if params.Strategies[s] == nil {
			return nil, fmt.Errorf("%w: no strategy for seat %q", ErrInvalidSeats, s)
		}
	}
	if params.Deal == nil && params.Rng == nil {
		return nil, errors.New("a random source is required when no deal is given")
	}
	if params.Deal != nil {
		if err := validateDeal(*params.Deal); err != nil {
			return nil, err
		}
	}
	logger := params.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Round{
		ID:         uuid.NewString(),
		Phase:      PhaseDealing,
		seats:      slices.Clone(params.Seats),
		strategies: params.Strategies,
		rng:        params.Rng,
		fixedDeal:  params.Deal,
		send:       params.Send,
		logger:     logger,
		players:    make(map[string]shared.Player, shared.Seats),
	}, nil
}

func validateDeal(d shared.Deal) error {
	seen := make(map[shared.Card]bool, shared.DeckSize)
	add := func(c shared.Card) error {
		if !c.Valid() {
			return fmt.Errorf("invalid card in deal: %+v", c)
		}
		if seen[c] {
			return fmt.Errorf("duplicate card detected: %s", c)
		}
		seen[c] = true
		return nil
	}
	for i, h := range d.Hands {
		if h.Len() != shared.HandSize {
			return fmt.Errorf("hand %d must have %d cards, has %d", i, shared.HandSize, h.Len())
		}
		for _, c := range h.Cards() {
			if err := add(c); err != nil {
				return err
			}
		}
	}
	if len(d.Dog) != shared.DogSize {
		return fmt.Errorf("dog must have %d cards, has %d", shared.DogSize, len(d.Dog))
	}
	for _, c := range d.Dog {
		if err := add(c); err != nil {
			return err
		}
	}
	return nil
}

// Play runs the round. It returns (nil, nil) when every seat passes.
func (r *Round) Play() (*Result, error) {
	r.Phase = PhaseDealing
	deal := r.deal()
	hands := make([]protocol.SeatHand, 0, len(r.seats))
	for i, s := range r.seats {
		r.players[s] = shared.NewPlayer(s, deal.Hands[i])
		hands = append(hands, protocol.SeatHand{Seat: s, Hand: deal.Hands[i].Cards()})
	}
	r.logger.Printf("Round %s: Dealt to %v.", r.ID, r.seats)
	r.broadcast(protocol.TypeRoundStart, protocol.RoundStartPayload{RoundID: r.ID, Seats: r.seats})
	r.broadcast(protocol.TypeDeal, protocol.DealPayload{Hands: hands})

	r.Phase = PhaseBidding
	state, err := r.runBidding()
	if err != nil {
		return nil, err
	}
	bid, ok := state.Current()
	if !ok {
		r.Phase = PhaseVoid
		r.logger.Printf("Round %s: Everybody passed, round voided.", r.ID)
		r.broadcast(protocol.TypeRoundVoid, nil)
		return nil, nil
	}
	taker, _ := state.Taker()
	r.logger.Printf("Round %s: %s takes with %s.", r.ID, taker, bid)
	r.broadcast(protocol.TypeBiddingEnd, protocol.BiddingEndPayload{Taker: taker, Bid: bid})

	r.Phase = PhasePartnerCall
	call, partner, err := r.callPartner(taker, state)
	if err != nil {
		return nil, err
	}
	camp := shared.NewCamp(r.seats, taker, partner)

	r.Phase = PhaseDogHandling
	aside, err := r.handleDog(taker, deal.Dog, bid, state, call)
	if err != nil {
		return nil, err
	}

	r.Phase = PhaseTrickPlay
	tricks, handful, err := r.playTricks(state, camp, call)
	if err != nil {
		return nil, err
	}

	r.Phase = PhaseScoring
	score, err := ComputeScore(ScoreInput{Bid: bid, Handful: handful, Tricks: tricks, Camp: camp, Aside: aside})
	if err != nil {
		return nil, fmt.Errorf("round %s: scoring: %w", r.ID, err)
	}
	payoffs := Payoffs(score.Value, r.seats, camp)
	r.Phase = PhaseComplete
	r.logger.Printf("Round %s: %s %s by %d (attack %.1f / %d).", r.ID, bid, madeWord(score.Made),
		score.Value, float64(score.AttackerDoublePoints)/2, score.TargetDoublePoints/2)
	r.broadcast(protocol.TypeRoundEnd, protocol.RoundEndPayload{
		RoundID: r.ID,
		Camp:    camp,
		Value:   score.Value,
		Made:    score.Made,
		Payoffs: payoffs,
	})

	return &Result{
		ID:          r.ID,
		Seats:       slices.Clone(r.seats),
		FirstPlayer: r.seats[0],
		Bidding:     state,
		Bid:         bid,
		Camp:        camp,
		PartnerCall: call,
		Dog:         slices.Clone(deal.Dog),
		Aside:       aside,
		Handful:     handful,
		Tricks:      tricks,
		Score:       score,
		Payoffs:     payoffs,
	}, nil
}

func madeWord(made bool) string {
	if made {
		return "made"
	}
	return "failed"
}

func (r *Round) deal() shared.Deal {
	if r.fixedDeal != nil {
		return *r.fixedDeal
	}
	return shared.DealCards(shared.NewDeck(), r.rng)
}

func (r *Round) runBidding() (BiddingState, error) {
	bidding := NewBidding()
	var lastSeat string
	err := bidding.Run(r.seats, func(seat string, state BiddingState) (shared.Bid, bool) {
		lastSeat = seat
		bid, ok := r.strategies[seat].Bid(r.players[seat].Original, state)
		r.broadcast(protocol.TypeBid, protocol.BidPayload{Seat: seat, Bid: bid, Passed: !ok})
		return bid, ok
	})
	if err != nil {
		return BiddingState{}, &ContractError{Seat: lastSeat, Decision: "bid", Err: err}
	}
	return bidding.State(), nil
}

// callPartner returns the call and the partner seat, which is the taker
// when nobody was dealt the called card or no call was made.
func (r *Round) callPartner(taker string, state BiddingState) (PartnerCall, string, error) {
	hand := r.players[taker].Original
	if !shared.CanCallPartner(hand) {
		r.logger.Printf("Round %s: %s holds every face card and plays alone.", r.ID, taker)
		r.broadcast(protocol.TypePartnerCalled, protocol.PartnerCalledPayload{Taker: taker, Alone: true})
		return PartnerCall{}, taker, nil
	}
	card, ok := r.strategies[taker].CallPartner(hand, state)
	if !ok {
		r.broadcast(protocol.TypePartnerCalled, protocol.PartnerCalledPayload{Taker: taker, Alone: true})
		return PartnerCall{}, taker, nil
	}
	if !card.Valid() {
		return PartnerCall{}, "", &ContractError{Seat: taker, Decision: "partner_call", Err: fmt.Errorf("invalid card %+v", card)}
	}
	if hand.Contains(card) {
		return PartnerCall{}, "", &ContractError{Seat: taker, Decision: "partner_call", Err: fmt.Errorf("called %s from own hand", card)}
	}
	partner := taker
	for _, s := range r.seats {
		if r.players[s].HeldAtDeal(card) {
			partner = s
		}
	}
	r.logger.Printf("Round %s: %s calls %s.", r.ID, taker, card)
	r.broadcast(protocol.TypePartnerCalled, protocol.PartnerCalledPayload{Taker: taker, Card: &card, Alone: partner == taker})
	return PartnerCall{Card: card, Called: true}, partner, nil
}

func (r *Round) handleDog(taker string, dog []shared.Card, bid shared.Bid, state BiddingState, call PartnerCall) ([]shared.Card, error) {
	if !bid.CanSeeDog() {
		r.broadcast(protocol.TypeDog, protocol.DogPayload{Revealed: false})
		return slices.Clone(dog), nil
	}
	r.broadcast(protocol.TypeDog, protocol.DogPayload{Dog: dog, Revealed: true})
	player := r.players[taker]
	aside := r.strategies[taker].ChooseAside(player.Original, slices.Clone(dog), state, call)
	if err := validateAside(player.Original.With(dog...), aside); err != nil {
		return nil, &ContractError{Seat: taker, Decision: "aside", Err: err}
	}
	// TODO: trumps in the aside are public information and should be shown to the table.
	r.players[taker] = player.AfterDog(dog, aside)
	return slices.Clone(aside), nil
}

func validateAside(pool shared.Hand, aside []shared.Card) error {
	if len(aside) != shared.DogSize {
		return fmt.Errorf("aside has %d cards, want %d", len(aside), shared.DogSize)
	}
	for i, c := range aside {
		if !pool.Contains(c) {
			return fmt.Errorf("aside card %s is neither in hand nor in dog", c)
		}
		if slices.Contains(aside[:i], c) {
			return fmt.Errorf("aside card %s appears twice", c)
		}
	}
	return nil
}

func (r *Round) playTricks(state BiddingState, camp shared.Camp, call PartnerCall) ([]shared.Trick, []shared.Card, error) {
	var handful []shared.Card
	tricks := make([]shared.Trick, 0, shared.TricksPerRound)
	leader := r.seats[0]
	for number := 1; number <= shared.TricksPerRound; number++ {
		plays := make([]shared.PlayedCard, 0, shared.Seats)
		takerPlayed := number > 1
		current := leader
		for range r.seats {
			if !takerPlayed && handful == nil {
				shown, err := r.checkHandful(camp.Taker, state)
				if err != nil {
					return nil, nil, err
				}
				handful = shown
			}

			player := r.players[current]
			card := r.strategies[current].PickCard(slices.Clone(plays), player.Current, state, slices.Clone(r.seats), camp.Taker, call)
			if err := shared.VerifyPlay(player.Current, card, plays); err != nil {
				return nil, nil, &ContractError{Seat: current, Decision: "play", Err: err}
			}
			r.players[current], _ = player.AfterPlay(card)
			plays = append(plays, shared.PlayedCard{Player: current, Card: card})
			r.broadcast(protocol.TypeCardPlayed, protocol.CardPlayedPayload{Trick: number, Seat: current, Card: card})

			if current == camp.Taker {
				takerPlayed = true
			}
			current = r.nextSeat(current)
		}

		trick, err := shared.NewTrick(number, plays, strongExcuse(number, tricks, camp))
		if err != nil {
			return nil, nil, fmt.Errorf("round %s: %w", r.ID, err)
		}
		tricks = append(tricks, trick)
		leader = trick.Winner().Player
		r.broadcast(protocol.TypeTrickEnd, protocol.TrickEndPayload{Trick: number, WinnerID: leader, Cards: trick.Cards})
	}
	return tricks, handful, nil
}

// checkHandful asks the taker for a handful and, when one is shown, tells
// every other seat. It returns nil when nothing was shown.
func (r *Round) checkHandful(taker string, state BiddingState) ([]shared.Card, error) {
	hand := r.players[taker].Current
	shown := r.strategies[taker].CheckHandful(hand, state)
	if len(shown) == 0 {
		return nil, nil
	}
	if err := validateHandful(hand, shown); err != nil {
		return nil, &ContractError{Seat: taker, Decision: "handful", Err: err}
	}
	shown = slices.Clone(shown)
	r.logger.Printf("Round %s: %s shows a handful of %d.", r.ID, taker, len(shown))
	r.broadcast(protocol.TypeHandfulShown, protocol.HandfulShownPayload{Seat: taker, Cards: shown})
	for _, s := range r.seats {
		if s != taker {
			r.strategies[s].HandleHandful(slices.Clone(shown), state, slices.Clone(r.seats), r.players[s].Current)
		}
	}
	return shown, nil
}

func validateHandful(hand shared.Hand, shown []shared.Card) error {
	if len(shown) < shared.HandfulMinimum {
		return fmt.Errorf("handful of %d, need at least %d", len(shown), shared.HandfulMinimum)
	}
	for i, c := range shown {
		if c.IsSuited() {
			return fmt.Errorf("handful shows suited card %s", c)
		}
		if !hand.Contains(c) {
			return fmt.Errorf("handful shows %s which is not in hand", c)
		}
		if slices.Contains(shown[:i], c) {
			return fmt.Errorf("handful shows %s twice", c)
		}
	}
	return nil
}

// strongExcuse returns the side that won every earlier trick when number is the last trick.
func strongExcuse(number int, previous []shared.Trick, camp shared.Camp) []string {
	if number != shared.TricksPerRound {
		return nil
	}
	attackWins := 0
	for _, t := range previous {
		if camp.IsAttacker(t.Winner().Player) {
			attackWins++
		}
	}
	switch attackWins {
	case len(previous):
		return slices.Clone(camp.Attackers)
	case 0:
		return slices.Clone(camp.Defenders)
	}
	return nil
}

func (r *Round) nextSeat(seat string) string {
	i := slices.Index(r.seats, seat)
	return r.seats[(i+1)%len(r.seats)]
}

func (r *Round) broadcast(msgType string, payload interface{}) {
	if r.send == nil {
		return
	}
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		r.logger.Printf("Round %s: Error creating %s message: %v", r.ID, msgType, err)
		return
	}
	r.send(msg)
}
