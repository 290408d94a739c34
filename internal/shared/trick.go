package shared

import (
	"errors"
	"fmt"
	"log"
	"slices"
)

// TricksPerRound is the number of tricks in a five-seat round.
const TricksPerRound = 15

// ErrIllegalPlay is wrapped by every legality failure from VerifyPlay.
var ErrIllegalPlay = errors.New("illegal play")

// PlayedCard stores a card along with the seat that played it.
type PlayedCard struct {
	Player string `json:"player"`
	Card   Card   `json:"card"`
}

// Trick represents one completed trick of a round.
type Trick struct {
	Number int          `json:"number"` // 1-based position in the round
	Cards  []PlayedCard `json:"cards"`
	// StrongExcuse holds the seats of the side that won every earlier trick.
	// It is only ever non-empty on the last trick.
	StrongExcuse []string `json:"strong_excuse,omitempty"`
}

// NewTrick validates and builds a trick.
func NewTrick(number int, cards []PlayedCard, strongExcuse []string) (Trick, error) {
	if number < 1 || number > TricksPerRound {
		return Trick{}, fmt.Errorf("trick number %d out of range [1,%d]", number, TricksPerRound)
	}
	if len(cards) == 0 {
		return Trick{}, errors.New("trick has no cards")
	}
	seenCards := make(map[Card]bool, len(cards))
	seenPlayers := make(map[string]bool, len(cards))
	for _, pc := range cards {
		if seenCards[pc.Card] {
			return Trick{}, fmt.Errorf("card %s played twice in trick %d", pc.Card, number)
		}
		if seenPlayers[pc.Player] {
			return Trick{}, fmt.Errorf("player %s played twice in trick %d", pc.Player, number)
		}
		seenCards[pc.Card] = true
		seenPlayers[pc.Player] = true
	}
	if len(strongExcuse) > 0 && number != TricksPerRound {
		return Trick{}, fmt.Errorf("strong excuse on trick %d, only allowed on trick %d", number, TricksPerRound)
	}
	return Trick{Number: number, Cards: slices.Clone(cards), StrongExcuse: slices.Clone(strongExcuse)}, nil
}

// Leader returns the seat that led the trick.
func (t Trick) Leader() string {
	return t.Cards[0].Player
}

// PlayerOf returns who played c in the trick.
func (t Trick) PlayerOf(c Card) (string, bool) {
	for _, pc := range t.Cards {
		if pc.Card == c {
			return pc.Player, true
		}
	}
	return "", false
}

// Winner determines the play that takes the trick.
func (t Trick) Winner() PlayedCard {
	if len(t.Cards) == 0 {
		log.Panicf("Error: Cannot determine winner of an empty trick.")
	}
	first := t.Cards[0]
	if first.Card.IsExcuse() {
		if slices.Contains(t.StrongExcuse, first.Player) {
			return first
		}
		if len(t.Cards) == 1 {
			return first
		}
		// A weak Excuse lead is ignored; the next card leads in its place.
		return winnerOf(t.Cards[1:], nil)
	}
	return winnerOf(t.Cards, t.StrongExcuse)
}

func winnerOf(cards []PlayedCard, strongExcuse []string) PlayedCard {
	winner := cards[0]
	ledSuit, suited := SuitOf(winner.Card)
	for _, curr := range cards[1:] {
		switch {
		case curr.Card.IsExcuse():
			// Nothing played after a strong Excuse takes the trick back.
			if slices.Contains(strongExcuse, curr.Player) {
				return curr
			}
		case curr.Card.IsSuited() && !winner.Card.IsSuited():
			// suited never beats trump
		case curr.Card.IsTrump() && winner.Card.IsSuited():
			winner = curr
		case curr.Card.IsSuited():
			if suited && curr.Card.Suit == ledSuit && curr.Card.Rank > winner.Card.Rank {
				winner = curr
			}
		default:
			if TrumpBeats(curr.Card, winner.Card) {
				winner = curr
			}
		}
	}
	return winner
}

// MaxTrump returns the highest numbered trump in plays.
func MaxTrump(plays []PlayedCard) (Card, bool) {
	var best Card
	found := false
	for _, pc := range plays {
		if pc.Card.IsTrump() && (!found || TrumpBeats(pc.Card, best)) {
			best = pc.Card
			found = true
		}
	}
	return best, found
}

// VerifyPlay checks that card may be played from hand onto the plays made
// so far in the current trick. The returned error wraps ErrIllegalPlay.
func VerifyPlay(hand Hand, card Card, plays []PlayedCard) error {
	if !hand.Contains(card) {
		return fmt.Errorf("%w: %s is not in hand", ErrIllegalPlay, card)
	}
	if len(plays) == 0 || card.IsExcuse() {
		return nil
	}
	if err := verifyFollowing(hand, card, plays); err != nil {
		return err
	}
	if card.IsTrump() {
		return verifyHigherTrump(hand, card, plays)
	}
	return nil
}

func verifyFollowing(hand Hand, card Card, plays []PlayedCard) error {
	// A leading Excuse sets no obligation; the next card does.
	for len(plays) > 0 && plays[0].Card.IsExcuse() {
		plays = plays[1:]
	}
	if len(plays) == 0 {
		return nil
	}
	led := plays[0].Card
	ledSuit, ledSuited := SuitOf(led)
	cardSuit, cardSuited := SuitOf(card)
	if ledSuited {
		if cardSuited && cardSuit == ledSuit {
			return nil
		}
		if hand.HasSuit(ledSuit) {
			return fmt.Errorf("%w: played %s on a %s trick while holding %s", ErrIllegalPlay, card, ledSuit, ledSuit)
		}
		return nil
	}
	if !cardSuited {
		return nil
	}
	if hand.HasTrump() {
		return fmt.Errorf("%w: played %s on a trump trick while holding trump", ErrIllegalPlay, card)
	}
	return nil
}

func verifyHigherTrump(hand Hand, card Card, plays []PlayedCard) error {
	top, ok := MaxTrump(plays)
	if !ok || TrumpBeats(card, top) {
		return nil
	}
	for _, t := range hand.Trumps() {
		if TrumpBeats(t, top) {
			return fmt.Errorf("%w: played %s under %s while holding %s", ErrIllegalPlay, card, top, t)
		}
	}
	return nil
}

// LegalPlays returns every card of hand that VerifyPlay accepts.
func LegalPlays(hand Hand, plays []PlayedCard) []Card {
	var out []Card
	for _, c := range hand.cards {
		if VerifyPlay(hand, c, plays) == nil {
			out = append(out, c)
		}
	}
	return out
}
