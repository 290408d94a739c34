package game

import (
	"errors"
	"fmt"
	"log"

	"tarot-game/internal/shared"
)

// ScoreInput is everything the scorer needs about a finished round.
type ScoreInput struct {
	Bid     shared.Bid
	Handful []shared.Card // empty when no handful was shown
	Tricks  []shared.Trick
	Camp    shared.Camp
	Aside   []shared.Card
}

// Score is the outcome of a round together with its breakdown. Point
// fields ending in DoublePoints are doubled to keep half points integral.
type Score struct {
	AttackerDoublePoints int  `json:"attacker_double_points"`
	TargetDoublePoints   int  `json:"target_double_points"`
	Bouts                int  `json:"bouts"`
	AttackerTricks       int  `json:"attacker_tricks"`
	Made                 bool `json:"made"`
	Base                 int  `json:"base"`
	DifferenceBonus      int  `json:"difference_bonus"`
	PetitAuBout          int  `json:"petit_au_bout"`
	HandfulBonus         int  `json:"handful_bonus"`
	// Value is the signed outcome from the attack's point of view.
	Value int `json:"value"`
}

// targetPoints maps the number of bouts won by the attack to the points it needs.
var targetPoints = [...]int{56, 51, 41, 36}

// TargetPoints returns the points the attack needs holding bouts bouts.
func TargetPoints(bouts int) int {
	if bouts < 0 || bouts >= len(targetPoints) {
		log.Panicf("Error: unexpected number of bouts won: %d", bouts)
	}
	return targetPoints[bouts]
}

type piles struct {
	attack, defence []shared.Card
	attackerTricks  int
	attackOwed      bool
	defenceOwed     bool
}

// ComputeScore scores a completed round.
func ComputeScore(in ScoreInput) (Score, error) {
	if err := validateScoreInput(in); err != nil {
		return Score{}, err
	}
	p := splitPiles(in.Tricks, in.Camp)
	if in.Bid != shared.GuardAgainst {
		p.attack = append(p.attack, in.Aside...)
	}

	actual := sumDoublePoints(p.attack) + excuseAdjustment(p)
	if in.Bid == shared.GuardAgainst {
		// The dog stays out of both piles and counts against the attack.
		actual -= sumDoublePoints(in.Aside)
	}
	bouts := 0
	for _, c := range p.attack {
		if shared.IsBout(c) {
			bouts++
		}
	}
	target := 2 * TargetPoints(bouts)
	made := actual >= target

	s := Score{
		AttackerDoublePoints: actual,
		TargetDoublePoints:   target,
		Bouts:                bouts,
		AttackerTricks:       p.attackerTricks,
		Made:                 made,
		Base:                 in.Bid.BaseValue(),
		DifferenceBonus:      differenceBonus(actual, target),
		PetitAuBout:          petitAuBout(made, p.attackerTricks, in.Tricks, in.Camp),
	}
	if len(in.Handful) > 0 {
		s.HandfulBonus = 10
	}
	total := s.Base + s.DifferenceBonus + s.PetitAuBout + s.HandfulBonus
	if made {
		s.Value = total
	} else {
		s.Value = -total
	}
	return s, nil
}

func validateScoreInput(in ScoreInput) error {
	if !in.Bid.Valid() {
		return fmt.Errorf("unknown bid %q", string(in.Bid))
	}
	if len(in.Tricks) != shared.TricksPerRound {
		return fmt.Errorf("need %d tricks to score, got %d", shared.TricksPerRound, len(in.Tricks))
	}
	if in.Camp.Taker == "" || len(in.Camp.Defenders) == 0 {
		return errors.New("camp has no taker or no defenders")
	}
	for i, t := range in.Tricks {
		if t.Number != i+1 {
			return fmt.Errorf("trick %d is numbered %d", i+1, t.Number)
		}
		if len(t.Cards) != shared.Seats {
			return fmt.Errorf("trick %d has %d cards, want %d", t.Number, len(t.Cards), shared.Seats)
		}
	}
	return nil
}

// splitPiles hands every played card to the side that keeps it.
func splitPiles(tricks []shared.Trick, camp shared.Camp) piles {
	var p piles
	last := len(tricks) - 1
	for _, t := range tricks[:last] {
		attackWon := camp.IsAttacker(t.Winner().Player)
		for _, pc := range t.Cards {
			attackPlayed := camp.IsAttacker(pc.Player)
			switch {
			case pc.Card.IsExcuse() && attackPlayed && !attackWon:
				// The Excuse stays with the attack, which is owed half a point back
				// from the defence.
				p.attack = append(p.attack, pc.Card)
				p.attackOwed = true
			case pc.Card.IsExcuse() && !attackPlayed && attackWon:
				p.defence = append(p.defence, pc.Card)
				p.defenceOwed = true
			case attackWon:
				p.attack = append(p.attack, pc.Card)
			default:
				p.defence = append(p.defence, pc.Card)
			}
		}
		if attackWon {
			p.attackerTricks++
		}
	}

	final := tricks[last]
	attackWon := camp.IsAttacker(final.Winner().Player)
	for _, pc := range final.Cards {
		if !pc.Card.IsExcuse() {
			if attackWon {
				p.attack = append(p.attack, pc.Card)
			} else {
				p.defence = append(p.defence, pc.Card)
			}
			continue
		}
		switch {
		case p.attackerTricks == shared.TricksPerRound-1:
			p.attack = append(p.attack, pc.Card)
		case p.attackerTricks == 0:
			p.defence = append(p.defence, pc.Card)
		case camp.IsAttacker(pc.Player):
			// On the last trick the Excuse is lost by whoever plays it.
			p.defence = append(p.defence, pc.Card)
			if attackWon {
				p.attackOwed = true
			}
		default:
			p.attack = append(p.attack, pc.Card)
			if !attackWon {
				p.defenceOwed = true
			}
		}
	}
	if attackWon {
		p.attackerTricks++
	}
	return p
}

func sumDoublePoints(cards []shared.Card) int {
	total := 0
	for _, c := range cards {
		total += shared.DoublePoints(c)
	}
	return total
}

func hasLowCard(cards []shared.Card) bool {
	for _, c := range cards {
		if shared.DoublePoints(c) == 1 {
			return true
		}
	}
	return false
}

// excuseAdjustment moves the half point owed for a kept Excuse.
func excuseAdjustment(p piles) int {
	switch {
	case p.attackOwed && hasLowCard(p.defence):
		return 1
	case p.defenceOwed && hasLowCard(p.attack):
		return -1
	}
	return 0
}

// differenceBonus rounds the gap to the target up to the next multiple of 10 points.
func differenceBonus(actual, target int) int {
	gap := target - actual
	if gap < 0 {
		gap = -gap
	}
	return (gap + 19) / 20 * 10
}

func petitAuBout(made bool, attackerTricks int, tricks []shared.Trick, camp shared.Camp) int {
	player, ok := petitAuBoutPlayer(attackerTricks, tricks, camp)
	if !ok {
		return 0
	}
	if camp.IsAttacker(player) == made {
		return 10
	}
	return -10
}

func petitAuBoutPlayer(attackerTricks int, tricks []shared.Trick, camp shared.Camp) (string, bool) {
	last := tricks[len(tricks)-1]
	var sweeper shared.Side
	switch attackerTricks {
	case shared.TricksPerRound:
		sweeper = shared.Attack
	case 0:
		sweeper = shared.Defence
	}
	if sweeper != 0 {
		// With a slam the petit may be led to the second-to-last trick and
		// followed by the Excuse on the last one.
		petitBy, petitPlayed := tricks[len(tricks)-2].PlayerOf(shared.Petit)
		excuseBy, excusePlayed := last.PlayerOf(shared.Excuse)
		if petitPlayed && excusePlayed && camp.SideOf(petitBy) == sweeper && camp.SideOf(excuseBy) == sweeper {
			return petitBy, true
		}
	}
	return last.PlayerOf(shared.Petit)
}

// Payoffs spreads value over the seats: the taker takes 3x alone or 2x with
// a partner, the partner 1x and each defender -1x.
func Payoffs(value int, seats []string, camp shared.Camp) map[string]int {
	out := make(map[string]int, len(seats))
	for _, s := range seats {
		switch {
		case s == camp.Taker && camp.Alone():
			out[s] = 3 * value
		case s == camp.Taker:
			out[s] = 2 * value
		case s == camp.Partner:
			out[s] = value
		default:
			out[s] = -value
		}
	}
	return out
}
