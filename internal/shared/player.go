package shared

// Player is one seat's state for a round. The original hand is fixed at
// deal time; the current hand shrinks as the dog is handled and cards are
// played. Player values are replaced, never mutated, as the round advances.
type Player struct {
	ID       string // Unique seat identifier
	Original Hand   // Cards dealt to the seat
	Current  Hand   // Cards still held
}

// NewPlayer seats id with the dealt hand.
func NewPlayer(id string, hand Hand) Player {
	return Player{ID: id, Original: hand, Current: hand}
}

// AfterDog returns the player once the dog has been absorbed and the aside discarded.
func (p Player) AfterDog(dog, aside []Card) Player {
	p.Current = p.Current.With(dog...).Without(aside...)
	return p
}

// AfterPlay returns the player without card. ok is false when the card is not held.
func (p Player) AfterPlay(card Card) (Player, bool) {
	if !p.Current.Contains(card) {
		return p, false
	}
	p.Current = p.Current.Without(card)
	return p, true
}

// HeldAtDeal reports whether the seat was dealt c.
func (p Player) HeldAtDeal(c Card) bool {
	return p.Original.Contains(c)
}
