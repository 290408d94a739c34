package shared

import "fmt"

// Bid is a contract rank in the auction.
type Bid string

const (
	Small        Bid = "small"
	Push         Bid = "push"
	Guard        Bid = "guard"
	GuardWithout Bid = "guard_without"
	GuardAgainst Bid = "guard_against"
)

// Bids lists every contract from lowest to highest.
var Bids = []Bid{Small, Push, Guard, GuardWithout, GuardAgainst}

// Explicit strength of each contract; comparisons never depend on declaration order.
var bidStrength = map[Bid]int{
	Small:        1,
	Push:         2,
	Guard:        3,
	GuardWithout: 4,
	GuardAgainst: 5,
}

var bidValues = map[Bid]int{
	Small:        10,
	Push:         20,
	Guard:        40,
	GuardWithout: 80,
	GuardAgainst: 160,
}

// Valid reports whether b is a known contract.
func (b Bid) Valid() bool {
	_, ok := bidStrength[b]
	return ok
}

// Beats reports whether b is strictly stronger than other.
func (b Bid) Beats(other Bid) bool {
	return bidStrength[b] > bidStrength[other]
}

// CanSeeDog reports whether the taker folds the dog into their hand before
// discarding an aside.
func (b Bid) CanSeeDog() bool {
	return b == Small || b == Push || b == Guard
}

// BaseValue is the contract's fixed score before bonuses.
func (b Bid) BaseValue() int {
	v, ok := bidValues[b]
	if !ok {
		panic(fmt.Sprintf("unknown bid %q", string(b)))
	}
	return v
}

// BidsAbove returns every contract strictly stronger than current. When
// hasCurrent is false all contracts are returned.
func BidsAbove(current Bid, hasCurrent bool) []Bid {
	out := make([]Bid, 0, len(Bids))
	for _, b := range Bids {
		if !hasCurrent || b.Beats(current) {
			out = append(out, b)
		}
	}
	return out
}
