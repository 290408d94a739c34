package shared

import "slices"

// Side identifies which camp a seat plays for in a round.
type Side int

const (
	Attack  Side = 1 // Taker and partner
	Defence Side = 2 // Everybody else
)

func (s Side) String() string {
	if s == Attack {
		return "attack"
	}
	return "defence"
}

// Camp partitions the seats of a round into attack and defence. When the
// taker plays alone Partner equals Taker.
type Camp struct {
	Taker     string   `json:"taker"`
	Partner   string   `json:"partner"`
	Attackers []string `json:"attackers"`
	Defenders []string `json:"defenders"`
}

// NewCamp builds the camp for the given seat order.
func NewCamp(seats []string, taker, partner string) Camp {
	c := Camp{Taker: taker, Partner: partner}
	for _, s := range seats {
		if s == taker || s == partner {
			c.Attackers = append(c.Attackers, s)
		} else {
			c.Defenders = append(c.Defenders, s)
		}
	}
	return c
}

// Alone reports whether the taker has no distinct partner.
func (c Camp) Alone() bool { return c.Partner == c.Taker }

// SideOf returns the side seat plays for.
func (c Camp) SideOf(seat string) Side {
	if slices.Contains(c.Attackers, seat) {
		return Attack
	}
	return Defence
}

// IsAttacker reports whether seat is the taker or the partner.
func (c Camp) IsAttacker(seat string) bool { return c.SideOf(seat) == Attack }

// Members returns the seats of side.
func (c Camp) Members(side Side) []string {
	if side == Attack {
		return c.Attackers
	}
	return c.Defenders
}
