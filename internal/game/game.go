package game

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Table seats five strategies and deals successive rounds between them.
// Rounds at one table run one at a time.
type Table struct {
	ID           string         `json:"id"`
	Code         string         `json:"code"` // Short code watchers join with
	Seats        []string       `json:"seats"`
	RoundsPlayed int            `json:"rounds_played"`
	Totals       map[string]int `json:"totals"` // Running payoff per seat

	rng         *rand.Rand
	newStrategy StrategyFactory
	mu          sync.Mutex
	sendMessage MessageSender
	logger      *log.Logger
}

// NewTable validates the seats and prepares a table whose rounds are seeded
// from seed.
func NewTable(code string, seats []string, seed uint64, factory StrategyFactory) (*Table, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: no seats", ErrInvalidSeats)
	}
	if factory == nil {
		return nil, errors.New("a strategy factory is required")
	}
	for i, s := range seats {
		if s == "" || slices.Contains(seats[:i], s) {
			return nil, fmt.Errorf("%w: bad or duplicate seat %q", ErrInvalidSeats, s)
		}
	}
	totals := make(map[string]int, len(seats))
	for _, s := range seats {
		totals[s] = 0
	}
	return &Table{
		ID:          uuid.New().String(),
		Code:        code,
		Seats:       slices.Clone(seats),
		Totals:      totals,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		newStrategy: factory,
		logger:      log.Default(),
	}, nil
}

// SetSender installs the sink every round event is broadcast to.
func (t *Table) SetSender(sender MessageSender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendMessage = sender
}

// SetLogger replaces the standard logger.
func (t *Table) SetLogger(logger *log.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// PlayRound deals and plays one round with fresh strategies. A voided
// round returns (nil, nil) and leaves the totals untouched.
func (t *Table) PlayRound() (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rng := rand.New(rand.NewPCG(t.rng.Uint64(), t.rng.Uint64()))
	strategies := make(map[string]Strategy, len(t.Seats))
	for _, s := range t.Seats {
		strategies[s] = t.newStrategy(s, rng)
	}
	round, err := NewRound(RoundParams{
		Seats:      t.Seats,
		Strategies: strategies,
		Rng:        rng,
		Send:       t.sendMessage,
		Logger:     t.logger,
	})
	if err != nil {
		return nil, err
	}

	t.logger.Printf("Table %s: Starting round %d.", t.Code, t.RoundsPlayed+1)
	result, err := round.Play()
	t.RoundsPlayed++
	if err != nil {
		t.logger.Printf("Table %s: Round %s aborted: %v", t.Code, round.ID, err)
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	for seat, p := range result.Payoffs {
		t.Totals[seat] += p
	}
	return result, nil
}

// Standings returns a copy of the running totals.
func (t *Table) Standings() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.Totals)
}
