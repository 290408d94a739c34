package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"sort"
	"sync"
	"time"

	"tarot-game/internal/config"
	"tarot-game/internal/database"
	"tarot-game/internal/game"
	"tarot-game/internal/strategy"
)

// summary aggregates the outcome of many rounds.
type summary struct {
	mu      sync.Mutex
	played  int
	voided  int
	made    int
	bids    map[string]int
	totals  map[string]int
	aborted int
}

func (s *summary) add(r *game.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.aborted++
	case r == nil:
		s.voided++
	default:
		s.played++
		s.bids[string(r.Bid)]++
		if r.Score.Made {
			s.made++
		}
		for seat, p := range r.Payoffs {
			s.totals[seat] += p
		}
	}
}

func (s *summary) print(w io.Writer) {
	fmt.Fprintf(w, "played %d, voided %d, aborted %d\n", s.played, s.voided, s.aborted)
	if s.played > 0 {
		fmt.Fprintf(w, "contracts made: %d (%.1f%%)\n", s.made, 100*float64(s.made)/float64(s.played))
	}
	bids := make([]string, 0, len(s.bids))
	for b := range s.bids {
		bids = append(bids, b)
	}
	sort.Strings(bids)
	for _, b := range bids {
		fmt.Fprintf(w, "  %-14s %d\n", b, s.bids[b])
	}
	seats := make([]string, 0, len(s.totals))
	for seat := range s.totals {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	for _, seat := range seats {
		fmt.Fprintf(w, "  %-4s %+d\n", seat, s.totals[seat])
	}
}

func main() {
	rounds := flag.Int("rounds", 1000, "number of rounds to play")
	workers := flag.Int("workers", 4, "rounds played in parallel")
	seed := flag.Uint64("seed", 0, "base seed; 0 uses RNG_SEED or the clock")
	store := flag.Bool("store", false, "store every scored round in the configured database")
	verbose := flag.Bool("v", false, "log every round")
	quiet := flag.Bool("quiet", false, "only print the summary")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *seed == 0 {
		*seed = cfg.RNGSeed
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	if *workers < 1 {
		*workers = 1
	}

	var db *database.Service
	if *store {
		db, err = database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
	}

	logger := log.New(io.Discard, "", log.LstdFlags)
	if *verbose {
		logger = log.Default()
	}

	log.Printf("Simulating %d rounds with seed %d on %d workers", *rounds, *seed, *workers)
	sum := &summary{bids: map[string]int{}, totals: map[string]int{}}
	factory := strategy.NewRandomFactory()
	var outMu sync.Mutex
	enc := json.NewEncoder(os.Stdout)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, err := playRound(cfg.SeatNames, factory, *seed, uint64(i), logger)
				if err != nil {
					log.Printf("Round %d: %v", i, err)
				}
				sum.add(r, err)
				if r != nil && !*quiet {
					outMu.Lock()
					if err := enc.Encode(r); err != nil {
						log.Printf("Round %d: failed to encode result: %v", i, err)
					}
					outMu.Unlock()
				}
				if db != nil && r != nil {
					storeRound(db, r)
				}
			}
		}()
	}
	for i := 0; i < *rounds; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sum.print(os.Stdout)
}

// playRound plays round index with its own random source so results do not
// depend on scheduling.
func playRound(seats []string, factory game.StrategyFactory, seed, index uint64, logger *log.Logger) (*game.Result, error) {
	rng := rand.New(rand.NewPCG(seed, index))
	strategies := make(map[string]game.Strategy, len(seats))
	for _, s := range seats {
		strategies[s] = factory(s, rng)
	}
	round, err := game.NewRound(game.RoundParams{
		Seats:      seats,
		Strategies: strategies,
		Rng:        rng,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return round.Play()
}

func storeRound(db *database.Service, r *game.Result) {
	row, err := database.NewRoundResult("SIM", r, time.Now())
	if err == nil {
		err = db.Insert(row)
	}
	if err != nil {
		log.Printf("Failed to store round %s: %v", r.ID, err)
	}
}
