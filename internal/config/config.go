package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Drivers accepted for DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config holds the settings shared by the server and the simulator.
type Config struct {
	HTTPAddr       string   `json:"http_addr"`
	DatabaseDriver string   `json:"database_driver"`
	DatabaseURL    string   `json:"database_url"`
	SeatNames      []string `json:"seat_names"`
	// RNGSeed seeds the tables; 0 seeds from the clock.
	RNGSeed   uint64 `json:"rng_seed"`
	StaticDir string `json:"static_dir"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTPAddr:       ":8080",
		DatabaseDriver: DriverSQLite,
		DatabaseURL:    "./tarot.db",
		SeatNames:      []string{"n", "e", "s", "w", "nw"},
		StaticDir:      "web/static",
	}
}

// Load reads envFiles (".env" when none are given) into the environment
// and builds the configuration from it. Missing env files are skipped;
// variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", f, err)
		}
	}

	c := Default()
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.DatabaseDriver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("SEAT_NAMES"); v != "" {
		c.SeatNames = nil
		for _, name := range strings.Split(v, ",") {
			c.SeatNames = append(c.SeatNames, strings.TrimSpace(name))
		}
	}
	if v := os.Getenv("RNG_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RNG_SEED %q: %w", v, err)
		}
		c.RNGSeed = seed
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		c.StaticDir = v
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration for values the services cannot run with.
func (c Config) Validate() error {
	if c.DatabaseDriver != DriverSQLite && c.DatabaseDriver != DriverPostgres {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q, want %s or %s", c.DatabaseDriver, DriverSQLite, DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must not be empty")
	}
	if len(c.SeatNames) != 5 {
		return fmt.Errorf("SEAT_NAMES needs 5 names, got %d", len(c.SeatNames))
	}
	for i, name := range c.SeatNames {
		if name == "" {
			return errors.New("SEAT_NAMES contains an empty name")
		}
		if slices.Contains(c.SeatNames[:i], name) {
			return fmt.Errorf("SEAT_NAMES repeats %q", name)
		}
	}
	return nil
}
