package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HTTP_ADDR", "DATABASE_DRIVER", "DATABASE_URL", "SEAT_NAMES", "RNG_SEED", "STATIC_DIR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if c.HTTPAddr != want.HTTPAddr || c.DatabaseDriver != want.DatabaseDriver || c.DatabaseURL != want.DatabaseURL {
		t.Fatalf("Load = %+v, want %+v", c, want)
	}
	if !slices.Equal(c.SeatNames, want.SeatNames) || c.RNGSeed != 0 {
		t.Fatalf("Load = %+v, want %+v", c, want)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DATABASE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "postgres://tarot@localhost/tarot")
	t.Setenv("SEAT_NAMES", "ana, bo ,cy,di,ed")
	t.Setenv("RNG_SEED", "42")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.HTTPAddr != ":9000" || c.DatabaseDriver != DriverPostgres || c.RNGSeed != 42 {
		t.Fatalf("Load = %+v", c)
	}
	if want := []string{"ana", "bo", "cy", "di", "ed"}; !slices.Equal(c.SeatNames, want) {
		t.Fatalf("SeatNames = %q, want %q", c.SeatNames, want)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("RNG_SEED=7\nSTATIC_DIR=/srv/tarot\nHTTP_ADDR=:1234\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// Variables already in the environment win over the file.
	t.Setenv("HTTP_ADDR", ":5678")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.RNGSeed != 7 || c.StaticDir != "/srv/tarot" || c.HTTPAddr != ":5678" {
		t.Fatalf("Load = %+v", c)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
	}{
		{"driver", "DATABASE_DRIVER", "mysql"},
		{"seed", "RNG_SEED", "-1"},
		{"too few seats", "SEAT_NAMES", "a,b,c,d"},
		{"duplicate seat", "SEAT_NAMES", "a,b,c,d,a"},
		{"empty seat", "SEAT_NAMES", "a,b,,d,e"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("Load accepted %s=%q", tc.key, tc.val)
			}
		})
	}
}
