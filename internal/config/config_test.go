package config

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := `
epsilon: 0
seed: 7
boundaries:
  b2:
    friction: 0.5
    safety: 0.4
    couplings:
      congestion_to_capacity: 0.03
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Epsilon = 0
	want.Seed = 7
	want.Boundaries.B2.Friction = 0.5
	want.Boundaries.B2.Safety = 0.4
	want.Boundaries.B2.Couplings.CongestionToCapacity = 0.03
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"epsilon out of range", "epsilon: 2\n"},
		{"nan learning rate", "alpha_q: .nan\n"},
		{"nan epsilon", "epsilon: .nan\n"},
		{"infinite weight", "w_surplus: .inf\n"},
		{"negative infinite penalty", "extraction_penalty: -.inf\n"},
		{"nan boundary friction", "boundaries:\n  b1:\n    friction: .nan\n"},
		{"infinite coupling", "boundaries:\n  b2:\n    couplings:\n      safety_to_trust: .inf\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Load error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero alpha", func(c *Config) { c.AlphaQ = 0 }},
		{"beta above one", func(c *Config) { c.BetaR = 1.5 }},
		{"negative epsilon", func(c *Config) { c.Epsilon = -0.1 }},
		{"no permutations", func(c *Config) { c.ShapleyPerms = 0 }},
		{"no power cadence", func(c *Config) { c.PowerUpdateFreq = 0 }},
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"nan beta", func(c *Config) { c.BetaR = math.NaN() }},
		{"infinite friction penalty", func(c *Config) { c.FrictionPenalty = math.Inf(1) }},
		{"nan b0 safety", func(c *Config) { c.Boundaries.B0.Safety = math.NaN() }},
		{"infinite b1 coupling", func(c *Config) { c.Boundaries.B1.Couplings.CongestionToCapacity = math.Inf(-1) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestBoundariesLevel(t *testing.T) {
	b := Default().Boundaries
	if b.Level(1) != b.B1 {
		t.Errorf("Level(1) = %+v, want %+v", b.Level(1), b.B1)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for level 3")
		}
	}()
	b.Level(3)
}

func TestJSONKeysMatchYAML(t *testing.T) {
	raw, err := json.Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	var keys map[string]any
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"alpha_q", "epsilon", "power_update_freq", "boundaries"} {
		if _, ok := keys[k]; !ok {
			t.Errorf("json encoding missing key %q: %s", k, raw)
		}
	}
	if _, ok := keys["AlphaQ"]; ok {
		t.Errorf("json encoding uses Go field names: %s", raw)
	}
}
