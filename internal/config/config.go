// Package config holds the tunable constants of a simulation run. Every
// component receives a Config explicitly at construction; there is no
// process-wide default consulted at call sites.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/predictive-agency/internal/world"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the bundle of scalar tunables for learning, reward shaping and
// metric cadence.
type Config struct {
	AlphaQ  float64 `json:"alpha_q" yaml:"alpha_q"` // value-table learning rate
	BetaR   float64 `json:"beta_r" yaml:"beta_r"`   // baseline and boundary-average rate
	Epsilon float64 `json:"epsilon" yaml:"epsilon"` // exploration probability

	ShapleyPerms    int `json:"shapley_perms" yaml:"shapley_perms"`         // permutations per power estimate
	PowerUpdateFreq int `json:"power_update_freq" yaml:"power_update_freq"` // ticks between power recomputes

	WSurplus  float64 `json:"w_surplus" yaml:"w_surplus"`
	WSafety   float64 `json:"w_safety" yaml:"w_safety"`
	WTrust    float64 `json:"w_trust" yaml:"w_trust"`
	WCapacity float64 `json:"w_capacity" yaml:"w_capacity"`
	WDemand   float64 `json:"w_demand" yaml:"w_demand"`

	ExtractionPenalty float64 `json:"extraction_penalty" yaml:"extraction_penalty"`
	FrictionPenalty   float64 `json:"friction_penalty" yaml:"friction_penalty"`

	Seed  int64 `json:"seed" yaml:"seed"`
	Ticks int   `json:"ticks" yaml:"ticks"` // default run length for drivers

	Boundaries Boundaries `json:"boundaries" yaml:"boundaries"`
}

// LevelTuning is the reward-shaping and dynamics-coupling pair owned by one
// boundary level.
type LevelTuning struct {
	Friction  float64         `json:"friction" yaml:"friction"` // weight on the friction penalty
	Safety    float64         `json:"safety" yaml:"safety"`     // weight on the safety deficit inside friction
	Couplings world.Couplings `json:"couplings" yaml:"couplings"`
}

// Boundaries holds the tuning for B0, B1 and B2.
type Boundaries struct {
	B0 LevelTuning `json:"b0" yaml:"b0"`
	B1 LevelTuning `json:"b1" yaml:"b1"`
	B2 LevelTuning `json:"b2" yaml:"b2"`
}

// Level returns the tuning for level index 0..2.
func (b Boundaries) Level(i int) LevelTuning {
	switch i {
	case 0:
		return b.B0
	case 1:
		return b.B1
	case 2:
		return b.B2
	}
	panic(fmt.Sprintf("config: boundary level %d out of range", i))
}

// Default returns the baseline tuning.
func Default() Config {
	return Config{
		AlphaQ:  0.1,
		BetaR:   0.01,
		Epsilon: 0.1,

		ShapleyPerms:    16,
		PowerUpdateFreq: 10,

		WSurplus:  0.3,
		WSafety:   0.25,
		WTrust:    0.2,
		WCapacity: 0.15,
		WDemand:   0.1,

		ExtractionPenalty: 10,
		FrictionPenalty:   0.1,

		Seed:  42,
		Ticks: 1000,

		Boundaries: Boundaries{
			// Network-only view: externalities ignored.
			B0: LevelTuning{Friction: 0, Safety: 1.0},
			// Local externalities: congestion and safety spillovers.
			B1: LevelTuning{Friction: 0.1, Safety: 0.8, Couplings: world.Couplings{
				CongestionToCapacity: 0.005,
				SafetyToTrust:        0.01,
			}},
			// Regional effects.
			B2: LevelTuning{Friction: 0.2, Safety: 0.6, Couplings: world.Couplings{
				CongestionToCapacity: 0.01,
				SafetyToTrust:        0.02,
			}},
		},
	}
}

// Load reads a YAML file and overlays it on Default. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every tunable lies in a usable range. NaN and ±Inf
// are rejected in every float field, including the boundary tuning.
func (c Config) Validate() error {
	for _, f := range c.floatFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, f.name, f.value)
		}
	}

	switch {
	case c.AlphaQ <= 0 || c.AlphaQ > 1:
		return fmt.Errorf("%w: alpha_q %v not in (0,1]", ErrInvalidConfig, c.AlphaQ)
	case c.BetaR <= 0 || c.BetaR > 1:
		return fmt.Errorf("%w: beta_r %v not in (0,1]", ErrInvalidConfig, c.BetaR)
	case c.Epsilon < 0 || c.Epsilon > 1:
		return fmt.Errorf("%w: epsilon %v not in [0,1]", ErrInvalidConfig, c.Epsilon)
	case c.ShapleyPerms < 1:
		return fmt.Errorf("%w: shapley_perms must be positive", ErrInvalidConfig)
	case c.PowerUpdateFreq < 1:
		return fmt.Errorf("%w: power_update_freq must be positive", ErrInvalidConfig)
	case c.Ticks < 0:
		return fmt.Errorf("%w: ticks must not be negative", ErrInvalidConfig)
	}
	return nil
}

type namedFloat struct {
	name  string
	value float64
}

func (c Config) floatFields() []namedFloat {
	fields := []namedFloat{
		{"alpha_q", c.AlphaQ},
		{"beta_r", c.BetaR},
		{"epsilon", c.Epsilon},
		{"w_surplus", c.WSurplus},
		{"w_safety", c.WSafety},
		{"w_trust", c.WTrust},
		{"w_capacity", c.WCapacity},
		{"w_demand", c.WDemand},
		{"extraction_penalty", c.ExtractionPenalty},
		{"friction_penalty", c.FrictionPenalty},
	}
	for i, name := range []string{"b0", "b1", "b2"} {
		t := c.Boundaries.Level(i)
		fields = append(fields,
			namedFloat{"boundaries." + name + ".friction", t.Friction},
			namedFloat{"boundaries." + name + ".safety", t.Safety},
			namedFloat{"boundaries." + name + ".couplings.congestion_to_capacity", t.Couplings.CongestionToCapacity},
			namedFloat{"boundaries." + name + ".couplings.safety_to_trust", t.Couplings.SafetyToTrust},
		)
	}
	return fields
}
