// Package scenario provides roster descriptions: the built-in presets and
// YAML-defined scenarios.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/talgya/predictive-agency/internal/agents"
)

var (
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrInvalidScenario = errors.New("invalid scenario")
)

// Scenario is a named, ordered list of agent groups.
type Scenario struct {
	Name   string         `yaml:"name"`
	Title  string         `yaml:"title"`
	Groups []agents.Group `yaml:"groups"`
}

// Population returns the total number of agents the scenario spawns.
func (s Scenario) Population() int {
	n := 0
	for _, g := range s.Groups {
		n += g.Count
	}
	return n
}

// Validate checks agent types and parameter ranges.
func (s Scenario) Validate() error {
	for i, g := range s.Groups {
		if _, err := agents.ParseAgentType(string(g.Type)); err != nil {
			return fmt.Errorf("%w: group %d: %v", ErrInvalidScenario, i, err)
		}
		if g.Count < 0 {
			return fmt.Errorf("%w: group %d: negative count %d", ErrInvalidScenario, i, g.Count)
		}
		if g.TakeRate < 0 || g.TakeRate > 0.5 {
			return fmt.Errorf("%w: group %d: take_rate %v not in [0,0.5]", ErrInvalidScenario, i, g.TakeRate)
		}
		if g.ServiceLevel < 0 || g.ServiceLevel > 1 {
			return fmt.Errorf("%w: group %d: service_level %v not in [0,1]", ErrInvalidScenario, i, g.ServiceLevel)
		}
	}
	if s.Population() == 0 {
		return fmt.Errorf("%w: %q spawns no agents", ErrInvalidScenario, s.Name)
	}
	return nil
}

var presets = map[string]Scenario{
	"token-rideshare": {
		Name:  "token-rideshare",
		Title: "Token Rideshare (High Extraction)",
		Groups: []agents.Group{
			{Type: agents.TypePlatform, Count: 5, TakeRate: 0.25, ServiceLevel: 0.6},
			{Type: agents.TypeDriver, Count: 150, TakeRate: 0.05, ServiceLevel: 0.8},
			{Type: agents.TypeInvestor, Count: 30, TakeRate: 0.15, ServiceLevel: 0.3},
			{Type: agents.TypeRegulator, Count: 15, TakeRate: 0.0, ServiceLevel: 0.9},
		},
	},
	"open-rails": {
		Name:  "open-rails",
		Title: "Open Rails (Low Extraction)",
		Groups: []agents.Group{
			{Type: agents.TypePlatform, Count: 5, TakeRate: 0.02, ServiceLevel: 0.85},
			{Type: agents.TypeDriver, Count: 150, TakeRate: 0.01, ServiceLevel: 0.9},
			{Type: agents.TypeInvestor, Count: 30, TakeRate: 0.03, ServiceLevel: 0.7},
			{Type: agents.TypeRegulator, Count: 15, TakeRate: 0.0, ServiceLevel: 0.95},
		},
	},
}

// Names lists the built-in presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of a built-in preset.
func Lookup(name string) (Scenario, error) {
	s, ok := presets[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
	}
	s.Groups = append([]agents.Group(nil), s.Groups...)
	return s, nil
}

// Load reads a scenario from a YAML file.
func Load(path string) (Scenario, error) {
	var s Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read scenario: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Resolve treats ref as a preset name first and a file path otherwise.
func Resolve(ref string) (Scenario, error) {
	if s, err := Lookup(ref); err == nil {
		return s, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return Scenario{}, fmt.Errorf("%w: %q is neither a preset nor a readable file", ErrUnknownScenario, ref)
	}
	return Load(ref)
}
