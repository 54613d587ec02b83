package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talgya/predictive-agency/internal/agents"
)

func TestPresetsValid(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Name = %q, want %q", s.Name, name)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if s.Population() != 200 {
				t.Errorf("Population = %d, want 200", s.Population())
			}
		})
	}
}

func TestNames(t *testing.T) {
	if diff := cmp.Diff([]string{"open-rails", "token-rideshare"}, Names()); diff != "" {
		t.Errorf("Names mismatch:\n%s", diff)
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	s, _ := Lookup("open-rails")
	s.Groups[0].Count = 999
	again, _ := Lookup("open-rails")
	if again.Groups[0].Count == 999 {
		t.Error("Lookup exposed the preset table")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("nonexistent"); !errors.Is(err, ErrUnknownScenario) {
		t.Fatalf("err = %v, want ErrUnknownScenario", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	body := `
name: tiny
title: Tiny market
groups:
  - type: platform
    count: 1
    take_rate: 0.2
    service_level: 0.5
  - type: driver
    count: 3
    take_rate: 0.05
    service_level: 0.9
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Scenario{
		Name:  "tiny",
		Title: "Tiny market",
		Groups: []agents.Group{
			{Type: agents.TypePlatform, Count: 1, TakeRate: 0.2, ServiceLevel: 0.5},
			{Type: agents.TypeDriver, Count: 3, TakeRate: 0.05, ServiceLevel: 0.9},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	got, err := Resolve(path)
	if err != nil || got.Name != "tiny" {
		t.Errorf("Resolve(path) = %+v, %v", got, err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name  string
		group agents.Group
	}{
		{"unknown type", agents.Group{Type: "pirate", Count: 1}},
		{"negative count", agents.Group{Type: agents.TypeDriver, Count: -1}},
		{"take rate too high", agents.Group{Type: agents.TypeDriver, Count: 1, TakeRate: 0.6}},
		{"service too high", agents.Group{Type: agents.TypeDriver, Count: 1, ServiceLevel: 1.5}},
		{"empty roster", agents.Group{Type: agents.TypeDriver, Count: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Scenario{Name: "x", Groups: []agents.Group{tc.group}}
			if err := s.Validate(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Validate = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	if s, err := Resolve("token-rideshare"); err != nil || s.Name != "token-rideshare" {
		t.Errorf("Resolve preset = %+v, %v", s, err)
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Resolve missing = %v, want ErrUnknownScenario", err)
	}
}
