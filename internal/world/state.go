// Package world holds the shared ecosystem state and the resource-flow
// dynamics that move it forward one tick at a time.
package world

// Bounds for the state scalars. Demand relaxes inside a narrower band.
const (
	MinLevel  = 0.0
	MaxLevel  = 100.0
	MinDemand = 20.0
	MaxDemand = 80.0
)

// GlobalState is the aggregate condition of the ecosystem.
type GlobalState struct {
	Demand     float64 `json:"demand" yaml:"demand"`         // Resource availability
	Capacity   float64 `json:"capacity" yaml:"capacity"`     // System throughput
	Safety     float64 `json:"safety" yaml:"safety"`         // Risk/resilience
	Surplus    float64 `json:"surplus" yaml:"surplus"`       // Distributed wealth
	Trust      float64 `json:"trust" yaml:"trust"`           // Social capital
	Congestion float64 `json:"congestion" yaml:"congestion"` // Friction/waste
}

// InitialState is the condition every simulation starts from.
func InitialState() GlobalState {
	return GlobalState{
		Demand:     60,
		Capacity:   50,
		Safety:     70,
		Surplus:    55,
		Trust:      60,
		Congestion: 25,
	}
}

// InBounds reports whether every scalar sits inside its allowed range.
func (s GlobalState) InBounds() bool {
	for _, v := range []float64{s.Capacity, s.Safety, s.Surplus, s.Trust, s.Congestion} {
		if v < MinLevel || v > MaxLevel {
			return false
		}
	}
	return s.Demand >= MinDemand && s.Demand <= MaxDemand
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampLevel(v float64) float64 {
	return Clamp(v, MinLevel, MaxLevel)
}
