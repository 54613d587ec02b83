package world

// Action is one agent's choice for a tick.
type Action struct {
	TakeRate     float64 `json:"take_rate"`     // τ ∈ [0, 0.5]
	ServiceLevel float64 `json:"service_level"` // effort ∈ [0, 1]
	Openness     float64 `json:"openness"`      // collaboration ∈ [0, 1]
}

// ZeroAction is the counterfactual "absent" action used for agency.
var ZeroAction = Action{}

// Means returns the average take rate and service level over actions.
// The caller guarantees a non-empty slice.
func Means(actions []Action) (avgTakeRate, avgService float64) {
	if len(actions) == 0 {
		panic("world: mean of empty action vector")
	}
	for _, a := range actions {
		avgTakeRate += a.TakeRate
		avgService += a.ServiceLevel
	}
	n := float64(len(actions))
	return avgTakeRate / n, avgService / n
}
