package world

// Resource-flow coefficients.
const (
	ServiceYield   = 4.0  // surplus generated per unit of mean service
	ExtractionDrag = 10.0 // surplus removed per unit of mean take rate
	BaseUpkeep     = 1.0

	DemandTarget     = 60.0
	DemandRelaxation = 0.015
)

// Couplings are the boundary-dependent externality links applied after the
// primary flow update.
type Couplings struct {
	CongestionToCapacity float64 `json:"congestion_to_capacity" yaml:"congestion_to_capacity"`
	SafetyToTrust        float64 `json:"safety_to_trust" yaml:"safety_to_trust"`
}

// NetFlow is the per-tick resource balance for an action vector.
func NetFlow(actions []Action) float64 {
	avgTake, avgService := Means(actions)
	return avgService*ServiceYield - avgTake*ExtractionDrag - BaseUpkeep
}

// Transition advances s in place by one tick. Order matters: primary branch
// update, then boundary coupling, then demand relaxation.
func Transition(s *GlobalState, actions []Action, c Couplings) {
	flow := NetFlow(actions)

	s.Surplus = clampLevel(s.Surplus + flow)

	if flow > 0 {
		// Regenerative: surplus is reinvested in system health.
		s.Trust = clampLevel(s.Trust + flow*0.2)
		s.Safety = clampLevel(s.Safety + flow*0.2)
		s.Capacity = clampLevel(s.Capacity + flow*0.1)
		s.Congestion = clampLevel(s.Congestion - flow*0.5)
	} else {
		// Extractive: degradation outpaces growth.
		s.Trust = clampLevel(s.Trust + flow*0.5)
		s.Safety = clampLevel(s.Safety + flow*0.5)
		s.Capacity = clampLevel(s.Capacity + flow*0.2)
		s.Congestion = clampLevel(s.Congestion - flow*1.0)
	}

	s.Capacity = clampLevel(s.Capacity - s.Congestion*c.CongestionToCapacity)
	s.Trust = clampLevel(s.Trust + (s.Safety-50)*c.SafetyToTrust)

	s.Demand = Clamp(s.Demand+(DemandTarget-s.Surplus)*DemandRelaxation, MinDemand, MaxDemand)
}
