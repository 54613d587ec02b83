package agents

// Spawner issues agents with sequential IDs.
type Spawner struct {
	nextID AgentID
}

// NewSpawner creates a spawner whose first agent gets ID 0.
func NewSpawner() *Spawner {
	return &Spawner{}
}

// SpawnGroup creates count agents of one archetype sharing the same
// preference anchor.
func (s *Spawner) SpawnGroup(typ AgentType, count int, takeRate, serviceLevel float64) []*Agent {
	if count <= 0 {
		return nil
	}
	group := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		group = append(group, New(s.nextID, typ, takeRate, serviceLevel))
		s.nextID++
	}
	return group
}

// TotalEnergy sums energy across the roster.
func TotalEnergy(roster []*Agent) float64 {
	total := 0.0
	for _, a := range roster {
		total += a.Local.Energy
	}
	return total
}

// MeanAgency averages the agency metric across the roster.
func MeanAgency(roster []*Agent) float64 {
	if len(roster) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range roster {
		sum += a.Agency
	}
	return sum / float64(len(roster))
}

// Group describes a block of identical agents in a roster.
type Group struct {
	Type         AgentType `json:"type" yaml:"type"`
	Count        int       `json:"count" yaml:"count"`
	TakeRate     float64   `json:"take_rate" yaml:"take_rate"`
	ServiceLevel float64   `json:"service_level" yaml:"service_level"`
}

// Spawn creates the full roster for groups in order.
func (s *Spawner) Spawn(groups []Group) []*Agent {
	var roster []*Agent
	for _, g := range groups {
		roster = append(roster, s.SpawnGroup(g.Type, g.Count, g.TakeRate, g.ServiceLevel)...)
	}
	return roster
}
