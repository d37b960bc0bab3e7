package model

// Scenario is one perturbed optimizer run. Scenarios are immutable once
// collected.
type Scenario struct {
	Index      int               `json:"index"`
	// Seed and Stream are the PCG source the scenario drew from;
	// rand.NewPCG(Seed, Stream) replays it.
	Seed       uint64            `json:"seed"`
	Stream     uint64            `json:"stream"`
	Assignment *RosterAssignment `json:"assignment"`
	// BaseValue re-scores the chosen players with their unperturbed
	// consensus values.
	BaseValue float64 `json:"base_value"`
}
