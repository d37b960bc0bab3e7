package models

import (
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
)

// OptimizeRequest is the body of POST /api/v1/optimize. Every field is
// optional and falls back to the server config.
type OptimizeRequest struct {
	Optimizer string             `json:"optimizer,omitempty"`
	Params    map[string]any     `json:"params,omitempty"`
	Budget    float64            `json:"budget,omitempty"`
	Preset    string             `json:"preset,omitempty"` // roster preset, e.g. "superflex"
	Slots     []model.RosterSlot `json:"slots,omitempty"`  // wins over preset
}

// Planner converts the request for the planner.
func (r OptimizeRequest) Planner() planner.Request {
	return planner.Request{
		Optimizer: r.Optimizer,
		Params:    r.Params,
		Budget:    r.Budget,
		Preset:    r.Preset,
		Slots:     r.Slots,
	}
}

// ScenarioRequest is the body of POST /api/v1/scenarios.
type ScenarioRequest struct {
	OptimizeRequest
	Scenarios *scenario.Params `json:"scenarios,omitempty"`
	Options   ScenarioOptions  `json:"options,omitempty"`
}

// ScenarioOptions contains optional response settings
type ScenarioOptions struct {
	IncludeScenarios bool `json:"include_scenarios,omitempty"` // default: false
}

// PlayersQuery is the query of GET /api/v1/players.
type PlayersQuery struct {
	Position string `form:"position"`
	Limit    int    `form:"limit"`
}
