package models

import (
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
)

// PresetsResponse lists the roster and scenario presets.
type PresetsResponse struct {
	Rosters   map[string][]model.RosterSlot `json:"rosters"`
	Scenarios map[string]scenario.Params    `json:"scenarios"`
}

// PlayersResponse is the built market, best first.
type PlayersResponse struct {
	Count   int              `json:"count"`
	Players []model.Player   `json:"players"`
	Report  *data.LoadReport `json:"report,omitempty"`
}

// OptimizerInfo describes an optimizer and its parameters
type OptimizerInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes an optimizer parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "int", "float", "string"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// OptimizeResponse wraps a roster assignment with the layout it fills.
type OptimizeResponse struct {
	Assignment *model.RosterAssignment `json:"assignment"`
	Slots      []model.RosterSlot      `json:"slots"`
}

// ScenarioResponse is a scenario batch. Scenarios is only set when the
// request asked for them or the batch is fetched by id.
type ScenarioResponse struct {
	ID        string           `json:"id"`
	Seed      uint64           `json:"seed"`
	Optimizer string           `json:"optimizer"`
	Params    scenario.Params  `json:"params"`
	Summary   scenario.Summary `json:"summary"`
	Scenarios []model.Scenario `json:"scenarios,omitempty"`
}

// NewScenarioResponse builds the response for a stored result.
func NewScenarioResponse(id string, res *scenario.Result, withScenarios bool) ScenarioResponse {
	out := ScenarioResponse{
		ID:        id,
		Seed:      res.Seed,
		Optimizer: res.Optimizer,
		Params:    res.Params,
		Summary:   res.Summary,
	}
	if withScenarios {
		out.Scenarios = res.Scenarios
	}
	return out
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
