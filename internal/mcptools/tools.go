// Package mcptools exposes the planner as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/market"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// MaxScenarios bounds one tool call.
const MaxScenarios = 2000

type ListPresetsArgs struct{}

type MarketTopArgs struct {
	Position string `json:"position,omitempty" jsonschema:"QB, RB, WR, TE, K or DST (empty = all)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Number of players (default 25)"`
}

type OptimizeArgs struct {
	Optimizer string         `json:"optimizer,omitempty" jsonschema:"greedy or knapsack (default from config)"`
	Params    map[string]any `json:"params,omitempty" jsonschema:"Optimizer parameters, e.g. max_cells"`
	Budget    float64        `json:"budget,omitempty" jsonschema:"Auction budget (default from config)"`
	Roster    string         `json:"roster,omitempty" jsonschema:"Roster preset name (default from config)"`
}

type ScenarioArgs struct {
	Optimizer      string  `json:"optimizer,omitempty" jsonschema:"greedy or knapsack (default from config)"`
	Budget         float64 `json:"budget,omitempty" jsonschema:"Auction budget (default from config)"`
	Roster         string  `json:"roster,omitempty" jsonschema:"Roster preset name (default from config)"`
	Preset         string  `json:"preset,omitempty" jsonschema:"Scenario preset: calm, standard or volatile"`
	NumScenarios   int     `json:"num_scenarios,omitempty" jsonschema:"Number of scenarios"`
	Stddev         float64 `json:"value_jitter_stddev,omitempty" jsonschema:"Relative stddev of value noise"`
	Mode           string  `json:"risk_sampling_mode,omitempty" jsonschema:"uniform, scaled or bust"`
	Seed           *uint64 `json:"seed,omitempty" jsonschema:"Seed for reproducible batches"`
	TopFrequencies int     `json:"top_frequencies,omitempty" jsonschema:"Players listed in the frequency table (default 20)"`
}

// Tools holds the planner behind every tool.
type Tools struct {
	planner *planner.Planner
	log     zerolog.Logger
}

func New(p *planner.Planner, log zerolog.Logger) *Tools {
	return &Tools{planner: p, log: log}
}

// NewServer registers every tool on a fresh MCP server.
func (t *Tools) NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "ffbo-mcp", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_presets",
		Description: "Roster layouts and scenario presets",
	}, t.ListPresets)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "market_top",
		Description: "Top players by consensus value with auction prices",
	}, t.MarketTop)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "optimize_roster",
		Description: "Best roster for a budget and roster layout",
	}, t.OptimizeRoster)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_scenarios",
		Description: "Re-optimize under perturbed player values and summarize outcomes",
	}, t.RunScenarios)
	return server
}

func (t *Tools) ListPresets(ctx context.Context, req *mcp.CallToolRequest, args ListPresetsArgs) (*mcp.CallToolResult, any, error) {
	scenarios := map[string]scenario.Params{}
	for _, name := range scenario.PresetNames() {
		p, err := scenario.Preset(name)
		if err != nil {
			return toolError(err), nil, nil
		}
		scenarios[name] = p
	}
	return toolJSON(map[string]any{"rosters": model.Presets(), "scenarios": scenarios})
}

func (t *Tools) MarketTop(ctx context.Context, req *mcp.CallToolRequest, args MarketTopArgs) (*mcp.CallToolResult, any, error) {
	var pos model.Position
	if args.Position != "" {
		p, ok := model.ParsePosition(args.Position)
		if !ok {
			return toolError(goerr.Wrap(model.ErrInvalidValue, "unknown position", goerr.V(model.PositionKey, args.Position))), nil, nil
		}
		pos = p
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 25
	}
	players, _, err := t.planner.Market()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(market.Top(players, pos, limit))
}

func (t *Tools) OptimizeRoster(ctx context.Context, req *mcp.CallToolRequest, args OptimizeArgs) (*mcp.CallToolResult, any, error) {
	players, _, err := t.planner.Market()
	if err != nil {
		return toolError(err), nil, nil
	}
	a, err := t.planner.Optimize(players, planner.Request{
		Optimizer: args.Optimizer,
		Params:    args.Params,
		Budget:    args.Budget,
		Preset:    args.Roster,
	})
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(a)
}

func (t *Tools) RunScenarios(ctx context.Context, req *mcp.CallToolRequest, args ScenarioArgs) (*mcp.CallToolResult, any, error) {
	if args.NumScenarios > MaxScenarios {
		return toolError(goerr.Wrap(model.ErrInvalidValue, "too many scenarios",
			goerr.V("num_scenarios", args.NumScenarios), goerr.V("max", MaxScenarios))), nil, nil
	}
	players, _, err := t.planner.Market()
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := t.planner.Scenarios(ctx, players, planner.Request{
		Optimizer: args.Optimizer,
		Budget:    args.Budget,
		Preset:    args.Roster,
	}, t.scenarioParams(args))
	if err != nil {
		return toolError(err), nil, nil
	}

	top := args.TopFrequencies
	if top <= 0 {
		top = 20
	}
	freq := res.Summary.Frequency
	if len(freq) > top {
		freq = freq[:top]
	}
	return toolJSON(map[string]any{
		"seed":             res.Seed,
		"optimizer":        res.Optimizer,
		"params":           res.Params,
		"num_scenarios":    len(res.Scenarios),
		"total_value":      res.Summary.TotalValue,
		"mean_base_value":  res.Summary.MeanBaseValue,
		"mean_spent":       res.Summary.MeanSpent,
		"player_frequency": freq,
	})
}

// scenarioParams layers args over the configured scenario section. A named
// preset replaces the configured section instead.
func (t *Tools) scenarioParams(args ScenarioArgs) *scenario.Params {
	p := t.planner.Config().ScenarioParams()
	if args.Preset != "" {
		p = scenario.Params{Preset: args.Preset, Parallelism: p.Parallelism}
	}
	if args.NumScenarios > 0 {
		p.NumScenarios = args.NumScenarios
	}
	if args.Stddev > 0 {
		p.Stddev = args.Stddev
	}
	if args.Mode != "" {
		p.Mode = scenario.Mode(args.Mode)
	}
	if args.Seed != nil {
		p.Seed = args.Seed
	}
	return &p
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
