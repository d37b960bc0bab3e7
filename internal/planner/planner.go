package planner

import (
	"context"
	"sync"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/market"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/metrics"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/optimizer"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/rs/zerolog"
)

// Request overrides the configured optimizer, budget and roster for one
// run. Zero fields fall back to the config.
type Request struct {
	Optimizer string             `json:"optimizer,omitempty"`
	Params    map[string]any     `json:"params,omitempty"`
	Budget    float64            `json:"budget,omitempty"`
	Preset    string             `json:"preset,omitempty"`
	Slots     []model.RosterSlot `json:"slots,omitempty"`
}

// Planner runs load -> market -> optimize -> scenarios for one config. The
// built market is cached, so the HTTP and MCP servers share one load.
type Planner struct {
	cfg *config.Config
	log zerolog.Logger

	mu      sync.Mutex
	players []model.Player
	report  *data.LoadReport
}

func New(cfg *config.Config, log zerolog.Logger) *Planner {
	return &Planner{cfg: cfg, log: log}
}

// Config returns the planner's configuration.
func (p *Planner) Config() *config.Config { return p.cfg }

// Market returns the built market, loading inputs on first use.
func (p *Planner) Market() ([]model.Player, *data.LoadReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.players != nil {
		return p.players, p.report, nil
	}

	opts, err := p.cfg.LoadOptions()
	if err != nil {
		return nil, nil, err
	}
	table, rep, err := data.NewLoader(opts, p.log).Load()
	if err != nil {
		return nil, nil, err
	}
	for _, issue := range rep.Unresolved {
		metrics.UnresolvedRows.WithLabelValues(string(issue.Kind)).Inc()
	}
	players, err := p.BuildMarket(table.Players())
	if err != nil {
		return nil, nil, err
	}
	p.players, p.report = players, rep
	return players, rep, nil
}

// Reset drops the cached market so the next call reloads inputs.
func (p *Planner) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.players, p.report = nil, nil
}

// BuildMarket prices players with the configured market parameters.
func (p *Planner) BuildMarket(players []model.Player) ([]model.Player, error) {
	b, err := market.NewBuilder(p.cfg.MarketParams(), p.log)
	if err != nil {
		return nil, err
	}
	out, err := b.Build(players)
	if err != nil {
		return nil, err
	}
	metrics.MarketPlayers.Set(float64(len(out)))
	return out, nil
}

// Resolve applies req over the config.
func (p *Planner) Resolve(req Request) (optimizer.Optimizer, float64, []model.RosterSlot, error) {
	name, params := p.cfg.Optimizer.Name, p.cfg.Optimizer.Params
	if req.Optimizer != "" {
		name, params = req.Optimizer, req.Params
	} else if req.Params != nil {
		params = req.Params
	}
	opt, err := optimizer.New(name, params)
	if err != nil {
		return nil, 0, nil, err
	}

	budget := p.cfg.BudgetValue()
	if req.Budget != 0 {
		budget = req.Budget
	}

	var slots []model.RosterSlot
	switch {
	case len(req.Slots) > 0:
		slots = model.NormalizeSlots(req.Slots)
		err = model.ValidateSlots(slots)
	case req.Preset != "":
		slots, err = model.Preset(req.Preset)
	default:
		slots, err = p.cfg.Slots()
	}
	if err != nil {
		return nil, 0, nil, err
	}
	return opt, budget, slots, nil
}

// Optimize picks a roster from players.
func (p *Planner) Optimize(players []model.Player, req Request) (*model.RosterAssignment, error) {
	opt, budget, slots, err := p.Resolve(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	a, err := opt.Optimize(players, budget, slots)
	metrics.ObserveOptimize(opt.Name(), start, err)
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("optimizer", opt.Name()).Float64("value", a.TotalValue).
		Float64("spent", a.Spent).Float64("budget", budget).Msg("roster optimized")
	return a, nil
}

// Scenarios runs a scenario batch. params overrides the configured scenario
// section when non-nil.
func (p *Planner) Scenarios(ctx context.Context, players []model.Player, req Request, params *scenario.Params) (*scenario.Result, error) {
	opt, budget, slots, err := p.Resolve(req)
	if err != nil {
		return nil, err
	}
	sp := p.cfg.ScenarioParams()
	if params != nil {
		sp = *params
		sp.DefaultRisk = p.cfg.Market.DefaultRisk
	}
	r, err := scenario.NewRunner(opt, sp, p.log)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx, players, budget, slots)
	metrics.ScenarioBatchesTotal.WithLabelValues(string(r.Params().Mode), metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	metrics.ScenariosTotal.Add(float64(len(res.Scenarios)))
	return res, nil
}
