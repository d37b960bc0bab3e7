package scenario

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/analysis"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/optimizer"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Summary aggregates a batch of scenarios.
type Summary struct {
	TotalValue    analysis.Summary     `json:"total_value"`
	MeanBaseValue float64              `json:"mean_base_value"`
	MeanSpent     float64              `json:"mean_spent"`
	Frequency     []analysis.Frequency `json:"player_frequency"`
}

// Result is a completed batch. Scenarios are ordered by index.
type Result struct {
	Seed      uint64           `json:"seed"`
	Params    Params           `json:"params"`
	Optimizer string           `json:"optimizer"`
	Scenarios []model.Scenario `json:"scenarios"`
	Summary   Summary          `json:"summary"`
}

// Runner re-optimizes the roster under perturbed player values.
type Runner struct {
	opt    optimizer.Optimizer
	params Params
	log    zerolog.Logger
}

// NewRunner resolves presets and defaults and validates params.
func NewRunner(opt optimizer.Optimizer, params Params, log zerolog.Logger) (*Runner, error) {
	if opt == nil {
		return nil, goerr.Wrap(model.ErrInvalidConfiguration, "optimizer is nil")
	}
	resolved, err := params.Resolve()
	if err != nil {
		return nil, err
	}
	return &Runner{opt: opt, params: resolved, log: log}, nil
}

// Params returns the resolved parameters.
func (r *Runner) Params() Params { return r.params }

// Run executes every scenario and summarizes them. Scenario i draws from its
// own PCG stream seeded with (seed, i), so results do not depend on
// scheduling.
func (r *Runner) Run(ctx context.Context, players []model.Player, budget float64, slots []model.RosterSlot) (*Result, error) {
	p := r.params
	seed := uint64(time.Now().UnixNano())
	if p.Seed != nil {
		seed = *p.Seed
	}
	p.Seed = &seed

	base := make(map[string]float64, len(players))
	for _, pl := range players {
		base[pl.ID] = pl.Consensus
	}

	r.log.Info().Int("scenarios", p.NumScenarios).Uint64("seed", seed).
		Str("mode", string(p.Mode)).Int("parallelism", p.Parallelism).Msg("running scenarios")

	out := make([]model.Scenario, p.NumScenarios)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Parallelism)
	for i := 0; i < p.NumScenarios; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stream := uint64(i)
			rng := rand.New(rand.NewPCG(seed, stream))
			perturbed := Perturb(players, p, rng)
			a, err := r.opt.Optimize(perturbed, budget, slots)
			if err != nil {
				return goerr.Wrap(err, "scenario failed", goerr.V("scenario", i))
			}
			bv := 0.0
			for _, pk := range a.Picks {
				bv += base[pk.Player.ID]
			}
			out[i] = model.Scenario{Index: i, Seed: seed, Stream: stream, Assignment: a, BaseValue: bv}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "scenario run cancelled")
	}

	res := &Result{
		Seed:      seed,
		Params:    p,
		Optimizer: r.opt.Name(),
		Scenarios: out,
		Summary:   Summarize(out, players),
	}
	r.log.Info().Float64("mean", res.Summary.TotalValue.Mean).Float64("p05", res.Summary.TotalValue.P05).
		Float64("p95", res.Summary.TotalValue.P95).Msg("scenarios complete")
	return res, nil
}

// Perturb returns jittered copies of players. Each player consumes random
// numbers in input order; prices are left alone.
func Perturb(players []model.Player, p Params, rng *rand.Rand) []model.Player {
	out := make([]model.Player, len(players))
	for i, pl := range players {
		c := pl.Clone()
		risk := c.RiskOr(p.DefaultRisk)
		sigma := p.Stddev
		if p.Mode != ModeUniform {
			sigma *= risk
		}
		v := math.Max(0, c.Consensus*(1+sigma*rng.NormFloat64()))
		if p.Mode == ModeBust && rng.Float64() < risk {
			v *= p.BustFactor
		}
		c.Consensus = v
		out[i] = c
	}
	return out
}

// Summarize computes value statistics and how often each player was picked.
func Summarize(scenarios []model.Scenario, players []model.Player) Summary {
	labels := make(map[string][2]string, len(players))
	for _, pl := range players {
		labels[pl.ID] = [2]string{pl.Name, string(pl.Position)}
	}
	totals := make([]float64, 0, len(scenarios))
	bases := make([]float64, 0, len(scenarios))
	spent := make([]float64, 0, len(scenarios))
	counts := map[string]int{}
	for _, s := range scenarios {
		if s.Assignment == nil {
			continue
		}
		totals = append(totals, s.Assignment.TotalValue)
		bases = append(bases, s.BaseValue)
		spent = append(spent, s.Assignment.Spent)
		for _, id := range s.Assignment.PlayerIDs() {
			counts[id]++
		}
	}
	return Summary{
		TotalValue:    analysis.Summarize(totals),
		MeanBaseValue: analysis.Mean(bases),
		MeanSpent:     analysis.Mean(spent),
		Frequency:     analysis.RankFrequency(counts, len(totals), labels),
	}
}
