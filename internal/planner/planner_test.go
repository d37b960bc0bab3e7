package planner_test

import (
	"context"
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/m-mizutani/gt"
	"github.com/rs/zerolog"
)

func testConfig() *config.Config {
	c := config.Default()
	c.Data.Projections = []string{"testdata/projections.csv"}
	c.Data.Auction = "testdata/auction.csv"
	c.Data.ADP = "testdata/adp.csv"
	c.Roster.Preset = "two-qb"
	return c
}

func TestMarket(t *testing.T) {
	p := planner.New(testConfig(), zerolog.Nop())
	players, rep, err := p.Market()
	gt.NoError(t, err).Required()

	// 12 projected players plus the WR created from ADP.
	gt.Array(t, players).Length(13)
	gt.Array(t, rep.Unresolved).Length(1)
	gt.Value(t, rep.Unresolved[0].Name).Equal("Unknown Rookie")
	gt.Array(t, rep.Fuzzy).Length(1)

	for i := 1; i < len(players); i++ {
		gt.Bool(t, players[i-1].Consensus >= players[i].Consensus).True()
	}
	for _, pl := range players {
		gt.Number(t, pl.Price).GreaterOrEqual(1)
	}

	again, _, err := p.Market()
	gt.NoError(t, err).Required()
	gt.Bool(t, &again[0] == &players[0]).True()
}

func TestOptimizeAndScenarios(t *testing.T) {
	p := planner.New(testConfig(), zerolog.Nop())
	players, _, err := p.Market()
	gt.NoError(t, err).Required()

	for _, name := range []string{"greedy", "knapsack"} {
		t.Run(name, func(t *testing.T) {
			a, err := p.Optimize(players, planner.Request{Optimizer: name})
			gt.NoError(t, err).Required()
			slots, err := model.Preset("two-qb")
			gt.NoError(t, err).Required()
			gt.NoError(t, a.Validate(slots))
			gt.Value(t, a.Optimizer).Equal(name)
		})
	}

	seed := uint64(5)
	res, err := p.Scenarios(context.Background(), players, planner.Request{},
		&scenario.Params{NumScenarios: 10, Seed: &seed, Preset: "standard"})
	gt.NoError(t, err).Required()
	gt.Array(t, res.Scenarios).Length(10)
	gt.Number(t, res.Seed).Equal(5)
}

func TestResolveOverrides(t *testing.T) {
	p := planner.New(testConfig(), zerolog.Nop())

	opt, budget, slots, err := p.Resolve(planner.Request{})
	gt.NoError(t, err).Required()
	gt.Value(t, opt.Name()).Equal("greedy")
	gt.Number(t, budget).Equal(200)
	gt.Number(t, model.SeatCount(slots)).Equal(7)

	_, budget, slots, err = p.Resolve(planner.Request{Budget: 150, Preset: "superflex"})
	gt.NoError(t, err).Required()
	gt.Number(t, budget).Equal(150)
	gt.Value(t, slots[len(slots)-1].Name).Equal("SUPERFLEX")

	_, _, slots, err = p.Resolve(planner.Request{Slots: []model.RosterSlot{{Name: "TE", Count: 1, Eligible: []model.Position{"te"}}}})
	gt.NoError(t, err).Required()
	gt.Value(t, slots[0].Eligible).Equal([]model.Position{model.PositionTE})

	_, _, _, err = p.Resolve(planner.Request{Optimizer: "simplex"})
	gt.Error(t, err).Is(model.ErrInvalidConfiguration)
}

func TestOptimizeInfeasibleBudget(t *testing.T) {
	p := planner.New(testConfig(), zerolog.Nop())
	players, _, err := p.Market()
	gt.NoError(t, err).Required()

	_, err = p.Optimize(players, planner.Request{Budget: 20})
	gt.Error(t, err).Is(model.ErrInfeasibleRoster)
}

func TestMarketMissingInputs(t *testing.T) {
	c := config.Default()
	_, _, err := planner.New(c, zerolog.Nop()).Market()
	gt.Error(t, err).Is(model.ErrInvalidConfiguration)
}
