package optimizer_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/optimizer"
	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/gt"
)

func player(id string, pos model.Position, value, price float64) model.Player {
	return model.Player{ID: id, Name: id, Position: pos, Consensus: value, Price: price}
}

func slot(name string, count int, eligible ...model.Position) model.RosterSlot {
	return model.RosterSlot{Name: name, Count: count, Eligible: eligible}
}

func all(t *testing.T) []optimizer.Optimizer {
	t.Helper()
	var out []optimizer.Optimizer
	for _, name := range optimizer.Names() {
		o, err := optimizer.New(name, nil)
		gt.NoError(t, err).Required()
		out = append(out, o)
	}
	return out
}

// twentyCandidates cycles QB/RB/WR/TE with falling value and price.
func twentyCandidates() []model.Player {
	positions := []model.Position{model.PositionQB, model.PositionRB, model.PositionWR, model.PositionTE}
	out := make([]model.Player, 20)
	for i := range out {
		id := string(positions[i%4]) + "-" + string(rune('a'+i))
		out[i] = player(id, positions[i%4], 100-4*float64(i)+float64(i%3)*1.5, math.Max(1, float64(60-3*i)))
	}
	return out
}

func TestTwoQBExample(t *testing.T) {
	slots, err := model.Preset("two-qb")
	gt.NoError(t, err).Required()
	players := twentyCandidates()

	for _, o := range all(t) {
		t.Run(o.Name(), func(t *testing.T) {
			a, err := o.Optimize(players, 200, slots)
			gt.NoError(t, err).Required()
			gt.NoError(t, a.Validate(slots))
			gt.Array(t, a.Picks).Length(7)
			gt.Bool(t, a.Spent <= 200).True()
			gt.Value(t, a.Optimizer).Equal(o.Name())
			gt.Bool(t, math.Abs(a.Remaining-(200-a.Spent)) < 1e-9).True()
		})
	}
}

func TestDeterministic(t *testing.T) {
	slots, err := model.Preset("two-qb")
	gt.NoError(t, err).Required()

	for _, o := range all(t) {
		t.Run(o.Name(), func(t *testing.T) {
			a, err := o.Optimize(twentyCandidates(), 200, slots)
			gt.NoError(t, err).Required()
			b, err := o.Optimize(twentyCandidates(), 200, slots)
			gt.NoError(t, err).Required()
			if diff := cmp.Diff(a, b); diff != "" {
				t.Errorf("assignments differ (-first +second):\n%s", diff)
			}
		})
	}
}

func TestDoesNotMutateInput(t *testing.T) {
	slots, err := model.Preset("two-qb")
	gt.NoError(t, err).Required()
	players := twentyCandidates()
	before := twentyCandidates()

	for _, o := range all(t) {
		_, err := o.Optimize(players, 200, slots)
		gt.NoError(t, err).Required()
		if diff := cmp.Diff(before, players); diff != "" {
			t.Errorf("%s modified players:\n%s", o.Name(), diff)
		}
	}
}

func TestInfeasible(t *testing.T) {
	slots := []model.RosterSlot{slot("QB", 2, model.PositionQB), slot("RB", 1, model.PositionRB)}
	tests := []struct {
		name    string
		players []model.Player
		budget  float64
	}{
		{
			name:    "not enough eligible players",
			players: []model.Player{player("qb", model.PositionQB, 10, 1), player("rb", model.PositionRB, 10, 1)},
			budget:  100,
		},
		{
			name: "cheapest roster over budget",
			players: []model.Player{
				player("qb1", model.PositionQB, 10, 20),
				player("qb2", model.PositionQB, 10, 30),
				player("rb", model.PositionRB, 10, 60),
			},
			budget: 100,
		},
	}
	for _, tt := range tests {
		for _, o := range all(t) {
			t.Run(tt.name+"/"+o.Name(), func(t *testing.T) {
				_, err := o.Optimize(tt.players, tt.budget, slots)
				gt.Error(t, err).Is(model.ErrInfeasibleRoster)
			})
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	players := []model.Player{player("qb", model.PositionQB, 10, 1)}
	good := []model.RosterSlot{slot("QB", 1, model.PositionQB)}
	tests := []struct {
		name   string
		budget float64
		slots  []model.RosterSlot
	}{
		{"zero budget", 0, good},
		{"negative budget", -5, good},
		{"no slots", 100, nil},
		{"zero count", 100, []model.RosterSlot{slot("QB", 0, model.PositionQB)}},
	}
	for _, tt := range tests {
		for _, o := range all(t) {
			t.Run(tt.name+"/"+o.Name(), func(t *testing.T) {
				_, err := o.Optimize(players, tt.budget, tt.slots)
				gt.Error(t, err).Is(model.ErrInvalidConfiguration)
			})
		}
	}
}

func TestEqualValuePrefersCheaper(t *testing.T) {
	slots := []model.RosterSlot{slot("RB", 1, model.PositionRB)}
	players := []model.Player{
		player("pricey", model.PositionRB, 50, 12),
		player("cheap", model.PositionRB, 50, 10),
	}
	for _, o := range all(t) {
		t.Run(o.Name(), func(t *testing.T) {
			a, err := o.Optimize(players, 100, slots)
			gt.NoError(t, err).Required()
			gt.Value(t, a.PlayerIDs()).Equal([]string{"cheap"})
			gt.Number(t, a.Spent).Equal(10)
		})
	}
}

func TestGreedyKeepsReserve(t *testing.T) {
	// Taking qb-star first would leave $2, too little for any RB.
	slots := []model.RosterSlot{slot("QB", 1, model.PositionQB), slot("RB", 1, model.PositionRB)}
	players := []model.Player{
		player("qb-star", model.PositionQB, 90, 8),
		player("qb-cheap", model.PositionQB, 10, 1),
		player("rb-mid", model.PositionRB, 12, 4),
		player("rb-cheap", model.PositionRB, 5, 3),
	}
	o, err := optimizer.New("greedy", nil)
	gt.NoError(t, err).Required()
	a, err := o.Optimize(players, 10, slots)
	gt.NoError(t, err).Required()
	gt.NoError(t, a.Validate(slots))
	gt.Value(t, a.PlayerIDs()).Equal([]string{"qb-cheap", "rb-mid"})
}

func TestGreedyBackfill(t *testing.T) {
	slots := []model.RosterSlot{slot("RB", 1, model.PositionRB), slot("WR", 1, model.PositionWR)}
	players := []model.Player{
		player("r1", model.PositionRB, 20, 2),
		player("r2", model.PositionRB, 60, 40),
		player("w1", model.PositionWR, 10, 1),
		player("w2", model.PositionWR, 30, 15),
	}

	full, err := optimizer.New("greedy", nil)
	gt.NoError(t, err).Required()
	a, err := full.Optimize(players, 60, slots)
	gt.NoError(t, err).Required()
	gt.Value(t, a.PlayerIDs()).Equal([]string{"r2", "w2"})
	gt.Number(t, a.TotalValue).Equal(90)
	gt.Number(t, a.Spent).Equal(55)

	capped, err := optimizer.New("greedy", map[string]any{"max_upgrades": 1})
	gt.NoError(t, err).Required()
	b, err := capped.Optimize(players, 60, slots)
	gt.NoError(t, err).Required()
	gt.Value(t, b.PlayerIDs()).Equal([]string{"r2", "w1"})
}

func TestKnapsackLimits(t *testing.T) {
	slots := []model.RosterSlot{slot("RB", 1, model.PositionRB)}

	small, err := optimizer.New("knapsack", map[string]any{"max_cells": 10.0})
	gt.NoError(t, err).Required()
	_, err = small.Optimize([]model.Player{player("r", model.PositionRB, 1, 1)}, 100, slots)
	gt.Error(t, err).Is(model.ErrInvalidConfiguration)

	k, err := optimizer.New("knapsack", nil)
	gt.NoError(t, err).Required()
	_, err = k.Optimize([]model.Player{player("r", model.PositionRB, 1, 1.5)}, 100, slots)
	gt.Error(t, err).Is(model.ErrInvalidConfiguration)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opt     string
		params  map[string]any
		want    string
		wantErr bool
	}{
		{name: "default", opt: "", want: "greedy"},
		{name: "knapsack", opt: "knapsack", params: map[string]any{"max_cells": int64(1000)}, want: "knapsack"},
		{name: "typo", opt: "gredy", wantErr: true},
		{name: "unknown param", opt: "greedy", params: map[string]any{"depth": 3}, wantErr: true},
		{name: "non-integer", opt: "greedy", params: map[string]any{"max_upgrades": 2.5}, wantErr: true},
		{name: "string", opt: "knapsack", params: map[string]any{"max_cells": "lots"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := optimizer.New(tt.opt, tt.params)
			if tt.wantErr {
				gt.Error(t, err).Is(model.ErrInvalidConfiguration)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, o.Name()).Equal(tt.want)
		})
	}
}

// bruteForce tries every way to seat distinct players and returns the best
// value within budget, or -1 when nothing fits.
func bruteForce(players []model.Player, slots []model.RosterSlot, budget float64) float64 {
	var seats []model.RosterSlot
	for _, s := range slots {
		for i := 0; i < s.Count; i++ {
			seats = append(seats, s)
		}
	}
	used := make([]bool, len(players))
	best := -1.0
	var rec func(seat int, cost, value float64, minIdx map[string]int)
	rec = func(seat int, cost, value float64, minIdx map[string]int) {
		if cost > budget+1e-9 {
			return
		}
		if seat == len(seats) {
			best = math.Max(best, value)
			return
		}
		s := seats[seat]
		// Seats of one slot are interchangeable; pick players in index order.
		for i := minIdx[s.Name]; i < len(players); i++ {
			if used[i] || !s.Accepts(players[i].Position) {
				continue
			}
			used[i] = true
			prev := minIdx[s.Name]
			minIdx[s.Name] = i + 1
			rec(seat+1, cost+players[i].Price, value+players[i].Consensus, minIdx)
			minIdx[s.Name] = prev
			used[i] = false
		}
	}
	rec(0, 0, 0, map[string]int{})
	return best
}

func TestRandomInstances(t *testing.T) {
	slots := []model.RosterSlot{
		slot("QB", 1, model.PositionQB),
		slot("RB", 2, model.PositionRB),
		slot("FLEX", 1, model.PositionRB, model.PositionWR),
	}
	positions := []model.Position{model.PositionQB, model.PositionRB, model.PositionWR}
	rng := rand.New(rand.NewPCG(7, 11))

	greedy, err := optimizer.New("greedy", nil)
	gt.NoError(t, err).Required()
	knapsack, err := optimizer.New("knapsack", nil)
	gt.NoError(t, err).Required()

	for n := 0; n < 60; n++ {
		players := make([]model.Player, 10)
		for i := range players {
			players[i] = player(
				string(rune('a'+i)),
				positions[rng.IntN(len(positions))],
				math.Round(rng.Float64()*1000)/10,
				float64(1+rng.IntN(30)),
			)
		}
		budget := float64(20 + rng.IntN(60))
		want := bruteForce(players, slots, budget)

		ka, kerr := knapsack.Optimize(players, budget, slots)
		ga, gerr := greedy.Optimize(players, budget, slots)
		if want < 0 {
			gt.Error(t, kerr).Is(model.ErrInfeasibleRoster)
			gt.Error(t, gerr).Is(model.ErrInfeasibleRoster)
			continue
		}
		gt.NoError(t, kerr).Required()
		gt.NoError(t, gerr).Required()
		gt.NoError(t, ka.Validate(slots))
		gt.NoError(t, ga.Validate(slots))
		if math.Abs(ka.TotalValue-want) > 1e-6 {
			t.Errorf("instance %d: knapsack %.4f, brute force %.4f", n, ka.TotalValue, want)
		}
		if ga.TotalValue > ka.TotalValue+1e-6 {
			t.Errorf("instance %d: greedy %.4f beat knapsack %.4f", n, ga.TotalValue, ka.TotalValue)
		}
	}
}
