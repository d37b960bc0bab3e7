package optimizer

import (
	"math"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

// KnapsackParams bounds the dynamic program. Zero values take defaults.
type KnapsackParams struct {
	// MaxCells caps players x roster states x budget dollars. Defaults to 60M.
	MaxCells int
}

// KnapsackOptimizer is the exact optimizer for whole-dollar prices.
//
// It runs a dynamic program over (open seats per slot, dollars spent),
// one player at a time, and keeps a per-player choice table to rebuild the
// roster. Among rosters of equal value the cheaper one wins.
type KnapsackOptimizer struct {
	params KnapsackParams
}

func NewKnapsack(p KnapsackParams) *KnapsackOptimizer {
	if p.MaxCells <= 0 {
		p.MaxCells = 60_000_000
	}
	return &KnapsackOptimizer{params: p}
}

func (k *KnapsackOptimizer) Name() string { return NameKnapsack }

const skip int8 = -1

func (k *KnapsackOptimizer) Optimize(players []model.Player, budget float64, slots []model.RosterSlot) (*model.RosterAssignment, error) {
	if err := prepare(players, budget, slots); err != nil {
		return nil, err
	}
	if len(slots) > math.MaxInt8 {
		return nil, goerr.Wrap(model.ErrInvalidConfiguration, "too many roster slots for knapsack", goerr.V("slots", len(slots)))
	}

	prices := make(map[string]int, len(players))
	for _, p := range players {
		whole := math.Round(p.Price)
		if math.Abs(p.Price-whole) > 1e-9 {
			return nil, goerr.Wrap(model.ErrInvalidConfiguration, "knapsack needs whole-dollar prices",
				goerr.V(model.PlayerKey, p.ID), goerr.V(model.ValueKey, p.Price))
		}
		prices[p.ID] = int(whole)
	}
	dollars := int(math.Floor(budget+budgetEpsilon)) + 1

	items := prune(players, slots)

	// Roster state: open seats per slot in mixed radix (count+1 per slot).
	radix := make([]int, len(slots))
	states := 1
	for i, s := range slots {
		radix[i] = states
		states *= s.Count + 1
		if states > k.params.MaxCells {
			return nil, tooLarge(float64(states), k.params.MaxCells)
		}
	}
	start := 0
	for i, s := range slots {
		start += s.Count * radix[i]
	}
	open := func(state, slot int) int {
		return (state / radix[slot]) % (slots[slot].Count + 1)
	}

	if cells := float64(len(items)) * float64(states) * float64(dollars); cells > float64(k.params.MaxCells) {
		return nil, tooLarge(cells, k.params.MaxCells)
	}

	layer := states * dollars
	negInf := math.Inf(-1)
	dp := make([]float64, layer)
	next := make([]float64, layer)
	for i := range dp {
		dp[i] = negInf
	}
	dp[start*dollars] = 0

	choice := make([][]int8, len(items))
	for t, p := range items {
		copy(next, dp)
		ch := make([]int8, layer)
		for i := range ch {
			ch[i] = skip
		}
		price := prices[p.ID]
		for state := 0; state < states; state++ {
			for spent := 0; spent+price < dollars; spent++ {
				v := dp[state*dollars+spent]
				if v == negInf {
					continue
				}
				for s, slot := range slots {
					if open(state, s) == 0 || !slot.Accepts(p.Position) {
						continue
					}
					cell := (state-radix[s])*dollars + spent + price
					if cand := v + p.Consensus; cand > next[cell] {
						next[cell] = cand
						ch[cell] = int8(s)
					}
				}
			}
		}
		choice[t] = ch
		dp, next = next, dp
	}

	// All seats filled is state 0; take the best value, cheapest on ties.
	bestSpent := -1
	bestVal := negInf
	for spent := 0; spent < dollars; spent++ {
		if v := dp[spent]; v > bestVal {
			bestVal, bestSpent = v, spent
		}
	}
	if bestSpent < 0 {
		return nil, goerr.Wrap(model.ErrInfeasibleRoster, "no complete roster within budget", goerr.V(model.BudgetKey, budget))
	}

	var picks []model.Pick
	state, spent := 0, bestSpent
	for t := len(items) - 1; t >= 0; t-- {
		s := choice[t][state*dollars+spent]
		if s == skip {
			continue
		}
		p := items[t]
		picks = append(picks, model.Pick{Slot: slots[s].Name, Player: p, Amount: p.Price})
		state += radix[s]
		spent -= prices[p.ID]
	}
	return model.NewAssignment(k.Name(), budget, slots, picks), nil
}

// prune drops players that cannot appear in any optimal roster: a player
// with at least k same-position rivals that are no more expensive and no
// less valuable, k being the seats that position can occupy. Exact ties are
// broken by ID so one of two identical players survives.
func prune(players []model.Player, slots []model.RosterSlot) []model.Player {
	seats := map[model.Position]int{}
	for _, s := range slots {
		for _, pos := range model.AllPositions {
			if s.Accepts(pos) {
				seats[pos] += s.Count
			}
		}
	}
	byPos := map[model.Position][]model.Player{}
	for _, p := range players {
		if seats[p.Position] > 0 {
			byPos[p.Position] = append(byPos[p.Position], p)
		}
	}

	var out []model.Player
	for _, pos := range model.AllPositions {
		group := byPos[pos]
		k := seats[pos]
		for _, x := range group {
			dominated := 0
			for _, y := range group {
				if y.ID != x.ID && dominates(y, x) {
					dominated++
					if dominated >= k {
						break
					}
				}
			}
			if dominated < k {
				out = append(out, x)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func tooLarge(cells float64, limit int) error {
	return goerr.Wrap(model.ErrInvalidConfiguration, "knapsack state space too large",
		goerr.V("cells", cells), goerr.V("max_cells", limit))
}

func dominates(y, x model.Player) bool {
	if y.Price > x.Price || y.Consensus < x.Consensus {
		return false
	}
	return y.Price < x.Price || y.Consensus > x.Consensus || y.ID < x.ID
}
