package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/agnivade/levenshtein"
	"github.com/m-mizutani/goerr/v2"
)

// Optimizer picks a roster that fills every slot within budget.
type Optimizer interface {
	Name() string
	Optimize(players []model.Player, budget float64, slots []model.RosterSlot) (*model.RosterAssignment, error)
}

const (
	NameGreedy   = "greedy"
	NameKnapsack = "knapsack"
)

// Names lists the registered optimizers.
func Names() []string { return []string{NameGreedy, NameKnapsack} }

// New builds an optimizer by name. params come straight from config or a
// request body, so numbers may arrive as int or float64.
func New(name string, params map[string]any) (Optimizer, error) {
	switch name {
	case "", NameGreedy:
		p := GreedyParams{}
		for k, v := range params {
			switch k {
			case "max_upgrades":
				n, err := intParam(k, v)
				if err != nil {
					return nil, err
				}
				p.MaxUpgrades = n
			default:
				return nil, unknownParam(NameGreedy, k)
			}
		}
		return NewGreedy(p), nil
	case NameKnapsack:
		p := KnapsackParams{}
		for k, v := range params {
			switch k {
			case "max_cells":
				n, err := intParam(k, v)
				if err != nil {
					return nil, err
				}
				p.MaxCells = n
			default:
				return nil, unknownParam(NameKnapsack, k)
			}
		}
		return NewKnapsack(p), nil
	}

	return nil, goerr.Wrap(model.ErrInvalidConfiguration, "unknown optimizer",
		goerr.V("optimizer", name), goerr.V("available", Names()), goerr.V("did_you_mean", suggest(name)))
}

func suggest(name string) string {
	best, bestDist := "", 3
	for _, n := range Names() {
		if d := levenshtein.ComputeDistance(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func unknownParam(optimizer, key string) error {
	return goerr.Wrap(model.ErrInvalidConfiguration, "unknown optimizer parameter",
		goerr.V("optimizer", optimizer), goerr.V(model.FieldKey, key))
}

func intParam(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, goerr.Wrap(model.ErrInvalidConfiguration, "parameter must be an integer",
		goerr.V(model.FieldKey, key), goerr.V(model.ValueKey, fmt.Sprint(v)))
}

// prepare runs the checks shared by every optimizer: a positive budget,
// valid slots, unique players and a minimum completion cost within budget.
func prepare(players []model.Player, budget float64, slots []model.RosterSlot) error {
	if budget <= 0 || math.IsNaN(budget) || math.IsInf(budget, 0) {
		return goerr.Wrap(model.ErrInvalidConfiguration, "budget must be > 0", goerr.V(model.BudgetKey, budget))
	}
	if err := model.ValidateSlots(slots); err != nil {
		return err
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return goerr.Wrap(model.ErrInvalidConfiguration, "duplicate player id", goerr.V(model.PlayerKey, p.ID))
		}
		seen[p.ID] = true
		if p.Price < 0 || math.IsNaN(p.Price) {
			return goerr.Wrap(model.ErrInvalidValue, "negative price", goerr.V(model.PlayerKey, p.ID), goerr.V(model.ValueKey, p.Price))
		}
	}

	need := counts(slots)
	cost, ok := fillCost(players, slots, need)
	if !ok {
		return goerr.Wrap(model.ErrInfeasibleRoster, "not enough eligible players to fill the roster",
			goerr.V(model.SlotKey, unfillableSlot(players, slots)))
	}
	if cost > budget+budgetEpsilon {
		return goerr.Wrap(model.ErrInfeasibleRoster, "cheapest complete roster exceeds budget",
			goerr.V(model.MinCostKey, cost), goerr.V(model.BudgetKey, budget))
	}
	return nil
}

const budgetEpsilon = 1e-9

func counts(slots []model.RosterSlot) []int {
	need := make([]int, len(slots))
	for i, s := range slots {
		need[i] = s.Count
	}
	return need
}

// unfillableSlot names the first slot with fewer eligible players than
// seats, or every slot when only the combination is short.
func unfillableSlot(players []model.Player, slots []model.RosterSlot) string {
	for _, s := range slots {
		n := 0
		for _, p := range players {
			if s.Accepts(p.Position) {
				n++
			}
		}
		if n < s.Count {
			return s.Name
		}
	}
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = s.Name
	}
	return fmt.Sprint(names)
}

// slotOrder puts the most restrictive slots first: fewest eligible
// positions, then configuration order.
func slotOrder(slots []model.RosterSlot) []int {
	idx := make([]int, len(slots))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return len(slots[idx[a]].Eligible) < len(slots[idx[b]].Eligible)
	})
	return idx
}
