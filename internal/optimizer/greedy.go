package optimizer

import (
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

// GreedyParams tunes the greedy optimizer. Zero values take defaults.
type GreedyParams struct {
	// MaxUpgrades caps the back-fill pass. Defaults to 200.
	MaxUpgrades int
}

// GreedyOptimizer buys the best value per dollar first while keeping enough
// money to complete the roster, then spends leftover budget on same-slot
// upgrades. It is an approximation; see KnapsackOptimizer for the exact
// answer.
type GreedyOptimizer struct {
	params GreedyParams
}

func NewGreedy(p GreedyParams) *GreedyOptimizer {
	if p.MaxUpgrades <= 0 {
		p.MaxUpgrades = 200
	}
	return &GreedyOptimizer{params: p}
}

func (g *GreedyOptimizer) Name() string { return NameGreedy }

func (g *GreedyOptimizer) Optimize(players []model.Player, budget float64, slots []model.RosterSlot) (*model.RosterAssignment, error) {
	if err := prepare(players, budget, slots); err != nil {
		return nil, err
	}

	order := append([]model.Player(nil), players...)
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if va, vb := a.ValuePerDollar(), b.ValuePerDollar(); va != vb {
			return va > vb
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		if a.Consensus != b.Consensus {
			return a.Consensus > b.Consensus
		}
		return a.ID < b.ID
	})

	need := counts(slots)
	open := model.SeatCount(slots)
	used := map[string]bool{}
	remaining := budget
	var picks []model.Pick

	slotsByRestriction := slotOrder(slots)
	for _, c := range order {
		if open == 0 {
			break
		}
		if c.Price > remaining+budgetEpsilon {
			continue
		}
		for _, s := range slotsByRestriction {
			if need[s] == 0 || !slots[s].Accepts(c.Position) {
				continue
			}
			need[s]--
			used[c.ID] = true
			reserve, ok := fillCost(unused(players, used), slots, need)
			if ok && c.Price+reserve <= remaining+budgetEpsilon {
				picks = append(picks, model.Pick{Slot: slots[s].Name, Player: c, Amount: c.Price})
				remaining -= c.Price
				open--
				break
			}
			need[s]++
			delete(used, c.ID)
		}
	}
	if open > 0 {
		// The reserve check keeps a completion available, so this only
		// trips on a bug.
		return nil, infeasible(slots, need)
	}

	picks, remaining = g.backfill(players, slots, picks, used, remaining)
	return model.NewAssignment(g.Name(), budget, slots, picks), nil
}

// backfill repeatedly applies the single best upgrade: swap a pick for an
// unused, higher-value player eligible for the same slot whose extra cost
// fits the leftover budget. Gain ties go to the cheaper player.
func (g *GreedyOptimizer) backfill(players []model.Player, slots []model.RosterSlot, picks []model.Pick, used map[string]bool, remaining float64) ([]model.Pick, float64) {
	bySlot := map[string]model.RosterSlot{}
	for _, s := range slots {
		bySlot[s.Name] = s
	}
	for n := 0; n < g.params.MaxUpgrades; n++ {
		bestPick, bestGain := -1, 0.0
		var best model.Player
		for i, pk := range picks {
			slot := bySlot[pk.Slot]
			for _, q := range players {
				if used[q.ID] || !slot.Accepts(q.Position) {
					continue
				}
				gain := q.Consensus - pk.Player.Consensus
				if gain <= 0 || q.Price-pk.Amount > remaining+budgetEpsilon {
					continue
				}
				if bestPick < 0 || gain > bestGain ||
					(gain == bestGain && (q.Price < best.Price || (q.Price == best.Price && q.ID < best.ID))) {
					bestPick, bestGain, best = i, gain, q
				}
			}
		}
		if bestPick < 0 {
			break
		}
		old := picks[bestPick]
		delete(used, old.Player.ID)
		used[best.ID] = true
		remaining -= best.Price - old.Amount
		picks[bestPick] = model.Pick{Slot: old.Slot, Player: best, Amount: best.Price}
	}
	return picks, remaining
}

func unused(players []model.Player, used map[string]bool) []model.Player {
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if !used[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func infeasible(slots []model.RosterSlot, need []int) error {
	for s, n := range need {
		if n > 0 {
			return goerr.Wrap(model.ErrInfeasibleRoster, "could not complete roster",
				goerr.V(model.SlotKey, slots[s].Name), goerr.V("open_seats", n))
		}
	}
	return goerr.Wrap(model.ErrInfeasibleRoster, "could not complete roster")
}
