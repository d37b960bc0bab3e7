package optimizer

import (
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/gt"
)

func p(id string, pos model.Position, value, price float64) model.Player {
	return model.Player{ID: id, Name: id, Position: pos, Consensus: value, Price: price}
}

func TestFillCost(t *testing.T) {
	slots := []model.RosterSlot{
		{Name: "QB", Count: 1, Eligible: []model.Position{model.PositionQB}},
		{Name: "FLEX", Count: 2, Eligible: []model.Position{model.PositionRB, model.PositionWR}},
	}
	pool := []model.Player{
		p("qb-a", model.PositionQB, 10, 5),
		p("qb-b", model.PositionQB, 10, 9),
		p("rb-a", model.PositionRB, 10, 1),
		p("rb-b", model.PositionRB, 10, 7),
		p("wr-a", model.PositionWR, 10, 2),
	}

	cost, ok := fillCost(pool, slots, counts(slots))
	gt.Bool(t, ok).True()
	gt.Number(t, cost).Equal(8)

	cost, ok = fillCost(pool, slots, []int{0, 1})
	gt.Bool(t, ok).True()
	gt.Number(t, cost).Equal(1)

	cost, ok = fillCost(pool, slots, []int{0, 0})
	gt.Bool(t, ok).True()
	gt.Number(t, cost).Equal(0)

	_, ok = fillCost(pool[:2], slots, counts(slots))
	gt.Bool(t, ok).False()
}

func TestFillCostSharedPositions(t *testing.T) {
	// The cheap RB must go to FLEX only if the RB seat can still be filled.
	slots := []model.RosterSlot{
		{Name: "RB", Count: 1, Eligible: []model.Position{model.PositionRB}},
		{Name: "FLEX", Count: 1, Eligible: []model.Position{model.PositionRB, model.PositionTE}},
	}
	pool := []model.Player{
		p("rb-a", model.PositionRB, 1, 3),
		p("rb-b", model.PositionRB, 1, 20),
		p("te-a", model.PositionTE, 1, 4),
	}
	cost, ok := fillCost(pool, slots, counts(slots))
	gt.Bool(t, ok).True()
	gt.Number(t, cost).Equal(7)
}

func TestPruneKeepsEnoughPerPosition(t *testing.T) {
	slots := []model.RosterSlot{{Name: "RB", Count: 2, Eligible: []model.Position{model.PositionRB}}}
	players := []model.Player{
		p("a", model.PositionRB, 50, 10),
		p("b", model.PositionRB, 40, 10),
		p("c", model.PositionRB, 30, 10),
		p("d", model.PositionRB, 30, 10),
		p("k", model.PositionK, 99, 1),
	}
	got := prune(players, slots)
	ids := make([]string, len(got))
	for i, pl := range got {
		ids[i] = pl.ID
	}
	gt.Value(t, ids).Equal([]string{"a", "b"})
}

func TestSlotOrder(t *testing.T) {
	slots := []model.RosterSlot{
		{Name: "FLEX", Count: 1, Eligible: []model.Position{model.PositionRB, model.PositionWR}},
		{Name: "RB", Count: 1, Eligible: []model.Position{model.PositionRB}},
		{Name: "WR", Count: 1, Eligible: []model.Position{model.PositionWR}},
	}
	gt.Value(t, slotOrder(slots)).Equal([]int{1, 2, 0})
}
