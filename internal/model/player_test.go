package model_test

import (
	"math"
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/gt"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want model.Position
		ok   bool
	}{
		{in: "qb", want: model.PositionQB, ok: true},
		{in: "RB12", want: model.PositionRB, ok: true},
		{in: " WR3 ", want: model.PositionWR, ok: true},
		{in: "DEF", want: model.PositionDST, ok: true},
		{in: "D/ST", want: model.PositionDST, ok: true},
		{in: "PK1", want: model.PositionK, ok: true},
		{in: "LB", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := model.ParsePosition(tc.in)
			gt.Value(t, ok).Equal(tc.ok)
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestPlayerClone(t *testing.T) {
	risk := 0.4
	p := model.Player{
		ID:      "bijan robinson",
		Sources: map[model.SourceName]float64{model.SourceAuction: 55},
		Risk:    &risk,
	}
	c := p.Clone()
	c.Sources[model.SourceAuction] = 1
	*c.Risk = 0.9

	gt.Value(t, p.Sources[model.SourceAuction]).Equal(55.0)
	gt.Value(t, *p.Risk).Equal(0.4)
	gt.Value(t, p.RiskOr(0.1)).Equal(0.4)
	gt.Value(t, model.Player{}.RiskOr(0.1)).Equal(0.1)
}

func TestValuePerDollar(t *testing.T) {
	tests := []struct {
		name string
		p    model.Player
		want float64
	}{
		{name: "priced", p: model.Player{Consensus: 60, Price: 20}, want: 3},
		{name: "free", p: model.Player{Consensus: 5, Price: 0}, want: math.Inf(1)},
		{name: "free and worthless", p: model.Player{Consensus: 0, Price: 0}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, tc.p.ValuePerDollar()).Equal(tc.want)
		})
	}

	free := model.Player{Consensus: 1, Price: 0}
	cheap := model.Player{Consensus: 100, Price: 1}
	gt.Bool(t, free.ValuePerDollar() > cheap.ValuePerDollar()).True()
}
