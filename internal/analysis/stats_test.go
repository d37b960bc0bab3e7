package analysis_test

import (
	"math"
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/analysis"
	"github.com/m-mizutani/gt"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize(t *testing.T) {
	vals := []float64{4, 1, 3, 2, 5}
	s := analysis.Summarize(vals)

	gt.Number(t, s.Count).Equal(5)
	gt.Number(t, s.Mean).Equal(3)
	gt.Number(t, s.Variance).Equal(2.5)
	gt.Number(t, s.StdDev).Equal(math.Sqrt(2.5))
	gt.Number(t, s.Min).Equal(1)
	gt.Number(t, s.Max).Equal(5)
	gt.Bool(t, approx(s.P05, 1.2)).True()
	gt.Bool(t, approx(s.P95, 4.8)).True()
	gt.Value(t, vals).Equal([]float64{4, 1, 3, 2, 5})
}

func TestSummarizeEdgeCases(t *testing.T) {
	gt.Value(t, analysis.Summarize(nil)).Equal(analysis.Summary{})

	one := analysis.Summarize([]float64{7})
	gt.Number(t, one.Variance).Equal(0)
	gt.Number(t, one.P05).Equal(7)
	gt.Number(t, one.P95).Equal(7)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"min", 0, 10},
		{"max", 1, 40},
		{"exact", 1.0 / 3, 20},
		{"interpolated", 0.5, 25},
		{"below", -1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analysis.Percentile([]float64{40, 10, 30, 20}, tt.q)
			gt.Bool(t, approx(got, tt.want)).True()
		})
	}
}

func TestRankFrequency(t *testing.T) {
	counts := map[string]int{"b": 3, "a": 3, "c": 5}
	names := map[string][2]string{"c": {"Christian McCaffrey", "RB"}}
	got := analysis.RankFrequency(counts, 10, names)

	gt.Array(t, got).Length(3)
	gt.Value(t, got[0].PlayerID).Equal("c")
	gt.Value(t, got[0].Name).Equal("Christian McCaffrey")
	gt.Number(t, got[0].Rate).Equal(0.5)
	gt.Value(t, got[1].PlayerID).Equal("a")
	gt.Value(t, got[2].PlayerID).Equal("b")
}
