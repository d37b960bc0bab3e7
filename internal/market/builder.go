package market

import (
	"math"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/analysis"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// Builder blends per-source values into a consensus value and an auction
// price for every player.
type Builder struct {
	params Params
	log    zerolog.Logger
}

// NewBuilder validates params.
func NewBuilder(params Params, log zerolog.Logger) (*Builder, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Builder{params: params, log: log}, nil
}

// scale holds the normalization parameters fitted on one source.
type scale struct {
	src     model.SourceName
	present int
	mode    Normalization
	mean    float64
	std     float64
	min     float64
	max     float64
	// sorted normalized scores of the players present in the source
	sorted []float64
	fill   float64
}

func orient(src model.SourceName, v float64) float64 {
	// Lower ADP is better.
	if src == model.SourceADP {
		return -v
	}
	return v
}

func (s *scale) normalize(raw float64) float64 {
	v := orient(s.src, raw)
	switch s.mode {
	case NormalizeMinMax:
		if s.max == s.min {
			return 1
		}
		return (v - s.min) / (s.max - s.min)
	default:
		if s.std == 0 {
			return 0
		}
		return (v - s.mean) / s.std
	}
}

func fitScale(src model.SourceName, players []model.Player, p Params) *scale {
	s := &scale{src: src, mode: p.Normalization, min: math.Inf(1), max: math.Inf(-1)}
	var vals []float64
	for _, pl := range players {
		raw, ok := pl.Value(src)
		if !ok {
			continue
		}
		v := orient(src, raw)
		vals = append(vals, v)
		s.mean += v
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.present = len(vals)
	if s.present == 0 {
		return s
	}
	s.mean /= float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		ss += (v - s.mean) * (v - s.mean)
	}
	s.std = math.Sqrt(ss / float64(len(vals)))

	for _, pl := range players {
		if raw, ok := pl.Value(src); ok {
			s.sorted = append(s.sorted, s.normalize(raw))
		}
	}
	sort.Float64s(s.sorted)

	d := p.DefaultFor(src)
	switch d.Mode {
	case DefaultMin:
		s.fill = s.sorted[0]
	case DefaultMedian:
		s.fill = analysis.PercentileSorted(s.sorted, 0.5)
	case DefaultZero:
		s.fill = 0
	case DefaultValue:
		s.fill = s.normalize(d.Value)
	default:
		s.fill = analysis.PercentileSorted(s.sorted, p.ReplacementQuantile)
	}
	return s
}

// Build returns new players with Consensus and Price set, sorted by consensus
// descending then ID. The input slice and its players are not modified.
func (b *Builder) Build(players []model.Player) ([]model.Player, error) {
	p := b.params
	out := make([]model.Player, len(players))
	for i, pl := range players {
		out[i] = pl.Clone()
	}
	if len(out) == 0 {
		return out, nil
	}

	var scales []*scale
	weightSum := 0.0
	for _, src := range model.AllSources {
		s := fitScale(src, out, p)
		w := p.Weights.For(src)
		if s.present == 0 {
			b.log.Debug().Str("source", string(src)).Msg("source has no values, dropped from blend")
			continue
		}
		if w == 0 {
			continue
		}
		scales = append(scales, s)
		weightSum += w
		b.log.Debug().Str("source", string(src)).Int("present", s.present).
			Float64("fill", s.fill).Float64("weight", w).Msg("fitted source")
	}
	if weightSum <= 0 {
		return nil, goerr.Wrap(model.ErrInvalidConfiguration, "no weighted source has any values",
			goerr.V(model.FieldKey, "market.weights"), goerr.V(model.ValueKey, p.Weights))
	}

	blended := make([]float64, len(out))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, pl := range out {
		sum := 0.0
		for _, s := range scales {
			n := s.fill
			if raw, ok := pl.Value(s.src); ok {
				n = s.normalize(raw)
			}
			sum += p.Weights.For(s.src) * n
		}
		blended[i] = sum / weightSum
		lo = math.Min(lo, blended[i])
		hi = math.Max(hi, blended[i])
	}

	for i := range out {
		v := 50.0
		if hi > lo {
			v = 100 * (blended[i] - lo) / (hi - lo)
		}
		out[i].Consensus = applyRisk(v, out[i].RiskOr(p.DefaultRisk), p)
		out[i].Price = price(out[i], p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Consensus != out[j].Consensus {
			return out[i].Consensus > out[j].Consensus
		}
		return out[i].ID < out[j].ID
	})
	b.log.Info().Int("players", len(out)).Int("sources", len(scales)).Msg("market built")
	return out, nil
}

func applyRisk(v, risk float64, p Params) float64 {
	pen := p.Weights.RiskPenalty
	switch p.RiskMode {
	case RiskSubtractive:
		v -= 100 * pen * risk
	default:
		v *= 1 - pen*risk
	}
	return math.Max(0, v)
}

func price(pl model.Player, p Params) float64 {
	auction, ok := pl.Value(model.SourceAuction)
	if !ok {
		return p.MinBid
	}
	return math.Max(p.MinBid, math.Round(auction*(1+p.PriceInflation)))
}

// Top returns up to n players, optionally restricted to one position, in
// market order. n <= 0 means all.
func Top(players []model.Player, pos model.Position, n int) []model.Player {
	var out []model.Player
	for _, pl := range players {
		if pos != "" && pl.Position != pos {
			continue
		}
		out = append(out, pl)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
