package market

import (
	"math"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

// Normalization selects how raw source values are put on a common scale.
type Normalization string

const (
	NormalizeZScore Normalization = "zscore"
	NormalizeMinMax Normalization = "minmax"
)

// RiskMode selects how the risk penalty is applied to the 0-100 value.
type RiskMode string

const (
	RiskMultiplicative RiskMode = "multiplicative"
	RiskSubtractive    RiskMode = "subtractive"
)

// DefaultMode picks the normalized value given to a player missing from a
// source.
type DefaultMode string

const (
	DefaultReplacement DefaultMode = "replacement"
	DefaultMin         DefaultMode = "min"
	DefaultMedian      DefaultMode = "median"
	DefaultZero        DefaultMode = "zero"
	DefaultValue       DefaultMode = "value"
)

// SourceDefault configures missing-value handling for one source. Value is a
// raw source value and is only read in DefaultValue mode.
type SourceDefault struct {
	Mode  DefaultMode `json:"mode" yaml:"mode" toml:"mode"`
	Value float64     `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Weights blend the normalized sources. RiskPenalty scales the risk score.
type Weights struct {
	Projection  float64 `json:"projection" yaml:"projection" toml:"projection"`
	ADP         float64 `json:"adp" yaml:"adp" toml:"adp"`
	Auction     float64 `json:"auction" yaml:"auction" toml:"auction"`
	RiskPenalty float64 `json:"risk_penalty" yaml:"risk_penalty" toml:"risk_penalty"`
}

// For returns the weight of one source.
func (w Weights) For(src model.SourceName) float64 {
	switch src {
	case model.SourceProjection:
		return w.Projection
	case model.SourceADP:
		return w.ADP
	case model.SourceAuction:
		return w.Auction
	}
	return 0
}

// Params configures the market builder.
type Params struct {
	Weights             Weights
	Normalization       Normalization
	RiskMode            RiskMode
	Defaults            map[model.SourceName]SourceDefault
	ReplacementQuantile float64
	MinBid              float64
	PriceInflation      float64
	DefaultRisk         float64
}

// DefaultParams weighs projections highest and prices at the auction value.
func DefaultParams() Params {
	return Params{
		Weights:             Weights{Projection: 0.5, ADP: 0.2, Auction: 0.3, RiskPenalty: 0},
		Normalization:       NormalizeZScore,
		RiskMode:            RiskMultiplicative,
		ReplacementQuantile: 0.10,
		MinBid:              1,
	}
}

// DefaultFor returns the configured default for src, replacement level when
// unset.
func (p Params) DefaultFor(src model.SourceName) SourceDefault {
	if d, ok := p.Defaults[src]; ok && d.Mode != "" {
		return d
	}
	return SourceDefault{Mode: DefaultReplacement}
}

func invalid(field string, value any, msg string) error {
	return goerr.Wrap(model.ErrInvalidConfiguration, msg, goerr.V(model.FieldKey, field), goerr.V(model.ValueKey, value))
}

// Validate rejects negative weights, an all-zero blend and unknown modes.
func (p Params) Validate() error {
	w := p.Weights
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"market.weights.projection", w.Projection},
		{"market.weights.adp", w.ADP},
		{"market.weights.auction", w.Auction},
		{"market.weights.risk_penalty", w.RiskPenalty},
	} {
		if f.v < 0 {
			return invalid(f.name, f.v, "weight must be >= 0")
		}
	}
	if w.Projection+w.ADP+w.Auction <= 0 {
		return invalid("market.weights", w, "source weights must sum to > 0")
	}
	switch p.Normalization {
	case NormalizeZScore, NormalizeMinMax:
	default:
		return invalid("market.normalization", p.Normalization, "unknown normalization")
	}
	switch p.RiskMode {
	case RiskMultiplicative, RiskSubtractive:
	default:
		return invalid("market.risk_mode", p.RiskMode, "unknown risk mode")
	}
	for src, d := range p.Defaults {
		switch d.Mode {
		case "", DefaultReplacement, DefaultMin, DefaultMedian, DefaultZero, DefaultValue:
		default:
			return invalid("market.defaults."+string(src), d.Mode, "unknown default mode")
		}
	}
	if p.ReplacementQuantile < 0 || p.ReplacementQuantile > 1 {
		return invalid("market.replacement_quantile", p.ReplacementQuantile, "must be within [0,1]")
	}
	if p.MinBid < 0 || p.MinBid != math.Trunc(p.MinBid) {
		return invalid("market.min_bid", p.MinBid, "must be a whole dollar amount >= 0")
	}
	if p.PriceInflation <= -1 {
		return invalid("market.price_inflation", p.PriceInflation, "must be > -1")
	}
	if p.DefaultRisk < 0 || p.DefaultRisk > 1 {
		return invalid("market.default_risk", p.DefaultRisk, "must be within [0,1]")
	}
	return nil
}
