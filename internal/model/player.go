package model

import (
	"math"
	"strings"
	"unicode"
)

// Position is a player's fantasy position. Values are stable; they appear in
// CSV output and config files.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// AllPositions lists every known position in display order.
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// ParsePosition accepts the spellings found in common rankings exports:
// "rb", "RB12" (positional rank suffix), "DEF", "D/ST".
func ParsePosition(s string) (Position, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimRightFunc(s, unicode.IsDigit)
	switch s {
	case "QB":
		return PositionQB, true
	case "RB":
		return PositionRB, true
	case "WR":
		return PositionWR, true
	case "TE":
		return PositionTE, true
	case "K", "PK":
		return PositionK, true
	case "DST", "DEF", "D/ST", "D", "DS":
		return PositionDST, true
	}
	return "", false
}

// SourceName identifies one valuation input.
type SourceName string

const (
	SourceProjection SourceName = "projection"
	SourceAuction    SourceName = "auction"
	SourceADP        SourceName = "adp"
)

// AllSources lists the valuation sources in blend order.
var AllSources = []SourceName{SourceProjection, SourceAuction, SourceADP}

// Player is one draftable player.
//
// Sources holds raw values per source: projected points, auction dollars and
// ADP rank. Consensus and Price are filled by the market builder.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team,omitempty"`
	Position Position `json:"position"`

	Sources map[SourceName]float64 `json:"sources,omitempty"`
	Risk    *float64               `json:"risk,omitempty"`

	Consensus float64 `json:"consensus"`
	Price     float64 `json:"price"`
}

// Value returns the raw value for a source and whether it is present.
func (p Player) Value(src SourceName) (float64, bool) {
	v, ok := p.Sources[src]
	return v, ok
}

// RiskOr returns the risk score, or def when the player has none.
func (p Player) RiskOr(def float64) float64 {
	if p.Risk == nil {
		return def
	}
	return *p.Risk
}

// Clone returns a deep copy so callers can enrich players without touching
// the loaded table.
func (p Player) Clone() Player {
	out := p
	if p.Sources != nil {
		out.Sources = make(map[SourceName]float64, len(p.Sources))
		for k, v := range p.Sources {
			out.Sources[k] = v
		}
	}
	if p.Risk != nil {
		r := *p.Risk
		out.Risk = &r
	}
	return out
}

// ValuePerDollar is the greedy ordering key. A free player with any value
// ranks ahead of every priced one.
func (p Player) ValuePerDollar() float64 {
	if p.Price <= 0 {
		if p.Consensus > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return p.Consensus / p.Price
}
