package model

import (
	"math"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RosterSlot is a named position requirement, e.g. two RB seats or one FLEX
// seat open to RB/WR/TE.
type RosterSlot struct {
	Name     string     `json:"name" yaml:"name" toml:"name"`
	Count    int        `json:"count" yaml:"count" toml:"count"`
	Eligible []Position `json:"eligible" yaml:"eligible" toml:"eligible"`
}

func (s RosterSlot) Accepts(pos Position) bool {
	for _, e := range s.Eligible {
		if e == pos {
			return true
		}
	}
	return false
}

func (s RosterSlot) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return goerr.Wrap(ErrInvalidConfiguration, "slot name is required")
	}
	if s.Count < 1 {
		return goerr.Wrap(ErrInvalidConfiguration, "slot count must be >= 1",
			goerr.V(SlotKey, s.Name), goerr.V(ValueKey, s.Count))
	}
	if len(s.Eligible) == 0 {
		return goerr.Wrap(ErrInvalidConfiguration, "slot needs at least one eligible position",
			goerr.V(SlotKey, s.Name))
	}
	for _, p := range s.Eligible {
		if canon, ok := ParsePosition(string(p)); !ok || canon != p {
			return goerr.Wrap(ErrInvalidConfiguration, "unknown eligible position",
				goerr.V(SlotKey, s.Name), goerr.V(PositionKey, p))
		}
	}
	return nil
}

// ValidateSlots checks every slot and rejects duplicate names.
func ValidateSlots(slots []RosterSlot) error {
	if len(slots) == 0 {
		return goerr.Wrap(ErrInvalidConfiguration, "at least one roster slot is required")
	}
	seen := map[string]bool{}
	for _, s := range slots {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return goerr.Wrap(ErrInvalidConfiguration, "duplicate slot name", goerr.V(SlotKey, s.Name))
		}
		seen[s.Name] = true
	}
	return nil
}

// NormalizeSlots returns a copy with eligible positions in canonical
// spelling ("rb" and "RB2" become RB). Unknown spellings are kept for
// Validate to reject.
func NormalizeSlots(slots []RosterSlot) []RosterSlot {
	out := make([]RosterSlot, len(slots))
	for i, s := range slots {
		out[i] = RosterSlot{Name: strings.TrimSpace(s.Name), Count: s.Count}
		for _, e := range s.Eligible {
			if p, ok := ParsePosition(string(e)); ok {
				e = p
			}
			out[i].Eligible = append(out[i].Eligible, e)
		}
	}
	return out
}

// SeatCount is the total number of players a roster needs.
func SeatCount(slots []RosterSlot) int {
	n := 0
	for _, s := range slots {
		n += s.Count
	}
	return n
}

var flexPositions = []Position{PositionRB, PositionWR, PositionTE}
var superflexPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE}

func standardSlots() []RosterSlot {
	return []RosterSlot{
		{Name: "QB", Count: 1, Eligible: []Position{PositionQB}},
		{Name: "RB", Count: 2, Eligible: []Position{PositionRB}},
		{Name: "WR", Count: 2, Eligible: []Position{PositionWR}},
		{Name: "TE", Count: 1, Eligible: []Position{PositionTE}},
		{Name: "FLEX", Count: 1, Eligible: append([]Position(nil), flexPositions...)},
		{Name: "K", Count: 1, Eligible: []Position{PositionK}},
		{Name: "DST", Count: 1, Eligible: []Position{PositionDST}},
	}
}

// Presets returns the named slot layouts. Each call returns fresh slices.
func Presets() map[string][]RosterSlot {
	superflex := []RosterSlot{
		{Name: "QB", Count: 1, Eligible: []Position{PositionQB}},
		{Name: "RB", Count: 2, Eligible: []Position{PositionRB}},
		{Name: "WR", Count: 2, Eligible: []Position{PositionWR}},
		{Name: "TE", Count: 1, Eligible: []Position{PositionTE}},
		{Name: "FLEX", Count: 1, Eligible: append([]Position(nil), flexPositions...)},
		{Name: "SUPERFLEX", Count: 1, Eligible: append([]Position(nil), superflexPositions...)},
	}
	twoQB := []RosterSlot{
		{Name: "QB", Count: 2, Eligible: []Position{PositionQB}},
		{Name: "RB", Count: 2, Eligible: []Position{PositionRB}},
		{Name: "WR", Count: 2, Eligible: []Position{PositionWR}},
		{Name: "FLEX", Count: 1, Eligible: append([]Position(nil), flexPositions...)},
	}
	bench := append(standardSlots(), RosterSlot{
		Name: "BN", Count: 6, Eligible: append([]Position(nil), AllPositions...),
	})
	return map[string][]RosterSlot{
		"standard":       standardSlots(),
		"superflex":      superflex,
		"two-qb":         twoQB,
		"half-ppr-bench": bench,
	}
}

// PresetNames returns preset names sorted for stable listings.
func PresetNames() []string {
	names := make([]string, 0, 4)
	for k := range Presets() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Preset looks up a named slot layout.
func Preset(name string) ([]RosterSlot, error) {
	slots, ok := Presets()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, goerr.Wrap(ErrInvalidConfiguration, "unknown roster preset", goerr.V(ValueKey, name))
	}
	return slots, nil
}

// Pick is one filled seat.
type Pick struct {
	Slot   string  `json:"slot"`
	Seat   int     `json:"seat"`
	Player Player  `json:"player"`
	Amount float64 `json:"amount"`
}

// RosterAssignment is an optimizer's allocation. It is computed, never
// mutated: Budget is the input, Spent and Remaining are derived.
type RosterAssignment struct {
	Optimizer  string  `json:"optimizer"`
	Picks      []Pick  `json:"picks"`
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	TotalValue float64 `json:"total_value"`
}

// NewAssignment orders picks by slot layout then seat and derives totals.
func NewAssignment(optimizer string, budget float64, slots []RosterSlot, picks []Pick) *RosterAssignment {
	order := map[string]int{}
	for i, s := range slots {
		order[s.Name] = i
	}
	out := append([]Pick(nil), picks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Slot != out[j].Slot {
			return order[out[i].Slot] < order[out[j].Slot]
		}
		if out[i].Player.Consensus != out[j].Player.Consensus {
			return out[i].Player.Consensus > out[j].Player.Consensus
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	seat := map[string]int{}
	a := &RosterAssignment{Optimizer: optimizer, Budget: budget}
	for i := range out {
		seat[out[i].Slot]++
		out[i].Seat = seat[out[i].Slot]
		a.Spent += out[i].Amount
		a.TotalValue += out[i].Player.Consensus
	}
	a.Picks = out
	a.Remaining = budget - a.Spent
	return a
}

// budgetEpsilon absorbs float drift when summing whole-dollar amounts.
const budgetEpsilon = 1e-9

// Validate enforces the assignment invariants against the slots it was
// computed for.
func (a *RosterAssignment) Validate(slots []RosterSlot) error {
	if a == nil {
		return goerr.Wrap(ErrInfeasibleRoster, "assignment is nil")
	}
	bySlot := map[string]RosterSlot{}
	for _, s := range slots {
		bySlot[s.Name] = s
	}
	filled := map[string]int{}
	used := map[string]bool{}
	spent := 0.0
	for _, p := range a.Picks {
		s, ok := bySlot[p.Slot]
		if !ok {
			return goerr.Wrap(ErrInfeasibleRoster, "pick for unknown slot", goerr.V(SlotKey, p.Slot))
		}
		if !s.Accepts(p.Player.Position) {
			return goerr.Wrap(ErrInfeasibleRoster, "player not eligible for slot",
				goerr.V(SlotKey, p.Slot), goerr.V(PlayerKey, p.Player.ID))
		}
		if used[p.Player.ID] {
			return goerr.Wrap(ErrInfeasibleRoster, "player assigned twice", goerr.V(PlayerKey, p.Player.ID))
		}
		used[p.Player.ID] = true
		filled[p.Slot]++
		spent += p.Amount
	}
	for _, s := range slots {
		if filled[s.Name] != s.Count {
			return goerr.Wrap(ErrInfeasibleRoster, "slot not filled exactly",
				goerr.V(SlotKey, s.Name), goerr.V("filled", filled[s.Name]), goerr.V("count", s.Count))
		}
	}
	if spent > a.Budget+budgetEpsilon {
		return goerr.Wrap(ErrInfeasibleRoster, "allocation exceeds budget",
			goerr.V(BudgetKey, a.Budget), goerr.V("spent", spent))
	}
	if math.Abs(spent-a.Spent) > 1e-6 {
		return goerr.Wrap(ErrInfeasibleRoster, "spent total does not match picks",
			goerr.V("spent", a.Spent), goerr.V("sum", spent))
	}
	return nil
}

// PlayerIDs returns the chosen player ids in pick order.
func (a *RosterAssignment) PlayerIDs() []string {
	ids := make([]string, len(a.Picks))
	for i, p := range a.Picks {
		ids[i] = p.Player.ID
	}
	return ids
}
