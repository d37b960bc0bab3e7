package data

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
)

// Table is the unified in-memory player table keyed by identity.
type Table struct {
	players map[string]*model.Player
	byName  map[string][]string
}

func NewTable() *Table {
	return &Table{
		players: map[string]*model.Player{},
		byName:  map[string][]string{},
	}
}

func (t *Table) Len() int { return len(t.players) }

// Get returns a copy of the player with the given id.
func (t *Table) Get(id string) (model.Player, bool) {
	p, ok := t.players[id]
	if !ok {
		return model.Player{}, false
	}
	return p.Clone(), true
}

// Players returns copies of every player sorted by id.
func (t *Table) Players() []model.Player {
	out := make([]model.Player, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// add inserts a new player, deriving a unique id from the normalized name and,
// on collision, the team or position.
func (t *Table) add(name, team string, pos model.Position) *model.Player {
	key := NormalizeName(name)
	id := key
	if _, taken := t.players[id]; taken {
		suffix := strings.ToLower(team)
		if suffix == "" {
			suffix = strings.ToLower(string(pos))
		}
		id = key + "|" + suffix
		for n := 2; ; n++ {
			if _, taken := t.players[id]; !taken {
				break
			}
			id = key + "|" + suffix + "|" + strconv.Itoa(n)
		}
	}
	p := &model.Player{
		ID:       id,
		Name:     name,
		Team:     team,
		Position: pos,
		Sources:  map[model.SourceName]float64{},
	}
	t.players[id] = p
	t.byName[key] = append(t.byName[key], id)
	return p
}

// candidates returns ids sharing the normalized name, narrowed by team and
// position whenever the row provides them.
func (t *Table) candidates(key, team string, pos model.Position) []string {
	ids := t.byName[key]
	var out []string
	for _, id := range ids {
		p := t.players[id]
		if team != "" && p.Team != "" && !strings.EqualFold(p.Team, team) {
			continue
		}
		if pos != "" && p.Position != pos {
			continue
		}
		out = append(out, id)
	}
	return out
}

// match is candidates with a fallback: when team and position are both given
// and nothing matches, the team is dropped so a differing abbreviation still
// resolves to the same-position player. mismatch reports that fallback.
func (t *Table) match(key, team string, pos model.Position) (ids []string, mismatch bool) {
	ids = t.candidates(key, team, pos)
	if len(ids) > 0 || team == "" || pos == "" {
		return ids, false
	}
	ids = t.candidates(key, "", pos)
	return ids, len(ids) > 0
}

func (t *Table) names() []string {
	out := make([]string, 0, len(t.byName))
	for k := range t.byName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
