package data

import (
	"io"
	"os"
	"sort"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/agnivade/levenshtein"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// LoadOptions names the CSV inputs and how rows are matched to players.
type LoadOptions struct {
	Projections []string
	Auction     string
	ADP         string
	Risk        string

	// Aliases maps a name as written in some source to the canonical name
	// used by the projections, e.g. "Gabe Davis" -> "Gabriel Davis".
	Aliases map[string]string
	// Strict turns unresolved rows into ErrUnresolvedPlayerIdentity instead
	// of report entries. Non-projection rows never create players then.
	Strict bool
	// FuzzyMaxDistance bounds Levenshtein matching; 0 disables it.
	FuzzyMaxDistance int
}

// Input is one already-opened source.
type Input struct {
	Kind SourceKind
	Name string
	R    io.Reader
}

// RowIssue points at a row the loader could not use as-is.
type RowIssue struct {
	Kind   SourceKind `json:"kind"`
	File   string     `json:"file"`
	Line   int        `json:"line"`
	Name   string     `json:"name"`
	Reason string     `json:"reason"`
}

// FuzzyMatch records a row resolved by edit distance so the user can audit it.
type FuzzyMatch struct {
	Kind     SourceKind `json:"kind"`
	File     string     `json:"file"`
	Line     int        `json:"line"`
	Name     string     `json:"name"`
	PlayerID string     `json:"player_id"`
	Distance int        `json:"distance"`

	// TeamMismatch is set when name and position agree but the team
	// abbreviation does not, e.g. JAC vs JAX.
	TeamMismatch bool `json:"team_mismatch,omitempty"`
}

// LoadReport summarizes what the loader did with every row.
type LoadReport struct {
	Rows       map[SourceKind]int `json:"rows"`
	Created    int                `json:"created"`
	Unresolved []RowIssue         `json:"unresolved,omitempty"`
	Duplicates []RowIssue         `json:"duplicates,omitempty"`
	Fuzzy      []FuzzyMatch       `json:"fuzzy,omitempty"`
}

type Loader struct {
	opts    LoadOptions
	aliases map[string]string
	log     zerolog.Logger
}

func NewLoader(opts LoadOptions, log zerolog.Logger) *Loader {
	aliases := make(map[string]string, len(opts.Aliases))
	for from, to := range opts.Aliases {
		aliases[NormalizeName(from)] = NormalizeName(to)
	}
	return &Loader{opts: opts, aliases: aliases, log: log}
}

var kindOrder = map[SourceKind]int{KindProjections: 0, KindAuction: 1, KindADP: 2, KindRisk: 3}

// Load opens the configured files and builds the player table.
func (l *Loader) Load() (*Table, *LoadReport, error) {
	type file struct {
		kind SourceKind
		path string
	}
	var files []file
	for _, p := range l.opts.Projections {
		files = append(files, file{KindProjections, p})
	}
	if l.opts.Auction != "" {
		files = append(files, file{KindAuction, l.opts.Auction})
	}
	if l.opts.ADP != "" {
		files = append(files, file{KindADP, l.opts.ADP})
	}
	if l.opts.Risk != "" {
		files = append(files, file{KindRisk, l.opts.Risk})
	}
	if len(files) == 0 {
		return nil, nil, goerr.Wrap(model.ErrInvalidConfiguration, "no input files configured")
	}

	inputs := make([]Input, 0, len(files))
	for _, s := range files {
		f, err := os.Open(s.path)
		if err != nil {
			for _, in := range inputs {
				in.R.(io.Closer).Close()
			}
			return nil, nil, goerr.Wrap(err, "failed to open input", goerr.V(model.FileKey, s.path))
		}
		inputs = append(inputs, Input{Kind: s.kind, Name: s.path, R: f})
	}
	defer func() {
		for _, in := range inputs {
			in.R.(io.Closer).Close()
		}
	}()
	return l.LoadInputs(inputs)
}

// LoadInputs builds the table from readers. Projections are applied first so
// other sources can resolve against them.
func (l *Loader) LoadInputs(inputs []Input) (*Table, *LoadReport, error) {
	ordered := append([]Input(nil), inputs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return kindOrder[ordered[i].Kind] < kindOrder[ordered[j].Kind]
	})

	t := NewTable()
	rep := &LoadReport{Rows: map[SourceKind]int{}}
	projCount := map[string]int{}

	for _, in := range ordered {
		rows, err := ReadSource(in.R, in.Kind, in.Name)
		if err != nil {
			return nil, nil, err
		}
		rep.Rows[in.Kind] += len(rows)
		l.log.Debug().Str("file", in.Name).Str("kind", string(in.Kind)).Int("rows", len(rows)).Msg("read source")

		for _, row := range rows {
			if in.Kind == KindProjections {
				if err := l.applyProjection(t, projCount, in, row); err != nil {
					return nil, nil, err
				}
				continue
			}
			if err := l.applyRow(t, rep, in, row); err != nil {
				return nil, nil, err
			}
		}
	}

	if len(rep.Unresolved) > 0 {
		l.log.Warn().Int("count", len(rep.Unresolved)).Msg("rows could not be matched to a player")
	}
	return t, rep, nil
}

func (l *Loader) applyProjection(t *Table, counts map[string]int, in Input, row Row) error {
	if row.Position == "" {
		return goerr.Wrap(model.ErrInvalidValue, "unknown position",
			goerr.V(model.FileKey, in.Name), goerr.V(model.RowKey, row.Line),
			goerr.V(model.PlayerKey, row.Name), goerr.V(model.PositionKey, row.RawPos))
	}
	var p *model.Player
	if ids := t.candidates(NormalizeName(row.Name), row.Team, row.Position); len(ids) == 1 {
		p = t.players[ids[0]]
	} else {
		p = t.add(row.Name, row.Team, row.Position)
	}
	if p.Team == "" {
		p.Team = row.Team
	}
	if !row.HasValue {
		return nil
	}
	// A player listed in several projection files gets the mean projection.
	n := counts[p.ID]
	prev := p.Sources[model.SourceProjection]
	p.Sources[model.SourceProjection] = (prev*float64(n) + row.Value) / float64(n+1)
	counts[p.ID] = n + 1
	return nil
}

func (l *Loader) applyRow(t *Table, rep *LoadReport, in Input, row Row) error {
	id, reason := l.resolve(t, rep, in, row)
	if id == "" {
		src, feedsValue := in.Kind.SourceName()
		canCreate := reason == reasonNoMatch && feedsValue && row.Position != ""
		if canCreate && !l.opts.Strict {
			p := t.add(row.Name, row.Team, row.Position)
			if row.HasValue {
				p.Sources[src] = row.Value
			}
			rep.Created++
			return nil
		}
		if l.opts.Strict {
			return goerr.Wrap(model.ErrUnresolvedPlayerIdentity, reason,
				goerr.V(model.FileKey, in.Name), goerr.V(model.RowKey, row.Line),
				goerr.V(model.PlayerKey, row.Name), goerr.V(model.PositionKey, string(row.Position)))
		}
		l.log.Warn().Str("file", in.Name).Int("row", row.Line).Str("player", row.Name).Str("reason", reason).Msg("unresolved player")
		rep.Unresolved = append(rep.Unresolved, RowIssue{Kind: in.Kind, File: in.Name, Line: row.Line, Name: row.Name, Reason: reason})
		return nil
	}

	p := t.players[id]
	if p.Team == "" {
		p.Team = row.Team
	}
	if !row.HasValue {
		return nil
	}
	if in.Kind == KindRisk {
		if p.Risk != nil {
			rep.Duplicates = append(rep.Duplicates, RowIssue{Kind: in.Kind, File: in.Name, Line: row.Line, Name: row.Name, Reason: "risk already set for " + id})
			return nil
		}
		r := row.Value
		p.Risk = &r
		return nil
	}
	src, _ := in.Kind.SourceName()
	if _, dup := p.Sources[src]; dup {
		rep.Duplicates = append(rep.Duplicates, RowIssue{Kind: in.Kind, File: in.Name, Line: row.Line, Name: row.Name, Reason: string(src) + " already set for " + id})
		return nil
	}
	p.Sources[src] = row.Value
	return nil
}

const (
	reasonNoMatch        = "no player with this name"
	reasonAmbiguous      = "ambiguous name"
	reasonAmbiguousFuzzy = "ambiguous fuzzy match"
)

// resolve finds the player a row refers to: alias, exact name, then a unique
// fuzzy match. It returns the reason when nothing matches; only reasonNoMatch
// leaves room for a new player.
func (l *Loader) resolve(t *Table, rep *LoadReport, in Input, row Row) (string, string) {
	key := NormalizeName(row.Name)
	if alias, ok := l.aliases[key]; ok {
		key = alias
	}
	ids, mismatch := t.match(key, row.Team, row.Position)
	switch {
	case len(ids) == 1:
		if mismatch {
			l.recordFuzzy(rep, in, row, ids[0], 0, true)
		}
		return ids[0], ""
	case len(ids) > 1:
		return "", reasonAmbiguous
	}

	limit := l.opts.FuzzyMaxDistance
	if lim := len(key) / 4; lim < limit {
		limit = lim
	}
	if limit <= 0 {
		return "", reasonNoMatch
	}
	best, bestName, ties := limit+1, "", 0
	for _, name := range t.names() {
		if row.Position != "" && len(t.candidates(name, "", row.Position)) == 0 {
			continue
		}
		d := levenshtein.ComputeDistance(key, name)
		switch {
		case d < best:
			best, bestName, ties = d, name, 1
		case d == best:
			ties++
		}
	}
	if bestName == "" || best > limit {
		return "", reasonNoMatch
	}
	if ties > 1 {
		return "", reasonAmbiguousFuzzy
	}
	ids, mismatch = t.match(bestName, row.Team, row.Position)
	if len(ids) != 1 {
		return "", reasonAmbiguousFuzzy
	}
	l.recordFuzzy(rep, in, row, ids[0], best, mismatch)
	return ids[0], ""
}

func (l *Loader) recordFuzzy(rep *LoadReport, in Input, row Row, id string, distance int, teamMismatch bool) {
	rep.Fuzzy = append(rep.Fuzzy, FuzzyMatch{
		Kind: in.Kind, File: in.Name, Line: row.Line, Name: row.Name,
		PlayerID: id, Distance: distance, TeamMismatch: teamMismatch,
	})
	l.log.Info().Str("player", row.Name).Str("matched", id).Int("distance", distance).
		Bool("team_mismatch", teamMismatch).Msg("fuzzy match")
}
