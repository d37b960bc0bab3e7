package data

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/m-mizutani/goerr/v2"
)

// SourceKind is one of the CSV inputs the loader understands.
type SourceKind string

const (
	KindProjections SourceKind = "projections"
	KindAuction     SourceKind = "auction"
	KindADP         SourceKind = "adp"
	KindRisk        SourceKind = "risk"
)

// SourceName maps a kind to the valuation source it feeds. Risk feeds none.
func (k SourceKind) SourceName() (model.SourceName, bool) {
	switch k {
	case KindProjections:
		return model.SourceProjection, true
	case KindAuction:
		return model.SourceAuction, true
	case KindADP:
		return model.SourceADP, true
	}
	return "", false
}

// Header aliases, compared after lower-casing and trimming.
var (
	nameAliases     = []string{"player", "name", "player name", "playername"}
	positionAliases = []string{"pos", "position"}
	teamAliases     = []string{"team", "tm"}
	valueAliases    = map[SourceKind][]string{
		KindProjections: {"proj_pts", "fpts", "points", "projected_points", "fantasy pts", "proj"},
		KindAuction:     {"auction_value", "value", "price", "auction", "$", "avg value", "cost"},
		KindADP:         {"adp", "avg", "average", "rank", "ovr"},
		KindRisk:        {"risk", "risk_score"},
	}
)

// Row is one parsed CSV record. Line is the 1-based line in the file,
// header included.
type Row struct {
	Line     int
	Name     string
	Team     string
	Position model.Position
	RawPos   string
	Value    float64
	HasValue bool
}

type columns struct {
	name, pos, team, value int
}

func findColumn(header []string, aliases []string) int {
	for _, a := range aliases {
		for i, h := range header {
			if h == a {
				return i
			}
		}
	}
	return -1
}

func mapHeader(header []string, kind SourceKind, file string) (columns, error) {
	norm := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	c := columns{
		name:  findColumn(norm, nameAliases),
		pos:   findColumn(norm, positionAliases),
		team:  findColumn(norm, teamAliases),
		value: findColumn(norm, valueAliases[kind]),
	}
	if c.name < 0 {
		return c, goerr.Wrap(model.ErrMissingRequiredColumn, "name column not found",
			goerr.V(model.FileKey, file), goerr.V(model.ColumnKey, "name"), goerr.V("header", header))
	}
	if kind == KindProjections && c.pos < 0 {
		return c, goerr.Wrap(model.ErrMissingRequiredColumn, "position column not found",
			goerr.V(model.FileKey, file), goerr.V(model.ColumnKey, "position"), goerr.V("header", header))
	}
	if c.value < 0 {
		return c, goerr.Wrap(model.ErrMissingRequiredColumn, "value column not found",
			goerr.V(model.FileKey, file), goerr.V(model.ColumnKey, string(kind)), goerr.V("header", header))
	}
	return c, nil
}

// ParseNumber accepts "$45", "1,204.5" and surrounding whitespace.
func ParseNumber(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "nan") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// ReadSource parses one CSV input of the given kind. Rows without a player
// name are skipped; unparsable values fail with ErrInvalidValue.
func ReadSource(r io.Reader, kind SourceKind, file string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, goerr.Wrap(model.ErrMissingRequiredColumn, "empty file", goerr.V(model.FileKey, file))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read csv header", goerr.V(model.FileKey, file))
	}
	cols, err := mapHeader(header, kind, file)
	if err != nil {
		return nil, err
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read csv record", goerr.V(model.FileKey, file), goerr.V(model.RowKey, line))
		}
		name := cell(rec, cols.name)
		if name == "" {
			continue
		}
		row := Row{Line: line, Name: name, Team: strings.ToUpper(cell(rec, cols.team))}
		if cols.team < 0 {
			row.Name, row.Team = SplitTeam(name)
		}
		if cols.pos >= 0 {
			row.RawPos = cell(rec, cols.pos)
			if pos, ok := model.ParsePosition(row.RawPos); ok {
				row.Position = pos
			}
		}
		v, ok, err := ParseNumber(cell(rec, cols.value))
		if err != nil {
			return nil, goerr.Wrap(model.ErrInvalidValue, "value is not a number",
				goerr.V(model.FileKey, file), goerr.V(model.RowKey, line),
				goerr.V(model.PlayerKey, name), goerr.V(model.ValueKey, cell(rec, cols.value)))
		}
		row.Value, row.HasValue = v, ok
		if kind == KindRisk && ok && (v < 0 || v > 1) {
			return nil, goerr.Wrap(model.ErrInvalidValue, "risk must be within [0,1]",
				goerr.V(model.FileKey, file), goerr.V(model.RowKey, line),
				goerr.V(model.PlayerKey, name), goerr.V(model.ValueKey, v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
