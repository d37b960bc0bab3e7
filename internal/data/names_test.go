package data_test

import (
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/m-mizutani/gt"
)

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"D.J. Moore":            "dj moore",
		"DJ Moore":              "dj moore",
		"Kenneth Walker III":    "kenneth walker",
		"Marvin Harrison Jr.":   "marvin harrison",
		"Amon-Ra St. Brown":     "amon ra st brown",
		"  Ja'Marr   Chase ":    "jamarr chase",
		"Patrick Mahomes II":    "patrick mahomes",
		"V":                     "v",
	}
	for in, want := range tests {
		gt.Value(t, data.NormalizeName(in)).Equal(want)
	}
}

func TestSplitTeam(t *testing.T) {
	tests := []struct {
		cell, name, team string
	}{
		{cell: "Lamar Jackson BAL", name: "Lamar Jackson", team: "BAL"},
		{cell: "Patrick Mahomes II", name: "Patrick Mahomes II", team: ""},
		{cell: "Breece Hall", name: "Breece Hall", team: ""},
		{cell: "Josh Allen BUF ", name: "Josh Allen", team: "BUF"},
		{cell: "Tyreek Hill Miami", name: "Tyreek Hill Miami", team: ""},
		{cell: "Bijan", name: "Bijan", team: ""},
	}
	for _, tc := range tests {
		name, team := data.SplitTeam(tc.cell)
		gt.Value(t, name).Equal(tc.name)
		gt.Value(t, team).Equal(tc.team)
	}
}
