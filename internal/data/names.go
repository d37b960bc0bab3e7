package data

import (
	"strings"
	"unicode"
)

var generationalSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// NormalizeName maps a display name to an identity key: lower case, no
// punctuation, single spaces, generational suffixes dropped.
// "D.J. Moore" and "DJ Moore" both become "dj moore".
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	for len(fields) > 1 && generationalSuffixes[fields[len(fields)-1]] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// SplitTeam separates a trailing team abbreviation embedded in a player cell,
// e.g. "Lamar Jackson BAL". Generational suffixes are never read as teams.
func SplitTeam(cell string) (name, team string) {
	cell = strings.TrimSpace(cell)
	parts := strings.Fields(cell)
	if len(parts) < 2 {
		return cell, ""
	}
	last := parts[len(parts)-1]
	if len(last) > 4 || strings.ToUpper(last) != last || generationalSuffixes[strings.ToLower(last)] {
		return cell, ""
	}
	for _, r := range last {
		if !unicode.IsUpper(r) {
			return cell, ""
		}
	}
	return strings.Join(parts[:len(parts)-1], " "), last
}
