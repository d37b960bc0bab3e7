package analysis

import "sort"

// Frequency is how often a player was chosen across scenarios.
type Frequency struct {
	PlayerID string  `json:"player_id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Count    int     `json:"count"`
	Rate     float64 `json:"rate"`
}

// RankFrequency turns appearance counts into rates over total runs, sorted by
// count descending then player ID. names maps IDs to display name and
// position; unknown IDs keep empty labels.
func RankFrequency(counts map[string]int, total int, names map[string][2]string) []Frequency {
	out := make([]Frequency, 0, len(counts))
	for id, n := range counts {
		f := Frequency{PlayerID: id, Count: n}
		if total > 0 {
			f.Rate = float64(n) / float64(total)
		}
		if label, ok := names[id]; ok {
			f.Name, f.Position = label[0], label[1]
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
