package player

import "sort"

// Rank derives the ordered leaderboard for a score field: eligible records
// only, descending, stable so ties keep cache insertion order. The snapshot
// is recomputed on every call; a single match can flip several players'
// eligibility at once, so nothing incremental is maintained.
func (s *Store) Rank(field ScoreField) []string {
	type entry struct {
		id    string
		score int
	}
	var entries []entry
	s.each(func(r *Record) {
		if field.Eligible(r) {
			entries = append(entries, entry{id: r.ID, score: field.Value(r)})
		}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Position returns the 1-based leaderboard rank for a player, or false when
// the player is ineligible or unknown.
func (s *Store) Position(id string, field ScoreField) (int, bool) {
	for i, ranked := range s.Rank(field) {
		if ranked == id {
			return i + 1, true
		}
	}
	return 0, false
}
