package matching

import "talent-marketplace-backend/internal/domain"

// Tally accumulates one point per lookup hit and remembers first-seen order.
type Tally[T any] struct {
	items  []T
	scores []int
	pos    map[string]int
	key    func(T) string
}

func NewTally[T any](key func(T) string) *Tally[T] {
	return &Tally[T]{pos: make(map[string]int), key: key}
}

// Add gives every item of a lookup one point.
func (t *Tally[T]) Add(hits []T) {
	for _, item := range hits {
		k := t.key(item)
		if i, ok := t.pos[k]; ok {
			t.scores[i]++
			continue
		}
		t.pos[k] = len(t.items)
		t.items = append(t.items, item)
		t.scores = append(t.scores, 1)
	}
}

// Top returns at most limit items by descending points, skipping excluded keys.
// A non-positive limit returns everything.
func (t *Tally[T]) Top(limit int, excluded map[string]struct{}) []T {
	entries := make([]entry, 0, len(t.items))
	for i, item := range t.items {
		if _, skip := excluded[t.key(item)]; skip {
			continue
		}
		entries = append(entries, entry{score: t.scores[i], index: i})
	}

	out := make([]T, 0, min(len(entries), max(limit, 0)))
	for _, pos := range order(entries) {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, t.items[pos])
	}
	return out
}

// SuggestProfiles merges lookup results (one address lookup plus one per
// required skill) into a ranked suggestion list.
func SuggestProfiles(lookups [][]domain.Profile, excluded map[string]struct{}, limit int) []domain.Profile {
	tally := NewTally(func(p domain.Profile) string { return p.ID })
	for _, hits := range lookups {
		tally.Add(hits)
	}
	return tally.Top(limit, excluded)
}

// SuggestServices is the same merge over service lookups.
func SuggestServices(lookups [][]domain.Service, excluded map[string]struct{}, limit int) []domain.Service {
	tally := NewTally(func(s domain.Service) string { return s.ID })
	for _, hits := range lookups {
		tally.Add(hits)
	}
	return tally.Top(limit, excluded)
}
