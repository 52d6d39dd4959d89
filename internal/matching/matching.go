// Package matching scores profiles against services and orders them.
//
// The score of a profile for a service is the number of required skills the
// profile holds plus one point when both share the same address. Orderings are
// always by descending score with ties kept in input order.
package matching

import (
	"sort"

	"talent-marketplace-backend/internal/domain"
)

// DefaultSuggestionLimit caps suggestion results.
const DefaultSuggestionLimit = 6

// Facts is the part of a profile the score reads.
type Facts struct {
	Skills    []string
	AddressID *int64
}

// Score returns |required ∩ facts.Skills| + 1 if the addresses match.
func Score(required []string, addressID *int64, facts Facts) int {
	held := make(map[string]struct{}, len(facts.Skills))
	for _, s := range facts.Skills {
		held[s] = struct{}{}
	}

	score := 0
	seen := make(map[string]struct{}, len(required))
	for _, s := range required {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := held[s]; ok {
			score++
		}
	}
	if sameAddress(addressID, facts.AddressID) {
		score++
	}
	return score
}

func sameAddress(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// entry is one ranked item: its score and its position in the input.
type entry struct {
	score int
	index int
}

// order sorts entries by (-score, index) and returns the input positions.
func order(entries []entry) []int {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].index < entries[j].index
	})
	positions := make([]int, len(entries))
	for i, e := range entries {
		positions[i] = e.index
	}
	return positions
}

// RankCandidates orders every candidate of service by score. Candidates whose
// profile has no entry in facts score as having no skills and no address.
func RankCandidates(service domain.Service, candidates []domain.Candidate, facts map[string]Facts) []domain.Candidate {
	entries := make([]entry, len(candidates))
	for i, c := range candidates {
		entries[i] = entry{
			score: Score(service.Skills, service.AddressID, facts[c.ProfileID]),
			index: i,
		}
	}

	ranked := make([]domain.Candidate, 0, len(candidates))
	for _, pos := range order(entries) {
		ranked = append(ranked, candidates[pos])
	}
	return ranked
}
