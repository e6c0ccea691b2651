// Package analytics computes derived statistics over the usage and visit
// logs. Everything here is pure and recomputed per view; the logs are small
// enough that caching would only add staleness.
package analytics

import (
	"fmt"
	"sort"

	"promail/internal/domain"
)

// DefaultTopN is the list length shown on the dashboard.
const DefaultTopN = 5

// Count pairs a grouped label with its occurrence count.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopCombinations groups usage by "Language - Tone", ordered by descending
// count with ties kept in first-encountered order, truncated to n (DefaultTopN
// when n <= 0). Entries with values outside the known enumerations are
// skipped; they may have been written by a newer version.
func TopCombinations(entries []domain.UsageEntry, n int) []Count {
	return top(entries, n, func(e domain.UsageEntry) (string, bool) {
		if !e.Language.Valid() || !e.Tone.Valid() {
			return "", false
		}
		return fmt.Sprintf("%s - %s", e.Language, e.Tone), true
	})
}

// TopCategories groups usage by category with the same ordering rules.
func TopCategories(entries []domain.UsageEntry, n int) []Count {
	return top(entries, n, func(e domain.UsageEntry) (string, bool) {
		if !e.Category.Valid() {
			return "", false
		}
		return string(e.Category), true
	})
}

// UniqueUsers counts distinct emails across the usage log.
func UniqueUsers(entries []domain.UsageEntry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Email] = struct{}{}
	}
	return len(seen)
}

// TotalGenerations is the usage log length.
func TotalGenerations(entries []domain.UsageEntry) int {
	return len(entries)
}

// TotalVisits is the visit log length.
func TotalVisits(visits []domain.VisitEntry) int {
	return len(visits)
}

func top(entries []domain.UsageEntry, n int, key func(domain.UsageEntry) (string, bool)) []Count {
	if n <= 0 {
		n = DefaultTopN
	}
	counts := make(map[string]int, len(entries))
	var order []string
	for _, e := range entries {
		label, ok := key(e)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	out := make([]Count, 0, len(order))
	for _, label := range order {
		out = append(out, Count{Label: label, Count: counts[label]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
