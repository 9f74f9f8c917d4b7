package state

import (
	"strconv"
	"strings"

	"github.com/atomicstack/gridcase/internal/menu"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterItems returns the items matching query. "#<n>" selects the result
// leaf for case n; anything else is matched fuzzily against labels, falling
// back to substring matches on label or id.
func FilterItems(items []menu.Item, query string) []menu.Item {
	q := strings.TrimSpace(query)
	if q == "" {
		return CloneItems(items)
	}
	if id, ok := caseQuery(q); ok {
		return selectItems(items, func(_ int, item menu.Item) bool {
			return !item.Group && item.CaseID == id
		})
	}
	if ranks := fuzzy.RankFindNormalizedFold(q, labels(items)); len(ranks) > 0 {
		hit := make(map[int]bool, len(ranks))
		for _, r := range ranks {
			hit[r.OriginalIndex] = true
		}
		return selectItems(items, func(i int, _ menu.Item) bool { return hit[i] })
	}
	lower := strings.ToLower(q)
	return selectItems(items, func(_ int, item menu.Item) bool {
		return strings.Contains(strings.ToLower(item.Label), lower) ||
			strings.Contains(strings.ToLower(item.ID), lower)
	})
}

// BestMatchIndex picks the item the cursor should land on for query: an
// exact label or id first, then prefixes, then substrings, then the closest
// fuzzy match. Ties go to the earlier item. It returns -1 only for an empty
// list.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	best, bestScore := -1, 0
	for i, item := range items {
		if s := matchScore(item, q); s >= 0 && (best < 0 || s < bestScore) {
			best, bestScore = i, s
		}
	}
	if best >= 0 {
		return best
	}
	ranks := fuzzy.RankFindNormalizedFold(q, labels(items))
	best = 0
	dist := -1
	for _, r := range ranks {
		if r.OriginalIndex < 0 || r.OriginalIndex >= len(items) {
			continue
		}
		if dist < 0 || r.Distance < dist || (r.Distance == dist && r.OriginalIndex < best) {
			best, dist = r.OriginalIndex, r.Distance
		}
	}
	return best
}

// matchScore ranks a lowercase query against one item; lower is better and
// -1 means no direct match.
func matchScore(item menu.Item, q string) int {
	label, id := strings.ToLower(item.Label), strings.ToLower(item.ID)
	switch {
	case label == q || id == q:
		return 0
	case strings.HasPrefix(label, q):
		return 1
	case strings.HasPrefix(id, q):
		return 2
	case strings.Contains(id, q):
		return 3
	case strings.Contains(label, q):
		return 4
	}
	return -1
}

func selectItems(items []menu.Item, keep func(int, menu.Item) bool) []menu.Item {
	out := make([]menu.Item, 0, len(items))
	for i, item := range items {
		if keep(i, item) {
			out = append(out, item)
		}
	}
	return out
}

func labels(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func caseQuery(q string) (int, bool) {
	rest, ok := strings.CutPrefix(q, "#")
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
