package search

import "strings"

// filterKeywords are the terms the title/description refinements look for.
var filterKeywords = []string{"angular", "rxjs"}

// ApplyFilter refines items by mode. The input slice is never modified.
func ApplyFilter(items []Item, mode FilterMode) []Item {
	var field func(Item) string
	switch mode {
	case FilterTitle:
		field = func(it Item) string { return it.Title }
	case FilterDescription:
		field = func(it Item) string { return it.Description }
	default:
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if containsAny(strings.ToLower(field(it)), filterKeywords) {
			out = append(out, it)
		}
	}
	return out
}

// Matches reports whether term occurs, case-insensitively, in the item's
// title or description.
func (it Item) Matches(term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(it.Title), needle) ||
		strings.Contains(strings.ToLower(it.Description), needle)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
