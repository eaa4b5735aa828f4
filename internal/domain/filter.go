package domain

import "strings"

// CategoryAll is the wildcard category selector that matches every card.
const CategoryAll = "all"

// FilterCards returns the subset of cards matching the search term and
// category selector. A card passes when the search term is empty or is a
// case-insensitive substring of its front or back text, and when the
// category is CategoryAll or equals the card's category exactly.
// Input order is preserved; the input slice is never modified.
func FilterCards(cards []Card, searchTerm, category string) []Card {
	term := strings.ToLower(searchTerm)

	matched := make([]Card, 0, len(cards))
	for _, c := range cards {
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Front), term) &&
			!strings.Contains(strings.ToLower(c.Back), term) {
			continue
		}
		if category != CategoryAll && c.Category != category {
			continue
		}
		matched = append(matched, c)
	}
	return matched
}

// Categories returns the distinct categories present in cards, in first-seen
// order.
func Categories(cards []Card) []string {
	seen := make(map[string]struct{}, len(cards))
	var out []string
	for _, c := range cards {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	return out
}
