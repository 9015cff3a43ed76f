package domain

import "strings"

// MatchesKeyword reports whether an item matches a search keyword.
// A blank keyword matches everything. Otherwise the match is a
// case-insensitive substring test against title, description, and ID,
// in that order, short-circuiting on the first hit. This is deliberately
// lenient recall-oriented matching: no scoring, stemming, or tokenization.
func MatchesKeyword(item MapItem, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return true
	}

	lower := strings.ToLower(keyword)
	common := item.Common()

	if strings.Contains(strings.ToLower(common.Title), lower) {
		return true
	}
	if strings.Contains(strings.ToLower(common.Description), lower) {
		return true
	}
	return strings.Contains(strings.ToLower(common.ID), lower)
}

// NormalizeDescription collapses whitespace and truncates long source text
// so descriptions stay map-popup sized. Truncation is rune-aware; Japanese
// text would otherwise be cut mid-character.
func NormalizeDescription(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")

	const maxRunes = 300
	runes := []rune(normalized)
	if len(runes) <= maxRunes {
		return normalized
	}
	return string(runes[:maxRunes]) + "..."
}
