package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// NormalizeTags trims, lower-cases and de-duplicates free text tags while
// keeping first-seen order. Empty tags are dropped. Never returns nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := LowerCaser.String(strings.Join(strings.Fields(tag), " "))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// Title turns an item like "white leather sneakers" into "White Leather Sneakers".
func Title(value string) string {
	return TitleCaser.String(strings.TrimSpace(value))
}

// JoinList renders tags for prompts: "a, b, c".
func JoinList(values []string) string {
	return strings.Join(values, ", ")
}
