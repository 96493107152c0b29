package matching

import (
	"strings"
	"unicode"
)

// NormalizeCategory lowers s and strips everything but letters, so that
// "Ремонт / отделка" and "ремонт" compare equal-ish by containment.
func NormalizeCategory(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mainPart takes the segment before a slash: "Сантехника/электрика" -> "Сантехника".
func mainPart(s string) string {
	if i := strings.IndexRune(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// CategoriesMatch reports whether a request category matches any of the
// master's categories: containment in either direction on the normalized
// forms. A master with no categories never matches.
func CategoriesMatch(requestCategory string, masterCategories []string) bool {
	want := NormalizeCategory(requestCategory)
	if want == "" {
		return false
	}
	for _, raw := range masterCategories {
		have := NormalizeCategory(mainPart(raw))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return true
		}
	}
	return false
}
