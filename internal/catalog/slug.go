package catalog

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
	spacesRegex    = regexp.MustCompile(`\s+`)
)

// ToSlug turns a backend value such as "MUSKARCI_OBUCA" into "muskarci-obuca".
func ToSlug(apiValue string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(apiValue)), "_", "-")
}

// FromSlug is the inverse of ToSlug.
func FromSlug(slug string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(slug)), "-", "_")
}

// ToLabel renders a backend value as a heading: "ZENSKE_PATIKE" -> "Zenske patike".
func ToLabel(apiValue string) string {
	s := strings.ToLower(apiValue)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.TrimSpace(spacesRegex.ReplaceAllString(s, " "))
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Slugify keeps Unicode letters and digits and joins everything else with
// single dashes.
func Slugify(s string) string {
	slug := strings.TrimSpace(strings.ToLower(s))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Heading joins the gender and category slugs of a route as labels.
func Heading(genderSlug, categorySlug string) string {
	var parts []string
	if genderSlug != "" {
		parts = append(parts, ToLabel(FromSlug(genderSlug)))
	}
	if categorySlug != "" {
		parts = append(parts, ToLabel(FromSlug(categorySlug)))
	}
	return strings.Join(parts, " / ")
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
