package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

	bracketed   = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	sizeSuffix  = regexp.MustCompile(`(?i)\b(ring\s+)?size\s*[:\-]?\s*[0-9]+(\.[0-9]+)?\b`)
	caratWeight = regexp.MustCompile(`(?i)\b[0-9]+(\.[0-9]+)?\s*ctw\b`)
	spaces      = regexp.MustCompile(`\s+`)
)

// Slugify lowercases name, folds accents and joins the remaining
// alphanumeric runs with '-'.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(name)) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	slug := slugInvalid.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}

// GenericName strips per-item qualifiers (bracketed notes, ring sizes, carat
// weights) from a product name so sibling products share one name.
func GenericName(name string) string {
	name = bracketed.ReplaceAllString(name, " ")
	name = sizeSuffix.ReplaceAllString(name, " ")
	name = caratWeight.ReplaceAllString(name, " ")
	name = spaces.ReplaceAllString(name, " ")
	return strings.Trim(name, " ,-|")
}
