// Package slug derives URL-safe product and category slugs from Brazilian
// Portuguese display names.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

	// Covers the accented characters that actually occur in pt-BR copy.
	accents = strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
)

// Generate lowercases name, strips accents, and joins the remaining
// alphanumeric runs with single hyphens:
//
//	"Coleção Verão" → "colecao-verao"
//	"Biquíni Cintura Alta" → "biquini-cintura-alta"
func Generate(name string) string {
	s := accents.Replace(strings.ToLower(strings.TrimSpace(name)))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
