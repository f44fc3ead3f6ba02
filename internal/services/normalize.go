package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer strips combining diacritical marks after NFD decomposition,
// then recomposes. "Çay" and "Cay" normalize to the same text. Letters
// without a decomposition (ə, ı) pass through unchanged.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text and removes diacritics so queries and catalog
// fields compare on equal footing. Idempotent; empty input yields empty
// output, never an error.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		// transform only fails on malformed UTF-8; fall back to lowercasing
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
