package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the comparison key and display form of a raw player
// name. The display form is NFC-normalized, trimmed, and has internal
// whitespace collapsed to single spaces; the key is the case-folded display
// form. Both are empty for a blank name.
//
// "Bob", " bob ", and "BOB" share the key "bob".
func NormalizeName(raw string) (key, display string) {
	display = strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
	if display == "" {
		return "", ""
	}
	// Casers keep state between calls, so each call gets its own.
	return cases.Fold().String(display), display
}

// SameName reports whether two raw names resolve to the same player.
func SameName(a, b string) bool {
	ka, _ := NormalizeName(a)
	kb, _ := NormalizeName(b)
	return ka != "" && ka == kb
}
