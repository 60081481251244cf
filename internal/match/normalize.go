package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds a name for fuzzy matching: lower case, with the
// separators '_', '-', ' ' and '.' removed, so "simple.CustomerOrder",
// "Simple_customer-order" and "simplecustomerorder" compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// TokenizeIdent splits a CamelCase or dotted name into lower-case tokens.
//   - "PlaceOrder" -> ["place", "order"]
//   - "simple.XMLImport" -> ["simple", "xml", "import"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

// startsToken reports a lower-to-upper transition, or the last upper-case
// rune of an acronym followed by a lower-case rune ("XMLParser" splits before P).
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
