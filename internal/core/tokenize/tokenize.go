// Package tokenize splits comment bodies into the two token views the
// feature stage consumes: UAX #29 word tokens filtered to purely
// alphanumeric runs, and a per-character tabulation over a fixed class
package tokenize

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Punctuation is the fixed set of counted punctuation marks, in schema order
var Punctuation = []rune{
	'.', '?', '!', ',', ';', ':', '(', ')', '"', '-', '\'', '`',
	'~', '@', '#', '$', '%', '^', '&', '*', '_', '+', '=',
	'[', ']', '{', '}', '\\', '|', '/', '<', '>',
}

// classSet is the full countable class: a-z, 0-9, Punctuation
var classSet = buildClassSet()

func buildClassSet() map[rune]struct{} {
	set := make(map[rune]struct{}, 26+10+len(Punctuation))
	for r := 'a'; r <= 'z'; r++ {
		set[r] = struct{}{}
	}
	for r := '0'; r <= '9'; r++ {
		set[r] = struct{}{}
	}
	for _, r := range Punctuation {
		set[r] = struct{}{}
	}
	return set
}

// Words segments body by UAX #29 word boundaries and keeps only tokens whose
// runes are all letters or digits, so "don't" and "3.5" segment whole and are
// dropped, while commas and other separator tokens never appear.
// Returns index-aligned original-case and lower-cased slices
func Words(body string) (orig, lower []string) {
	if body == "" {
		return nil, nil
	}
	toks := words.FromString(body)
	for toks.Next() {
		tok := toks.Value()
		if !alphanumeric(tok) {
			continue
		}
		orig = append(orig, tok)
		lower = append(lower, strings.ToLower(tok))
	}
	return orig, lower
}

// alphanumeric reports whether every rune of s is a letter or digit
func alphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CharCounts tabulates, over the lower-cased body, every rune inside the
// fixed class. Not word-aware: digits inside numbers and apostrophes inside
// contractions all count. Runes outside the class are ignored entirely
func CharCounts(body string) map[rune]int {
	counts := make(map[rune]int)
	for _, r := range strings.ToLower(body) {
		if _, ok := classSet[r]; ok {
			counts[r]++
		}
	}
	return counts
}
