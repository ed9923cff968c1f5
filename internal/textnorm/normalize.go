// Package textnorm normalizes and tokenizes noisy chat text.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, strips diacritics and trims surrounding
// whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		// The chain never fails on valid input; keep the lower-cased text.
		out = strings.ToLower(s)
	}
	// Lower-casing after decomposition catches the few runes whose lower
	// form only exists decomposed (e.g. U+0130).
	return strings.TrimSpace(strings.ToLower(out))
}

// Mode selects how text is split into tokens.
type Mode string

const (
	ModeAuto    Mode = "auto"    // Unicode when available
	ModeUnicode Mode = "unicode" // Split on non-letter/non-digit runes
	ModeASCII   Mode = "ascii"   // Split on [^a-z0-9]+
)

var asciiSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// unicodeClasses reports whether Unicode letter/digit classes are usable.
// The Go runtime always ships the tables; the variable exists so the ASCII
// path can be selected and tested explicitly.
var unicodeClasses = unicode.IsLetter('é') && unicode.IsDigit('٣')

// Tokenizer splits normalized text into tokens.
type Tokenizer struct {
	unicode bool
}

// NewTokenizer returns a tokenizer for the given mode. Unknown modes fall
// back to auto.
func NewTokenizer(mode Mode) Tokenizer {
	switch mode {
	case ModeASCII:
		return Tokenizer{unicode: false}
	case ModeUnicode:
		return Tokenizer{unicode: true}
	default:
		return Tokenizer{unicode: unicodeClasses}
	}
}

// Unicode reports whether the tokenizer uses Unicode character classes.
func (t Tokenizer) Unicode() bool {
	return t.unicode
}

// Tokenize splits s into tokens using the tokenizer's mode.
func (t Tokenizer) Tokenize(s string) []string {
	if t.unicode {
		return Tokenize(s)
	}
	return TokenizeASCII(s)
}

// Tokenize splits s on runs of non-letter/non-digit runes.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenizeASCII splits s on runs of anything outside [a-z0-9]. Letters
// outside ASCII act as separators.
func TokenizeASCII(s string) []string {
	parts := asciiSeparators.Split(s, -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
