package textnorm

import (
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Romanizer rewrites Han characters as toneless pinyin syllables so Chinese
// chat can match pinyin synonyms ("是" -> "shi").
type Romanizer struct {
	args gopinyin.Args
}

// NewRomanizer creates a romanizer using the first reading of each character.
func NewRomanizer() *Romanizer {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Normal // No tone marks: shi
	args.Heteronym = false
	args.Fallback = func(r rune, a gopinyin.Args) []string {
		return []string{string(r)}
	}
	return &Romanizer{args: args}
}

// Romanize replaces each Han rune with its pinyin, separated by spaces so
// every syllable becomes its own token. Text without Han runes is returned
// unchanged.
func (r *Romanizer) Romanize(s string) string {
	if !containsHan(s) {
		return s
	}

	var sb strings.Builder
	for _, ch := range s {
		if !unicode.Is(unicode.Han, ch) {
			sb.WriteRune(ch)
			continue
		}
		readings := gopinyin.SinglePinyin(ch, r.args)
		if len(readings) == 0 || readings[0] == "" {
			sb.WriteRune(ch)
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(readings[0])
		sb.WriteByte(' ')
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func containsHan(s string) bool {
	for _, ch := range s {
		if unicode.Is(unicode.Han, ch) {
			return true
		}
	}
	return false
}
