// Package classify assigns chat text to vote options by matching synonyms.
package classify

import (
	"strings"

	"github.com/f3rmion/livevote/internal/textnorm"
	"github.com/f3rmion/livevote/internal/vote"
)

// KeywordSet holds the normalized keys for one option.
type KeywordSet struct {
	Words   map[string]struct{} // Single-token keys, matched exactly
	Phrases []string            // Multi-token keys, matched by substring
}

// HasWord reports whether w is one of the single-token keys.
func (k KeywordSet) HasWord(w string) bool {
	_, ok := k.Words[w]
	return ok
}

// Keys returns every key, words first in no particular order, then phrases.
func (k KeywordSet) Keys() []string {
	keys := make([]string, 0, len(k.Words)+len(k.Phrases))
	for w := range k.Words {
		keys = append(keys, w)
	}
	return append(keys, k.Phrases...)
}

// Default synonym lists, used when an option carries no explicit synonyms.
var (
	DefaultYes = []string{
		"sim", "s", "ss", "sss", "simm", "siim", "yes", "y", "yep", "yeah", "yup",
		"com certeza", "claro que sim", "pode ser", "bora", "isso",
		"concordo", "verdade", "certo", "positivo", "ok", "sí", "si",
	}
	DefaultNo = []string{
		"nao", "n", "nn", "nnn", "naum", "nope", "no", "nah", "never",
		"de jeito nenhum", "claro que nao", "jamais", "nunca", "negativo",
		"discordo", "mentira", "errado",
	}
)

// DefaultSynonyms returns the built-in list for the given option, or nil.
func DefaultSynonyms(id vote.OptionID) []string {
	switch id {
	case vote.OptionYes:
		return DefaultYes
	case vote.OptionNo:
		return DefaultNo
	default:
		return nil
	}
}

// ParseSynonyms splits a synonym list on ',' or '|', normalizes
// each entry and drops empties and duplicates, keeping first-seen order.
func ParseSynonyms(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '|'
	})
	return normalizeAll(fields)
}

// BuildKeywordSet builds the key set for an option. raw wins over defaults
// when it holds at least one entry. The option's own label is always a key.
func BuildKeywordSet(raw string, defaults []string, label string) KeywordSet {
	entries := ParseSynonyms(raw)
	if len(entries) == 0 {
		entries = normalizeAll(defaults)
	}
	return partition(append(entries, textnorm.Normalize(label)))
}

// buildFromOption is BuildKeywordSet for an option whose synonyms are
// already split into entries (config files, query strings).
func buildFromOption(o vote.Option) KeywordSet {
	entries := normalizeAll(o.Synonyms)
	if len(entries) == 0 {
		entries = normalizeAll(DefaultSynonyms(o.ID))
	}
	return partition(append(entries, textnorm.Normalize(o.Label)))
}

func partition(entries []string) KeywordSet {
	ks := KeywordSet{Words: make(map[string]struct{})}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		if strings.ContainsFunc(e, isSpace) {
			ks.Phrases = append(ks.Phrases, strings.Join(strings.Fields(e), " "))
			continue
		}
		ks.Words[e] = struct{}{}
	}
	return ks
}

func normalizeAll(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		n := textnorm.Normalize(e)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
