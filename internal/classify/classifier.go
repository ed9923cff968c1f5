package classify

import (
	"strings"

	"github.com/f3rmion/livevote/internal/textnorm"
	"github.com/f3rmion/livevote/internal/vote"
)

// Overlap describes a key claimed by more than one option.
type Overlap struct {
	Key    string
	Winner vote.OptionID // Option configured first, which takes the match
	Loser  vote.OptionID
}

// Classifier matches text units against an ordered list of options.
// Options configured earlier win when a unit matches several of them.
type Classifier struct {
	options   []vote.Option
	keys      []KeywordSet
	tokenizer textnorm.Tokenizer
	romanizer *textnorm.Romanizer
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTokenizer selects the tokenizer used for word matching.
func WithTokenizer(t textnorm.Tokenizer) Option {
	return func(c *Classifier) {
		c.tokenizer = t
	}
}

// WithRomanizer transliterates Han text before matching.
func WithRomanizer(r *textnorm.Romanizer) Option {
	return func(c *Classifier) {
		c.romanizer = r
	}
}

// New builds a classifier for the options in evaluation order.
func New(options []vote.Option, opts ...Option) *Classifier {
	c := &Classifier{
		options:   append([]vote.Option(nil), options...),
		keys:      make([]KeywordSet, len(options)),
		tokenizer: textnorm.NewTokenizer(textnorm.ModeAuto),
	}
	for i, o := range options {
		c.keys[i] = buildFromOption(o)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.romanizer != nil {
		// Keys written in Han script must be comparable with romanized units.
		for i := range c.keys {
			c.keys[i] = c.romanizeKeys(c.keys[i])
		}
	}
	return c
}

// Options returns the configured options in evaluation order.
func (c *Classifier) Options() []vote.Option {
	return c.options
}

// Keywords returns the key set of the option at index i.
func (c *Classifier) Keywords(i int) KeywordSet {
	return c.keys[i]
}

// Keys returns every normalized key across all options, in option order.
func (c *Classifier) Keys() []string {
	var keys []string
	for _, ks := range c.keys {
		keys = append(keys, ks.Keys()...)
	}
	return keys
}

// Classify assigns unit to the first option whose phrase keys occur in it as
// a substring, or whose word keys equal one of its tokens.
func (c *Classifier) Classify(unit string) (vote.OptionID, bool) {
	n := c.prepare(unit)
	if n == "" {
		return "", false
	}
	collapsed := strings.Join(strings.Fields(n), " ")
	tokens := c.tokenizer.Tokenize(n)

	for i, ks := range c.keys {
		for _, p := range ks.Phrases {
			if strings.Contains(collapsed, p) {
				return c.options[i].ID, true
			}
		}
		for _, tok := range tokens {
			if ks.HasWord(tok) {
				return c.options[i].ID, true
			}
		}
	}
	return "", false
}

// ClassifyWord is the streaming policy: only word keys are consulted, and a
// token must equal one of them exactly. Phrase keys never match here.
func (c *Classifier) ClassifyWord(unit string) (vote.OptionID, bool) {
	n := c.prepare(unit)
	if n == "" {
		return "", false
	}
	tokens := c.tokenizer.Tokenize(n)
	for i, ks := range c.keys {
		for _, tok := range tokens {
			if ks.HasWord(tok) {
				return c.options[i].ID, true
			}
		}
	}
	return "", false
}

// Overlaps lists keys shared by several options. The first option keeps
// the key at match time; the list exists for startup diagnostics.
func (c *Classifier) Overlaps() []Overlap {
	var out []Overlap
	owner := make(map[string]vote.OptionID)
	for i, ks := range c.keys {
		id := c.options[i].ID
		check := func(key string) {
			if first, ok := owner[key]; ok && first != id {
				out = append(out, Overlap{Key: key, Winner: first, Loser: id})
				return
			}
			owner[key] = id
		}
		for _, p := range ks.Phrases {
			check(p)
		}
		for w := range ks.Words {
			check(w)
		}
	}
	return out
}

func (c *Classifier) prepare(unit string) string {
	if c.romanizer != nil {
		unit = c.romanizer.Romanize(unit)
	}
	return textnorm.Normalize(unit)
}

func (c *Classifier) romanizeKeys(ks KeywordSet) KeywordSet {
	var entries []string
	for _, k := range ks.Keys() {
		entries = append(entries, textnorm.Normalize(c.romanizer.Romanize(k)))
	}
	return partition(entries)
}
