package classify

import (
	"strings"

	"github.com/f3rmion/livevote/internal/vote"
)

// Tally classifies every unit of a snapshot independently and counts the
// matches. Unmatched units are dropped. The result only depends on corpus.
func (c *Classifier) Tally(corpus []string) vote.Tally {
	t := vote.NewTally(c.options)
	for _, unit := range corpus {
		if id, ok := c.Classify(unit); ok {
			t[id]++
		}
	}
	return t
}

// TallySnapshot tallies a comma-separated wordcloud snapshot.
func (c *Classifier) TallySnapshot(raw string) vote.Tally {
	return c.Tally(SplitCorpus(raw))
}

// ApplyMessage classifies one streamed message with the word-only policy
// and increments the matching count in t. Counts are never reset here.
// It reports the option that was incremented, if any.
func (c *Classifier) ApplyMessage(text string, t vote.Tally) (vote.OptionID, bool) {
	id, ok := c.ClassifyWord(text)
	if !ok {
		return "", false
	}
	if t[id] >= vote.MaxCount {
		return "", false
	}
	t[id]++
	return id, true
}

// SplitCorpus splits a comma-separated snapshot into trimmed, non-empty units.
func SplitCorpus(raw string) []string {
	parts := strings.Split(raw, ",")
	units := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			units = append(units, p)
		}
	}
	return units
}
