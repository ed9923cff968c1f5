// Package vote provides the core types shared by the live vote classifier.
package vote

import "math"

// OptionID identifies a vote option.
type OptionID string

const (
	OptionYes   OptionID = "yes"   // First default option
	OptionNo    OptionID = "no"    // Second default option
	OptionOther OptionID = "other" // Third option, only when configured
)

// MaxCount is the largest count accepted from a classification pass.
// Anything outside [0, MaxCount] is treated as malformed upstream data.
const MaxCount = 10_000_000

// Option is one selectable vote outcome.
type Option struct {
	ID       OptionID `yaml:"id" json:"id"`                                 // Stable identifier (e.g., "yes", "no")
	Label    string   `yaml:"label" json:"label"`                           // Display label, always an implicit key
	Synonyms []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"` // Raw synonym entries, normalized later
	Color    string   `yaml:"color,omitempty" json:"color,omitempty"`       // Display color as #rrggbb
}

// Tally maps each option to its current count.
type Tally map[OptionID]int

// NewTally returns a zeroed tally with one entry per option.
func NewTally(options []Option) Tally {
	t := make(Tally, len(options))
	for _, o := range options {
		t[o.ID] = 0
	}
	return t
}

// Total returns the sum of all counts.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Clone returns an independent copy of the tally.
func (t Tally) Clone() Tally {
	c := make(Tally, len(t))
	for id, n := range t {
		c[id] = n
	}
	return c
}

// Equal reports whether both tallies hold the same counts.
// Missing entries count as zero.
func (t Tally) Equal(other Tally) bool {
	for id, n := range t {
		if other[id] != n {
			return false
		}
	}
	for id, n := range other {
		if t[id] != n {
			return false
		}
	}
	return true
}

// Leader returns the option with the highest count. Ties go to the option
// configured first. When every count is zero there is no leader.
func (t Tally) Leader(options []Option) (OptionID, bool) {
	var (
		best  OptionID
		count int
		found bool
	)
	for _, o := range options {
		if n := t[o.ID]; n > count {
			best, count, found = o.ID, n, true
		}
	}
	return best, found
}

// Percentages returns each option's share of the total, rounded so that the
// values add up to 100. All zeroes when the total is zero.
func (t Tally) Percentages(options []Option) map[OptionID]int {
	out := make(map[OptionID]int, len(options))
	total := 0
	for _, o := range options {
		total += t[o.ID]
	}
	if total == 0 {
		for _, o := range options {
			out[o.ID] = 0
		}
		return out
	}

	// Largest remainder keeps the sum at exactly 100.
	type share struct {
		id  OptionID
		rem float64
	}
	assigned := 0
	shares := make([]share, 0, len(options))
	for _, o := range options {
		exact := float64(t[o.ID]) * 100 / float64(total)
		floor := int(math.Floor(exact))
		out[o.ID] = floor
		assigned += floor
		shares = append(shares, share{o.ID, exact - float64(floor)})
	}
	for assigned < 100 {
		best := 0
		for i := range shares {
			if shares[i].rem > shares[best].rem {
				best = i
			}
		}
		out[shares[best].id]++
		shares[best].rem = -1
		assigned++
	}
	return out
}

// ValidCount reports whether n is a usable count.
func ValidCount(n int) bool {
	return n >= 0 && n <= MaxCount
}

// ValidFloat reports whether f is a finite count within bounds.
func ValidFloat(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 && f <= MaxCount
}

// Sanitize returns next with every invalid count replaced by the value in
// prev, so a malformed update never clobbers the last good state.
func Sanitize(prev, next Tally) Tally {
	out := make(Tally, len(next))
	for id, n := range next {
		if ValidCount(n) {
			out[id] = n
			continue
		}
		out[id] = prev[id]
	}
	return out
}
