// Package driver runs the vote classifier on a schedule (polling) or per
// incoming message (streaming) and reports tally changes to a Notifier.
package driver

import "github.com/f3rmion/livevote/internal/vote"

// Notifier receives every tally that differs from the previous one.
type Notifier interface {
	OnTallyUpdated(t vote.Tally)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(t vote.Tally)

// OnTallyUpdated calls f.
func (f NotifierFunc) OnTallyUpdated(t vote.Tally) {
	f(t)
}

// Multi fans a tally out to several notifiers in order.
type Multi []Notifier

// OnTallyUpdated forwards t to each notifier.
func (m Multi) OnTallyUpdated(t vote.Tally) {
	for _, n := range m {
		if n != nil {
			n.OnTallyUpdated(t.Clone())
		}
	}
}
