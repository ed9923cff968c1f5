package driver

import (
	"sync"

	"github.com/f3rmion/livevote/internal/classify"
	"github.com/f3rmion/livevote/internal/vote"
)

// Streamer applies streamed chat messages to a cumulative tally. Counts
// grow for the lifetime of the connection and only drop on Reset.
type Streamer struct {
	classifier *classify.Classifier
	notifier   Notifier

	mu    sync.Mutex
	tally vote.Tally
}

// NewStreamer creates a streamer with an all-zero tally.
func NewStreamer(c *classify.Classifier, n Notifier) *Streamer {
	return &Streamer{
		classifier: c,
		notifier:   n,
		tally:      vote.NewTally(c.Options()),
	}
}

// Apply classifies one message and, when it matches, increments the count
// and notifies. Messages are expected in arrival order.
func (s *Streamer) Apply(text string) (vote.OptionID, bool) {
	s.mu.Lock()
	id, ok := s.classifier.ApplyMessage(text, s.tally)
	snapshot := s.tally.Clone()
	s.mu.Unlock()

	if ok && s.notifier != nil {
		s.notifier.OnTallyUpdated(snapshot)
	}
	return id, ok
}

// Tally returns a copy of the cumulative tally.
func (s *Streamer) Tally() vote.Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally.Clone()
}

// Reset zeroes every count and notifies.
func (s *Streamer) Reset() {
	s.mu.Lock()
	s.tally = vote.NewTally(s.classifier.Options())
	snapshot := s.tally.Clone()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.OnTallyUpdated(snapshot)
	}
}
