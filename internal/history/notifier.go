package history

import (
	"log/slog"

	"github.com/f3rmion/livevote/internal/vote"
)

// Recorder adapts a Store to the driver notification contract. Write
// failures are logged and otherwise ignored.
type Recorder struct {
	Store  *Store
	Logger *slog.Logger
}

// OnTallyUpdated records t.
func (r Recorder) OnTallyUpdated(t vote.Tally) {
	if err := r.Store.Record(t); err != nil && r.Logger != nil {
		r.Logger.Warn("recording tally failed", "error", err)
	}
}
