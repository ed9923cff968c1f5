package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/f3rmion/livevote/internal/vote"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"), ModePoll)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	Recorder{Store: s}.OnTallyUpdated(vote.Tally{vote.OptionYes: 1, vote.OptionNo: 0})
	Recorder{Store: s}.OnTallyUpdated(vote.Tally{vote.OptionYes: 2, vote.OptionNo: 3})

	snaps, err := s.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Total != 5 || snaps[0].Tally[vote.OptionNo] != 3 {
		t.Errorf("newest snapshot = %+v", snaps[0])
	}
	if snaps[0].Mode != ModePoll {
		t.Errorf("mode = %q", snaps[0].Mode)
	}
	if !snaps[0].RecordedAt.After(snaps[1].RecordedAt) {
		t.Error("snapshots not ordered newest first")
	}

	limited, err := s.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d rows", len(limited))
	}
}
