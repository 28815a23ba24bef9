package status

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "jobtrack.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tick := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return NewWithClock(s.NewSession(), func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})
}

func TestGetDefaultsToNotApplied(t *testing.T) {
	ledger := testLedger(t)

	st, err := ledger.Get(42)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if st != models.StatusNotApplied {
		t.Fatalf("Get() = %q, want Not Applied", st)
	}
}

func TestSetOverwritesLastWriteWins(t *testing.T) {
	ledger := testLedger(t)

	if err := ledger.Set(1, models.StatusApplied); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := ledger.Set(1, models.StatusSelected); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	st, err := ledger.Get(1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if st != models.StatusSelected {
		t.Fatalf("Get() = %q, want Selected", st)
	}
}

func TestSetRejectsUnknownStatus(t *testing.T) {
	ledger := testLedger(t)

	if err := ledger.Set(1, models.Status("Ghosted")); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	history, err := ledger.History()
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected set must not append history, got %d entries", len(history))
	}
}

func TestHistoryNewestFirstAndNoNoOpShortCircuit(t *testing.T) {
	ledger := testLedger(t)

	if err := ledger.Set(1, models.StatusApplied); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	// Same posting, same status: still appends an entry.
	if err := ledger.Set(1, models.StatusApplied); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := ledger.Set(2, models.StatusRejected); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	history, err := ledger.History()
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].PostingID != 2 || history[0].Status != models.StatusRejected {
		t.Fatalf("newest entry = %+v", history[0])
	}
	if history[2].PostingID != 1 || history[2].Status != models.StatusApplied {
		t.Fatalf("oldest entry = %+v", history[2])
	}
	if history[0].Date <= history[2].Date {
		t.Fatalf("timestamps not increasing toward the head: %q vs %q", history[0].Date, history[2].Date)
	}
}

func TestHistoryTruncatedToFiftyGlobally(t *testing.T) {
	ledger := testLedger(t)

	for i := 0; i < 60; i++ {
		if err := ledger.Set(i, models.StatusApplied); err != nil {
			t.Fatalf("Set(%d) error: %v", i, err)
		}
	}

	history, err := ledger.History()
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(history) != MaxHistory {
		t.Fatalf("history length = %d, want %d", len(history), MaxHistory)
	}
	// The 50 most recent sets were postings 10..59, newest first.
	if history[0].PostingID != 59 {
		t.Fatalf("newest entry posting = %d, want 59", history[0].PostingID)
	}
	if history[MaxHistory-1].PostingID != 10 {
		t.Fatalf("oldest kept entry posting = %d, want 10", history[MaxHistory-1].PostingID)
	}
}

func TestCorruptStoredMapDegradesToEmpty(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "jobtrack.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	defer s.Close()

	session := s.NewSession()
	if err := session.Set(store.KeyStatus, []byte(`not json`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	ledger := New(session)
	st, err := ledger.Get(1)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if st != models.StatusNotApplied {
		t.Fatalf("Get() = %q, want Not Applied", st)
	}
}

func TestWatchSeesWritesFromOtherSessions(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "jobtrack.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	defer s.Close()

	writer := New(s.NewSession())
	reader := New(s.NewSession())

	updates, cancel := reader.Watch()
	defer cancel()

	if err := writer.Set(7, models.StatusApplied); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	select {
	case statuses := <-updates:
		if statuses[7] != models.StatusApplied {
			t.Fatalf("watched map = %v", statuses)
		}
	case <-time.After(time.Second):
		t.Fatalf("no status update delivered")
	}
}

func TestHistoryTimestampsAreISO8601(t *testing.T) {
	ledger := testLedger(t)
	if err := ledger.Set(3, models.StatusApplied); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	history, err := ledger.History()
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, history[0].Date); err != nil {
		t.Fatalf("Date %q is not RFC 3339: %v", history[0].Date, err)
	}
}
