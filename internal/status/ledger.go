// Package status tracks application progress per posting, with a bounded
// global change history.
package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

// MaxHistory bounds the change history globally, not per posting.
const MaxHistory = 50

// Ledger is the durable posting-id -> status map plus its history.
// Postings absent from the map are Not Applied.
type Ledger struct {
	session *store.Session
	now     func() time.Time
}

func New(session *store.Session) *Ledger {
	return &Ledger{session: session, now: time.Now}
}

// NewWithClock injects the timestamp source for tests.
func NewWithClock(session *store.Session, now func() time.Time) *Ledger {
	return &Ledger{session: session, now: now}
}

// Get returns the status for a posting, defaulting to Not Applied.
func (l *Ledger) Get(postingID int) (models.Status, error) {
	statuses, err := l.All()
	if err != nil {
		return models.StatusNotApplied, err
	}
	if st, ok := statuses[postingID]; ok {
		return st, nil
	}
	return models.StatusNotApplied, nil
}

// All returns the stored status map. Corrupt stored values degrade to an
// empty map.
func (l *Ledger) All() (map[int]models.Status, error) {
	raw, ok, err := l.session.Get(store.KeyStatus)
	if err != nil {
		return nil, err
	}
	statuses := make(map[int]models.Status)
	if !ok {
		return statuses, nil
	}
	if err := json.Unmarshal(raw, &statuses); err != nil {
		return make(map[int]models.Status), nil
	}
	return statuses, nil
}

// Set overwrites the posting's status and unconditionally prepends a
// history entry, truncated to the newest MaxHistory. Re-setting the current
// status still records a change.
func (l *Ledger) Set(postingID int, st models.Status) error {
	if _, ok := models.ParseStatus(string(st)); !ok {
		return fmt.Errorf("unknown status %q", st)
	}

	statuses, err := l.All()
	if err != nil {
		return err
	}
	statuses[postingID] = st

	raw, err := json.Marshal(statuses)
	if err != nil {
		return err
	}
	if err := l.session.Set(store.KeyStatus, raw); err != nil {
		return err
	}

	history, err := l.History()
	if err != nil {
		return err
	}
	entry := models.StatusChange{
		PostingID: postingID,
		Status:    st,
		Date:      l.now().Format(time.RFC3339),
	}
	history = append([]models.StatusChange{entry}, history...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}

	raw, err = json.Marshal(history)
	if err != nil {
		return err
	}
	return l.session.Set(store.KeyStatusHistory, raw)
}

// History returns the stored change history, newest first.
func (l *Ledger) History() ([]models.StatusChange, error) {
	raw, ok, err := l.session.Get(store.KeyStatusHistory)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.StatusChange{}, nil
	}
	var history []models.StatusChange
	if err := json.Unmarshal(raw, &history); err != nil {
		return []models.StatusChange{}, nil
	}
	return history, nil
}

// Watch reports status-map writes made by other sessions.
func (l *Ledger) Watch() (<-chan map[int]models.Status, func()) {
	events, cancel := l.session.Subscribe(store.KeyStatus)
	out := make(chan map[int]models.Status, 1)

	go func() {
		defer close(out)
		for ev := range events {
			statuses := make(map[int]models.Status)
			if ev.Present {
				if err := json.Unmarshal(ev.Value, &statuses); err != nil {
					statuses = make(map[int]models.Status)
				}
			}
			select {
			case out <- statuses:
			default:
				select {
				case <-out:
				default:
				}
				out <- statuses
			}
		}
	}()

	return out, cancel
}
