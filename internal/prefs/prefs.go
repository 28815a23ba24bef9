// Package prefs persists the user's matching criteria.
package prefs

import (
	"encoding/json"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

// Store reads and writes the single preferences record. Saves replace the
// record wholesale; there is no partial-field persistence.
type Store struct {
	session *store.Session
}

func New(session *store.Session) *Store {
	return &Store{session: session}
}

// Load returns the stored preferences merged over defaults, plus whether
// the user has explicitly saved preferences at least once. Missing or
// corrupt stored values degrade to defaults and count as unsaved.
func (s *Store) Load() (models.Preferences, bool, error) {
	prefs := models.DefaultPreferences()

	raw, ok, err := s.session.Get(store.KeyPreferences)
	if err != nil {
		return prefs, false, err
	}
	if !ok {
		return prefs, false, nil
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return models.DefaultPreferences(), false, nil
	}
	return prefs, true, nil
}

// Save replaces the stored preferences. Once saved, the explicit-save flag
// observed by Load never reverts.
func (s *Store) Save(prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.session.Set(store.KeyPreferences, raw)
}

// Watch reports preference writes made by other sessions. Each delivered
// value is already merged over defaults.
func (s *Store) Watch() (<-chan models.Preferences, func()) {
	events, cancel := s.session.Subscribe(store.KeyPreferences)
	out := make(chan models.Preferences, 1)

	go func() {
		defer close(out)
		for ev := range events {
			prefs := models.DefaultPreferences()
			if ev.Present {
				if err := json.Unmarshal(ev.Value, &prefs); err != nil {
					prefs = models.DefaultPreferences()
				}
			}
			select {
			case out <- prefs:
			default:
				select {
				case <-out:
				default:
				}
				out <- prefs
			}
		}
	}()

	return out, cancel
}
