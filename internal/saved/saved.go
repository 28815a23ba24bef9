// Package saved persists the user's bookmarked posting ids.
package saved

import (
	"encoding/json"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

// Store keeps the ordered list of saved posting ids. Ids keep insertion
// order; removing and re-adding moves an id to the end.
type Store struct {
	session *store.Session
}

func New(session *store.Session) *Store {
	return &Store{session: session}
}

// IDs returns the saved posting ids. Corrupt stored values degrade to an
// empty list.
func (s *Store) IDs() ([]int, error) {
	raw, ok, err := s.session.Get(store.KeySavedJobs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []int{}, nil
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []int{}, nil
	}
	return ids, nil
}

// IsSaved reports whether a posting id is bookmarked.
func (s *Store) IsSaved(id int) (bool, error) {
	ids, err := s.IDs()
	if err != nil {
		return false, err
	}
	for _, candidate := range ids {
		if candidate == id {
			return true, nil
		}
	}
	return false, nil
}

// Toggle adds the id when absent and removes it when present, returning
// the new saved state.
func (s *Store) Toggle(id int) (bool, error) {
	ids, err := s.IDs()
	if err != nil {
		return false, err
	}

	next := make([]int, 0, len(ids)+1)
	removed := false
	for _, candidate := range ids {
		if candidate == id {
			removed = true
			continue
		}
		next = append(next, candidate)
	}
	if !removed {
		next = append(next, id)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	if err := s.session.Set(store.KeySavedJobs, raw); err != nil {
		return false, err
	}
	return !removed, nil
}

// Add bookmarks the id if it is not already saved.
func (s *Store) Add(id int) error {
	saved, err := s.IsSaved(id)
	if err != nil || saved {
		return err
	}
	_, err = s.Toggle(id)
	return err
}

// Remove drops the id from the saved list if present.
func (s *Store) Remove(id int) error {
	saved, err := s.IsSaved(id)
	if err != nil || !saved {
		return err
	}
	_, err = s.Toggle(id)
	return err
}
