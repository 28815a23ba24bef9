// Package store provides the durable key-value substrate shared by the
// preference, status, saved-jobs and digest stores, plus a change
// notification hub so every live session observes writes made by others.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Well-known keys. Digest snapshots use DigestKey(dateKey) so each day is
// independently addressable.
const (
	KeyPreferences   = "preferences"
	KeyStatus        = "status"
	KeyStatusHistory = "status_history"
	KeySavedJobs     = "saved_jobs"
)

// DigestKey returns the storage key for one calendar day's digest.
func DigestKey(dateKey string) string {
	return "digest:" + dateKey
}

// Event describes a write observed on a subscribed key. Present is false
// when the key was removed.
type Event struct {
	Key     string
	Value   []byte
	Present bool
}

// Store owns the SQLite database and the subscription hub. All record-level
// writes are last-writer-wins; notifications are delivered in write order
// per key, coalescing to the latest value for slow receivers.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	nextID int
	subs   map[string][]*subscriber
}

type subscriber struct {
	id      int
	session int
	key     string
	ch      chan Event
}

// Open creates the database file (and its directory) if needed and
// prepares the kv table.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, subs: make(map[string][]*subscriber)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSession returns an independent view of the store. Writes made through
// one session are announced to subscribers of every other session.
func (s *Store) NewSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return &Session{store: s, id: s.nextID}
}

func (s *Store) get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) set(key string, value []byte, writer int) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("store set %q: %w", key, err)
	}
	s.publish(Event{Key: key, Value: value, Present: true}, writer)
	return nil
}

func (s *Store) remove(key string, writer int) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("store remove %q: %w", key, err)
	}
	s.publish(Event{Key: key, Present: false}, writer)
	return nil
}

// publish fans an event out to every subscriber of key except those owned
// by the writing session. Channels hold one event; a pending undelivered
// event is replaced by the newer one, so receivers always see the latest
// value even when they lag.
func (s *Store) publish(ev Event, writer int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs[ev.Key] {
		if sub.session == writer {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}
			sub.ch <- ev
		}
	}
}

func (s *Store) subscribe(key string, session int) (*subscriber, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub := &subscriber{
		id:      s.nextID,
		session: session,
		key:     key,
		ch:      make(chan Event, 1),
	}
	s.subs[key] = append(s.subs[key], sub)

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[key]
		for i, candidate := range list {
			if candidate.id == sub.id {
				s.subs[key] = append(list[:i], list[i+1:]...)
				close(sub.ch)
				break
			}
		}
	}
	return sub, cancel
}

// Session is one live view of the shared state. Components hold a session,
// never the raw store, so writer exclusion works per view.
type Session struct {
	store *Store
	id    int
}

// Get returns the raw stored value for key, or ok=false when absent.
func (se *Session) Get(key string) ([]byte, bool, error) {
	return se.store.get(key)
}

// Set replaces the stored value for key and notifies other sessions.
func (se *Session) Set(key string, value []byte) error {
	return se.store.set(key, value, se.id)
}

// Remove deletes key and notifies other sessions.
func (se *Session) Remove(key string) error {
	return se.store.remove(key, se.id)
}

// Subscribe delivers writes to key made by other sessions. The returned
// cancel func releases the subscription.
func (se *Session) Subscribe(key string) (<-chan Event, func()) {
	sub, cancel := se.store.subscribe(key, se.id)
	return sub.ch, cancel
}
