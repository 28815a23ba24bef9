package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "jobtrack.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetAbsentKey(t *testing.T) {
	s := openTestStore(t)
	session := s.NewSession()

	_, ok, err := session.Get("missing")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent key")
	}
}

func TestSetGetRemoveRoundTrip(t *testing.T) {
	s := openTestStore(t)
	session := s.NewSession()

	if err := session.Set("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	value, ok, err := session.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if string(value) != `{"a":1}` {
		t.Fatalf("Get() = %q", value)
	}

	if err := session.Set("k", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	value, _, _ = session.Get("k")
	if string(value) != `{"a":2}` {
		t.Fatalf("overwrite not visible, got %q", value)
	}

	if err := session.Remove("k"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, ok, _ := session.Get("k"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobtrack.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.NewSession().Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	value, ok, err := s.NewSession().Get("k")
	if err != nil || !ok {
		t.Fatalf("Get() after reopen = ok=%v err=%v", ok, err)
	}
	if string(value) != "v" {
		t.Fatalf("Get() after reopen = %q", value)
	}
}

func TestSubscribeDeliversToOtherSessions(t *testing.T) {
	s := openTestStore(t)
	writer := s.NewSession()
	reader := s.NewSession()

	events, cancel := reader.Subscribe("k")
	defer cancel()

	if err := writer.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	select {
	case ev := <-events:
		if !ev.Present || string(ev.Value) != "v1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}

	if err := writer.Remove("k"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Present {
			t.Fatalf("expected removal event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no removal event delivered")
	}
}

func TestSubscribeExcludesWriter(t *testing.T) {
	s := openTestStore(t)
	session := s.NewSession()

	events, cancel := session.Subscribe("k")
	defer cancel()

	if err := session.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("writer received its own event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowSubscriberSeesLatestValue(t *testing.T) {
	s := openTestStore(t)
	writer := s.NewSession()
	reader := s.NewSession()

	events, cancel := reader.Subscribe("k")
	defer cancel()

	for _, value := range []string{"v1", "v2", "v3"} {
		if err := writer.Set("k", []byte(value)); err != nil {
			t.Fatalf("Set(%q) error: %v", value, err)
		}
	}

	select {
	case ev := <-events:
		if string(ev.Value) != "v3" {
			t.Fatalf("expected coalesced latest value v3, got %q", ev.Value)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	s := openTestStore(t)
	writer := s.NewSession()
	reader := s.NewSession()

	events, cancel := reader.Subscribe("k")
	cancel()

	if err := writer.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	select {
	case ev, ok := <-events:
		if ok {
			t.Fatalf("cancelled subscriber received event: %+v", ev)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriptionsAreKeyScoped(t *testing.T) {
	s := openTestStore(t)
	writer := s.NewSession()
	reader := s.NewSession()

	events, cancel := reader.Subscribe("a")
	defer cancel()

	if err := writer.Set("b", []byte("v")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	select {
	case ev := <-events:
		t.Fatalf("received event for unrelated key: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}
