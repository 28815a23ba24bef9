package prefs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "jobtrack.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadDefaultsWhenUnset(t *testing.T) {
	s := New(openTestStore(t).NewSession())

	prefs, saved, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if saved {
		t.Fatalf("expected unsaved preferences")
	}
	if prefs.MinMatchScore != 40 {
		t.Fatalf("default MinMatchScore = %d, want 40", prefs.MinMatchScore)
	}
	if prefs.RoleKeywords != "" || prefs.ExperienceLevel != "" {
		t.Fatalf("unexpected non-zero defaults: %+v", prefs)
	}
}

func TestSaveFlipsExplicitFlag(t *testing.T) {
	s := New(openTestStore(t).NewSession())

	want := models.Preferences{
		RoleKeywords:       "react, golang",
		PreferredLocations: []string{"Bangalore", "Pune"},
		PreferredModes:     []models.Mode{models.ModeRemote},
		ExperienceLevel:    models.ExperienceOneToThree,
		Skills:             "react, css",
		MinMatchScore:      55,
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, saved, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !saved {
		t.Fatalf("expected explicit-save flag after Save")
	}
	if got.RoleKeywords != want.RoleKeywords || got.MinMatchScore != 55 {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
	if len(got.PreferredLocations) != 2 || got.PreferredLocations[1] != "Pune" {
		t.Fatalf("locations not round-tripped: %+v", got.PreferredLocations)
	}
}

func TestSavingDefaultsStillCountsAsSaved(t *testing.T) {
	s := New(openTestStore(t).NewSession())

	if err := s.Save(models.DefaultPreferences()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	_, saved, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !saved {
		t.Fatalf("explicitly chosen defaults must count as saved")
	}
}

func TestLoadMergesPartialStoredValue(t *testing.T) {
	session := openTestStore(t).NewSession()
	// An old record missing newer fields keeps their defaults.
	if err := session.Set(store.KeyPreferences, []byte(`{"role_keywords":"react"}`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	prefs, saved, err := New(session).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !saved {
		t.Fatalf("stored record should count as saved")
	}
	if prefs.RoleKeywords != "react" {
		t.Fatalf("RoleKeywords = %q", prefs.RoleKeywords)
	}
	if prefs.MinMatchScore != 40 {
		t.Fatalf("missing field should keep default, MinMatchScore = %d", prefs.MinMatchScore)
	}
}

func TestLoadCorruptValueDegradesToDefaults(t *testing.T) {
	session := openTestStore(t).NewSession()
	if err := session.Set(store.KeyPreferences, []byte(`{not json`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	prefs, saved, err := New(session).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if saved {
		t.Fatalf("corrupt value must be treated as absent")
	}
	if prefs.MinMatchScore != 40 {
		t.Fatalf("MinMatchScore = %d, want default 40", prefs.MinMatchScore)
	}
}

func TestWatchSeesWritesFromOtherSessions(t *testing.T) {
	shared := openTestStore(t)
	writer := New(shared.NewSession())
	reader := New(shared.NewSession())

	updates, cancel := reader.Watch()
	defer cancel()

	want := models.DefaultPreferences()
	want.RoleKeywords = "golang"
	if err := writer.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	select {
	case got := <-updates:
		if got.RoleKeywords != "golang" {
			t.Fatalf("watched value = %+v", got)
		}
		if got.MinMatchScore != 40 {
			t.Fatalf("watched value not merged over defaults: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no preference update delivered")
	}
}
