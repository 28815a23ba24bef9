package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
)

func TestDefaultCatalogParses(t *testing.T) {
	postings := Default()
	if len(postings) == 0 {
		t.Fatalf("embedded catalog is empty")
	}

	seen := map[int]struct{}{}
	for _, posting := range postings {
		if posting.ID <= 0 {
			t.Fatalf("posting without id: %+v", posting)
		}
		if _, dup := seen[posting.ID]; dup {
			t.Fatalf("duplicate id %d", posting.ID)
		}
		seen[posting.ID] = struct{}{}
		if _, ok := models.ParseMode(string(posting.Mode)); !ok {
			t.Fatalf("posting %d has invalid mode %q", posting.ID, posting.Mode)
		}
		if _, ok := models.ParseExperience(string(posting.Experience)); !ok {
			t.Fatalf("posting %d has invalid experience %q", posting.ID, posting.Experience)
		}
		if posting.PostedDaysAgo < 0 {
			t.Fatalf("posting %d has negative age", posting.ID)
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	postings, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(postings) != len(Default()) {
		t.Fatalf("Load(\"\") returned %d postings", len(postings))
	}
}

func TestLoadJSON5File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	// Trailing commas and comments are accepted.
	content := `[
  // exported snapshot
  {
    "id": 7,
    "title": "Platform Engineer",
    "company": "Acme",
    "location": "Pune",
    "mode": "Hybrid",
    "experience": "1-3",
    "posted_days_ago": 2,
  },
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	postings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(postings) != 1 || postings[0].ID != 7 || postings[0].Mode != models.ModeHybrid {
		t.Fatalf("Load() = %+v", postings)
	}
}

func TestLoadSkipsInvalidAndDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `[
  {"id": 1, "title": "First"},
  {"id": 0, "title": "No id"},
  {"id": 1, "title": "Duplicate"},
  {"id": 2, "title": "Second", "posted_days_ago": -3}
]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	postings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("Load() kept %d postings, want 2", len(postings))
	}
	if postings[0].Title != "First" {
		t.Fatalf("first id collision should win, got %q", postings[0].Title)
	}
	if postings[1].PostedDaysAgo != 0 {
		t.Fatalf("negative age not clamped: %d", postings[1].PostedDaysAgo)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	postings, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if len(postings) != len(Default()) {
		t.Fatalf("fallback returned %d postings", len(postings))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	want := []models.Posting{{ID: 1, Title: "First", Mode: models.ModeRemote}}

	if err := Write(path, want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "First" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestLocations(t *testing.T) {
	postings := []models.Posting{
		{ID: 1, Location: "Bangalore"},
		{ID: 2, Location: "Pune"},
		{ID: 3, Location: "Bangalore"},
	}
	locations := Locations(postings)
	if len(locations) != 2 || locations[0] != "Bangalore" || locations[1] != "Pune" {
		t.Fatalf("Locations() = %v", locations)
	}
}
