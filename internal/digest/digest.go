// Package digest builds the once-daily top-matches snapshot.
package digest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/match"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
)

// DefaultSize is the entry cap of a snapshot.
const DefaultSize = 10

// DateKey renders the local calendar date used to key one day's snapshot.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Generator persists at most one snapshot per calendar day.
//
// Callers must only invoke Generate and Regenerate with preferences the
// user has explicitly saved.
type Generator struct {
	session *store.Session
	size    int
	now     func() time.Time
}

func NewGenerator(session *store.Session) *Generator {
	return &Generator{session: session, size: DefaultSize, now: time.Now}
}

// NewGeneratorWithSize overrides the entry cap; size <= 0 falls back to
// DefaultSize.
func NewGeneratorWithSize(session *store.Session, size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{session: session, size: size, now: time.Now}
}

// NewGeneratorWithClock injects the GeneratedAt timestamp source and entry
// cap for tests.
func NewGeneratorWithClock(session *store.Session, size int, now func() time.Time) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{session: session, size: size, now: now}
}

// Generate returns the snapshot for today's date key, computing and
// persisting it only if none exists yet. Calling it twice on the same day
// returns the stored snapshot unchanged.
func (g *Generator) Generate(catalog []models.Posting, prefs models.Preferences, today time.Time) (models.DigestSnapshot, error) {
	dateKey := DateKey(today)
	if snapshot, ok, err := g.Load(dateKey); err != nil {
		return models.DigestSnapshot{}, err
	} else if ok {
		return snapshot, nil
	}
	return g.write(catalog, prefs, dateKey)
}

// Regenerate unconditionally recomputes and overwrites the snapshot for
// today's date key.
func (g *Generator) Regenerate(catalog []models.Posting, prefs models.Preferences, today time.Time) (models.DigestSnapshot, error) {
	return g.write(catalog, prefs, DateKey(today))
}

// Load returns the stored snapshot for a date key, if any. Corrupt stored
// snapshots are treated as absent.
func (g *Generator) Load(dateKey string) (models.DigestSnapshot, bool, error) {
	raw, ok, err := g.session.Get(store.DigestKey(dateKey))
	if err != nil || !ok {
		return models.DigestSnapshot{}, false, err
	}
	var snapshot models.DigestSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return models.DigestSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (g *Generator) write(catalog []models.Posting, prefs models.Preferences, dateKey string) (models.DigestSnapshot, error) {
	snapshot := models.DigestSnapshot{
		DateKey:     dateKey,
		Entries:     buildEntries(catalog, prefs, g.size),
		GeneratedAt: g.now().Format(time.RFC3339),
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return models.DigestSnapshot{}, err
	}
	if err := g.session.Set(store.DigestKey(dateKey), raw); err != nil {
		return models.DigestSnapshot{}, err
	}
	return snapshot, nil
}

// buildEntries scores the whole catalog, keeps postings at or above the
// preference threshold, orders by score descending with more recent
// postings winning ties, and caps the list. An empty list is a valid
// snapshot, not an error.
func buildEntries(catalog []models.Posting, prefs models.Preferences, size int) []models.DigestEntry {
	type scored struct {
		posting models.Posting
		score   int
	}

	kept := make([]scored, 0, len(catalog))
	for _, posting := range catalog {
		score := match.ComputeMatchScore(posting, prefs)
		if score < prefs.MinMatchScore {
			continue
		}
		kept = append(kept, scored{posting: posting, score: score})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return kept[i].posting.PostedDaysAgo < kept[j].posting.PostedDaysAgo
	})

	if len(kept) > size {
		kept = kept[:size]
	}

	entries := make([]models.DigestEntry, len(kept))
	for i, item := range kept {
		entries[i] = models.DigestEntry{
			PostingID:  item.posting.ID,
			Title:      item.posting.Title,
			Company:    item.posting.Company,
			Location:   item.posting.Location,
			Experience: item.posting.Experience,
			Score:      item.score,
			ApplyURL:   item.posting.ApplyURL,
		}
	}
	return entries
}

// PlainText renders a snapshot with the fixed export template.
func PlainText(snapshot models.DigestSnapshot) string {
	var b strings.Builder
	b.WriteString("Daily Job Digest\n")
	fmt.Fprintf(&b, "Date: %s\n\n", snapshot.DateKey)

	if len(snapshot.Entries) == 0 {
		b.WriteString("No postings cleared your match threshold today.\n")
		return b.String()
	}

	for i, entry := range snapshot.Entries {
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, entry.Title, entry.Company)
		fmt.Fprintf(&b, "   %s · %s\n", entry.Location, entry.Experience)
		fmt.Fprintf(&b, "   Score: %d/100\n", entry.Score)
		fmt.Fprintf(&b, "   Apply: %s\n\n", entry.ApplyURL)
	}
	return b.String()
}
