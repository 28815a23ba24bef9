// Package catalog loads the static posting snapshot the rest of the tool
// treats as immutable input.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
)

//go:embed postings.json
var embeddedPostings []byte

// Default returns the bundled posting snapshot.
func Default() []models.Posting {
	postings, err := parse(embeddedPostings)
	if err != nil {
		// The embedded dataset is fixed at build time.
		panic(fmt.Sprintf("embedded catalog corrupt: %v", err))
	}
	return postings
}

// Load reads a catalog file. An empty path returns the bundled snapshot.
func Load(path string) ([]models.Posting, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	postings, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return postings, nil
}

// LoadOrDefault reads the configured catalog file, falling back to the
// bundled snapshot when the file is missing.
func LoadOrDefault(path string) ([]models.Posting, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	postings, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return postings, err
}

// parse decodes a JSON5 posting array, dropping records without a positive
// unique id. The first record wins an id collision.
func parse(data []byte) ([]models.Posting, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Posting{}, nil
	}

	var raw []models.Posting
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(raw))
	postings := make([]models.Posting, 0, len(raw))
	for _, posting := range raw {
		if posting.ID <= 0 {
			continue
		}
		if _, dup := seen[posting.ID]; dup {
			continue
		}
		seen[posting.ID] = struct{}{}
		if posting.PostedDaysAgo < 0 {
			posting.PostedDaysAgo = 0
		}
		postings = append(postings, posting)
	}
	return postings, nil
}

// Write persists a catalog as pretty JSON, the format Load reads back.
func Write(path string, postings []models.Posting) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("catalog path is required")
	}
	if postings == nil {
		postings = []models.Posting{}
	}
	data, err := json.MarshalIndent(postings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Locations returns the distinct posting locations in catalog order.
func Locations(postings []models.Posting) []string {
	seen := make(map[string]struct{}, len(postings))
	locations := make([]string, 0, len(postings))
	for _, posting := range postings {
		if _, ok := seen[posting.Location]; ok {
			continue
		}
		seen[posting.Location] = struct{}{}
		locations = append(locations, posting.Location)
	}
	return locations
}
