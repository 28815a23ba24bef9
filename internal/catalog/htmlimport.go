package catalog

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
)

// ImportHTML parses a locally saved job-board page into postings. Most
// boards embed JSON-LD JobPosting records; pages without them fall back to
// a generic card scan. The file is read from disk only, never fetched.
// Posting ids are assigned by Merge, so imported postings carry id 0 here.
func ImportHTML(path string, source string, now time.Time) ([]models.Posting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html export: %w", err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("parse html export: %w", err)
	}

	postings := postingsFromJSONLD(doc, source, now)
	if len(postings) == 0 {
		postings = postingsFromCards(doc, source)
	}
	return postings, nil
}

func postingsFromJSONLD(doc *goquery.Document, source string, now time.Time) []models.Posting {
	var postings []models.Posting
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}
		for _, posting := range extractJSONLDPostings(data, source, now) {
			key := dedupeKey(posting)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			postings = append(postings, posting)
		}
	})

	return postings
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func extractJSONLDPostings(data any, source string, now time.Time) []models.Posting {
	var postings []models.Posting

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			postings = append(postings, extractJSONLDPostings(item, source, now)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"])) {
		case "jobposting":
			return append(postings, postingFromJSONLD(value, source, now))
		case "itemlist":
			if items, ok := value["itemListElement"].([]any); ok {
				for _, item := range items {
					postings = append(postings, extractJSONLDPostings(item, source, now)...)
				}
			}
			return postings
		}
		if graph, ok := value["@graph"]; ok {
			postings = append(postings, extractJSONLDPostings(graph, source, now)...)
		}
		if main, ok := value["mainEntity"]; ok {
			postings = append(postings, extractJSONLDPostings(main, source, now)...)
		}
		if item, ok := value["item"]; ok {
			postings = append(postings, extractJSONLDPostings(item, source, now)...)
		}
	}

	return postings
}

func postingFromJSONLD(value map[string]any, source string, now time.Time) models.Posting {
	posting := models.Posting{Source: source}
	posting.Title = stringValue(value["title"], value["name"])
	posting.Company = stringValue(mapValue(value["hiringOrganization"], "name"))
	posting.ApplyURL = stringValue(value["url"], value["@id"])
	posting.Location = locationFromJSONLD(value["jobLocation"])
	posting.Description = cleanText(stringValue(value["description"]))
	posting.SalaryRange = salaryFromJSONLD(value["baseSalary"])
	posting.Skills = skillsFromJSONLD(value["skills"])
	posting.Mode = modeFromJSONLD(value, posting.Location)
	posting.Experience = experienceFromJSONLD(value["experienceRequirements"])
	posting.PostedDaysAgo = daysSincePosted(stringValue(value["datePosted"]), now)
	return posting
}

func modeFromJSONLD(value map[string]any, location string) models.Mode {
	if strings.EqualFold(stringValue(value["jobLocationType"]), "TELECOMMUTE") {
		return models.ModeRemote
	}
	if strings.Contains(strings.ToLower(location), "remote") {
		return models.ModeRemote
	}
	return models.ModeOnsite
}

// experienceFromJSONLD maps schema.org monthsOfExperience to the catalog's
// experience brackets.
func experienceFromJSONLD(value any) models.Experience {
	months, ok := mapValue(value, "monthsOfExperience").(float64)
	if !ok {
		return models.ExperienceFresher
	}
	switch {
	case months <= 0:
		return models.ExperienceFresher
	case months <= 12:
		return models.ExperienceZeroToOne
	case months <= 36:
		return models.ExperienceOneToThree
	default:
		return models.ExperienceThreeToFive
	}
}

func skillsFromJSONLD(value any) []string {
	switch v := value.(type) {
	case string:
		var skills []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				skills = append(skills, part)
			}
		}
		return skills
	case []any:
		var skills []string
		for _, item := range v {
			if s := stringValue(item); s != "" {
				skills = append(skills, s)
			}
		}
		return skills
	}
	return nil
}

func salaryFromJSONLD(value any) string {
	v, ok := value.(map[string]any)
	if !ok {
		return stringValue(value)
	}
	currency := stringValue(v["currency"])
	if amount := stringValue(mapValue(v["value"], "value")); amount != "" {
		return strings.TrimSpace(amount + " " + currency)
	}
	minimum := stringValue(mapValue(v["value"], "minValue"))
	maximum := stringValue(mapValue(v["value"], "maxValue"))
	if minimum == "" {
		return ""
	}
	if maximum != "" {
		return strings.TrimSpace(minimum + "-" + maximum + " " + currency)
	}
	return strings.TrimSpace(minimum + " " + currency)
}

func locationFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if loc := locationFromJSONLD(item); loc != "" {
				return loc
			}
		}
	case map[string]any:
		if address, ok := v["address"].(map[string]any); ok {
			return joinAddress(address)
		}
		return stringValue(v["name"])
	case string:
		return v
	}
	return ""
}

func joinAddress(value map[string]any) string {
	parts := []string{
		stringValue(value["addressLocality"]),
		stringValue(value["addressRegion"]),
		stringValue(value["addressCountry"]),
	}
	var cleaned []string
	for _, part := range parts {
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}
	return strings.Join(cleaned, ", ")
}

func daysSincePosted(datePosted string, now time.Time) int {
	if datePosted == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		posted, err := time.Parse(layout, datePosted)
		if err != nil {
			continue
		}
		days := int(now.Sub(posted).Hours() / 24)
		if days < 0 {
			return 0
		}
		return days
	}
	return 0
}

// postingsFromCards is the fallback for saved pages without structured
// data: one <article> per listing with heading, company and location rows.
func postingsFromCards(doc *goquery.Document, source string) []models.Posting {
	var postings []models.Posting

	doc.Find("article").Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h2, h3").First().Text())
		if title == "" {
			return
		}

		posting := models.Posting{Source: source, Title: title}
		card.Find("div, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := cleanText(s.Text())
			if text == "" || text == title {
				return true
			}
			if posting.Company == "" {
				posting.Company = text
				return true
			}
			if posting.Location == "" {
				posting.Location = text
				return false
			}
			return true
		})
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			posting.ApplyURL = href
		}
		posting.Mode = models.ModeOnsite
		posting.Experience = models.ExperienceFresher
		postings = append(postings, posting)
	})

	return postings
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func dedupeKey(posting models.Posting) string {
	if posting.ApplyURL != "" {
		return posting.ApplyURL
	}
	key := strings.ToLower(strings.TrimSpace(posting.Title + "|" + posting.Company))
	if key == "|" {
		return ""
	}
	return key
}

// Merge appends imported postings onto an existing catalog, skipping ones
// whose normalized title and company already appear, and assigns fresh ids
// above the current maximum.
func Merge(existing []models.Posting, imported []models.Posting) []models.Posting {
	maxID := 0
	seen := make(map[string]struct{}, len(existing))
	for _, posting := range existing {
		if posting.ID > maxID {
			maxID = posting.ID
		}
		seen[normalizedKey(posting)] = struct{}{}
	}

	out := append([]models.Posting{}, existing...)
	for _, posting := range imported {
		key := normalizedKey(posting)
		if key == "|" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		maxID++
		posting.ID = maxID
		out = append(out, posting)
	}
	return out
}

func normalizedKey(posting models.Posting) string {
	normalize := func(value string) string {
		return strings.Join(strings.Fields(strings.ToLower(value)), " ")
	}
	return normalize(posting.Title) + "|" + normalize(posting.Company)
}
