// Package export renders filtered posting views in the supported output
// formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/ui"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

// Row is one posting prepared for output, with its score and ledger status
// resolved.
type Row struct {
	Posting models.Posting `json:"posting"`
	Score   int            `json:"score"`
	Status  models.Status  `json:"status"`
}

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteRows(w io.Writer, rows []Row, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatCSV:
		return writeCSV(w, rows, ',')
	case FormatTSV:
		return writeCSV(w, rows, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, rows)
	default:
		return writeTable(w, rows, opts)
	}
}

func writeJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeCSV(w io.Writer, rows []Row, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(csvRow(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, rows []Row, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(tableRow(row, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, row := range rows {
		posting := row.Posting
		applyLine := "  Apply: -"
		if link := safe(posting.ApplyURL); link != "" {
			applyLine = fmt.Sprintf("  Apply: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(posting.Title), safe(posting.Company)),
			fmt.Sprintf("  Location: %s / %s", safe(posting.Location), posting.Mode),
			fmt.Sprintf("  Experience: %s", posting.Experience),
			fmt.Sprintf("  Score: %d", row.Score),
			fmt.Sprintf("  Status: %s", row.Status),
			fmt.Sprintf("  Source: %s", safe(posting.Source)),
			applyLine,
		}
		if posting.SalaryRange != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(posting.SalaryRange)))
		}
		if posting.PostedDaysAgo == 0 {
			lines = append(lines, "  Posted: today")
		} else {
			lines = append(lines, fmt.Sprintf("  Posted: %dd ago", posting.PostedDaysAgo))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"location",
		"mode",
		"experience",
		"score",
		"status",
		"salary",
		"source",
		"posted_days_ago",
		"apply_url",
	}
}

func csvRow(row Row) []string {
	posting := row.Posting
	return []string{
		strconv.Itoa(posting.ID),
		posting.Title,
		posting.Company,
		posting.Location,
		string(posting.Mode),
		string(posting.Experience),
		strconv.Itoa(row.Score),
		string(row.Status),
		posting.SalaryRange,
		posting.Source,
		strconv.Itoa(posting.PostedDaysAgo),
		posting.ApplyURL,
	}
}

func tableHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"location",
		"score",
		"status",
		"apply",
	}
}

func tableRow(row Row, output *termenv.Output, opts WriteOptions) []string {
	posting := row.Posting

	scoreText := strconv.Itoa(row.Score)
	if opts.ColorEnabled {
		scoreText = ui.ColorizeScore(output, true, row.Score, scoreText)
	}

	link := safe(posting.ApplyURL)
	displayLink := "-"
	if link != "" {
		displayLink = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayLink = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayLink = ui.ColorizeLink(output, true, displayLink)
		}
		if opts.Hyperlinks {
			displayLink = hyperlink(link, displayLink)
		}
	}

	return []string{
		strconv.Itoa(posting.ID),
		safe(posting.Title),
		safe(posting.Company),
		safe(posting.Location),
		scoreText,
		string(row.Status),
		displayLink,
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func hyperlink(link string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + link + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
