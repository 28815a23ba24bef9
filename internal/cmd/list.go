package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/export"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/pipeline"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/prefs"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/saved"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/status"
)

type ListCmd struct {
	Keyword    string `short:"k" help:"Substring match against title or company."`
	Location   string `default:"all" help:"Exact location, or 'all'."`
	Mode       string `default:"all" help:"Work mode: Remote, Hybrid, Onsite, or 'all'."`
	Experience string `default:"all" help:"Experience band: Fresher, 0-1, 1-3, 3-5, or 'all'."`
	Source     string `default:"all" help:"Posting source, or 'all'."`
	Status     string `default:"all" help:"Application status, or 'all'."`
	Sort       string `enum:"latest,oldest,matchScore,salary,company" default:"latest" help:"Sort order."`
	MatchOnly  bool   `help:"Only postings at or above your saved match threshold."`
	SavedOnly  bool   `help:"Only bookmarked postings."`

	Format  string `short:"f" enum:",table,csv,json,md,tsv" default:"" help:"Output format (default: table, or inferred from --output extension)."`
	Output  string `short:"o" help:"Write to a file instead of stdout." type:"path"`
	Catalog string `help:"Catalog file override." type:"path"`
}

func (c *ListCmd) Run(ctx *Context) error {
	postings, err := ctx.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}

	preferences, hasPrefs, err := prefs.New(session).Load()
	if err != nil {
		return err
	}
	if c.MatchOnly && !hasPrefs {
		ctx.UI.Warnf("no preferences saved yet; --match-only has no effect until you run 'jobtrack prefs set'")
	}

	ledger := status.New(session)
	statuses, err := ledger.All()
	if err != nil {
		return err
	}
	statusOf := func(id int) models.Status {
		if st, ok := statuses[id]; ok {
			return st
		}
		return models.StatusNotApplied
	}

	if c.SavedOnly {
		ids, err := saved.New(session).IDs()
		if err != nil {
			return err
		}
		postings = keepSaved(postings, ids)
	}

	filters := pipeline.Filters{
		Keyword:    c.Keyword,
		Location:   c.Location,
		Mode:       c.Mode,
		Experience: c.Experience,
		Source:     c.Source,
		Status:     c.Status,
		MatchOnly:  c.MatchOnly,
		Sort:       pipeline.SortKey(c.Sort),
	}
	results := pipeline.Apply(postings, filters, preferences, hasPrefs, statusOf)

	rows := make([]export.Row, len(results))
	for i, result := range results {
		rows[i] = export.Row{
			Posting: result.Posting,
			Score:   result.Score,
			Status:  statusOf(result.Posting.ID),
		}
	}

	ctx.Logger.Debug().
		Int("catalog", len(postings)).
		Int("results", len(rows)).
		Str("sort", c.Sort).
		Msg("list built")

	return writeRows(ctx, rows, c.Format, c.Output)
}

// keepSaved filters the catalog down to bookmarked ids, preserving catalog
// order.
func keepSaved(postings []models.Posting, ids []int) []models.Posting {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	kept := make([]models.Posting, 0, len(ids))
	for _, posting := range postings {
		if _, ok := want[posting.ID]; ok {
			kept = append(kept, posting)
		}
	}
	return kept
}

// writeRows resolves the effective format and destination shared by list and
// saved list. Global --json and --plain win over the table default; a file
// extension picks the format when --format is not given.
func writeRows(ctx *Context, rows []export.Row, format string, outputPath string) error {
	resolved := resolveFormat(ctx, format, outputPath)

	opts := export.WriteOptions{
		ColorEnabled: ctx.UI.ColorEnabled && outputPath == "",
		Hyperlinks:   ctx.UI.ColorEnabled && outputPath == "",
		LinkStyle:    export.LinkStyleShort,
	}

	if outputPath == "" {
		return export.WriteRows(ctx.Out, rows, resolved, opts)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer file.Close()

	opts.ColorEnabled = false
	opts.Hyperlinks = false
	if err := export.WriteRows(file, rows, resolved, opts); err != nil {
		return err
	}
	ctx.UI.Successf("wrote %d rows to %s", len(rows), outputPath)
	return nil
}

func resolveFormat(ctx *Context, format string, outputPath string) export.Format {
	if format != "" {
		return export.Format(format)
	}
	if ctx.JSONOutput {
		return export.FormatJSON
	}
	if ctx.PlainText {
		return export.FormatTSV
	}
	if outputPath != "" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".csv":
			return export.FormatCSV
		case ".json":
			return export.FormatJSON
		case ".md":
			return export.FormatMarkdown
		case ".tsv":
			return export.FormatTSV
		}
	}
	return export.FormatTable
}
