package cmd

import (
	"fmt"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/export"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/match"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/prefs"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/saved"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/status"
)

type SavedCmd struct {
	Add    SavedAddCmd    `cmd:"" help:"Bookmark a posting."`
	Remove SavedRemoveCmd `cmd:"" help:"Remove a bookmark."`
	List   SavedListCmd   `cmd:"" default:"withargs" help:"List bookmarked postings."`
}

type SavedAddCmd struct {
	ID int `arg:"" help:"Posting id."`
}

func (c *SavedAddCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := saved.New(session).Add(c.ID); err != nil {
		return err
	}
	ctx.UI.Successf("posting %d saved", c.ID)
	return nil
}

type SavedRemoveCmd struct {
	ID int `arg:"" help:"Posting id."`
}

func (c *SavedRemoveCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := saved.New(session).Remove(c.ID); err != nil {
		return err
	}
	ctx.UI.Successf("posting %d removed from saved", c.ID)
	return nil
}

type SavedListCmd struct {
	Format  string `short:"f" enum:",table,csv,json,md,tsv" default:"" help:"Output format."`
	Output  string `short:"o" help:"Write to a file instead of stdout." type:"path"`
	Catalog string `help:"Catalog file override." type:"path"`
}

func (c *SavedListCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	ids, err := saved.New(session).IDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		ctx.UI.Infof("no saved postings yet; use 'jobtrack saved add <id>'")
		return nil
	}

	postings, err := ctx.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}
	byID := make(map[int]models.Posting, len(postings))
	for _, posting := range postings {
		byID[posting.ID] = posting
	}

	preferences, _, err := prefs.New(session).Load()
	if err != nil {
		return err
	}
	ledger := status.New(session)
	statuses, err := ledger.All()
	if err != nil {
		return err
	}

	rows := make([]export.Row, 0, len(ids))
	for _, id := range ids {
		posting, ok := byID[id]
		if !ok {
			ctx.UI.Warnf("saved posting %d is no longer in the catalog", id)
			continue
		}
		st := models.StatusNotApplied
		if tracked, ok := statuses[id]; ok {
			st = tracked
		}
		rows = append(rows, export.Row{
			Posting: posting,
			Score:   match.ComputeMatchScore(posting, preferences),
			Status:  st,
		})
	}

	if len(rows) == 0 {
		fmt.Fprintln(ctx.Out, "No saved postings remain in the catalog.")
		return nil
	}
	return writeRows(ctx, rows, c.Format, c.Output)
}
