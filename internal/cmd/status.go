package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/status"
)

type StatusCmd struct {
	Set     StatusSetCmd     `cmd:"" help:"Set a posting's application status."`
	Show    StatusShowCmd    `cmd:"" default:"withargs" help:"Show a posting's status, or all tracked postings."`
	History StatusHistoryCmd `cmd:"" help:"Show the status change history, newest first."`
}

type StatusSetCmd struct {
	ID     int    `arg:"" help:"Posting id."`
	Status string `arg:"" help:"One of: Not Applied, Applied, Rejected, Selected."`
}

func (c *StatusSetCmd) Run(ctx *Context) error {
	st, ok := models.ParseStatus(c.Status)
	if !ok {
		return fmt.Errorf("unknown status %q, want one of: Not Applied, Applied, Rejected, Selected", c.Status)
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	if err := status.New(session).Set(c.ID, st); err != nil {
		return err
	}
	ctx.UI.Successf("posting %d marked %s", c.ID, st)
	return nil
}

type StatusShowCmd struct {
	ID int `arg:"" optional:"" help:"Posting id; omit to list all tracked postings."`
}

func (c *StatusShowCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	ledger := status.New(session)

	if c.ID > 0 {
		st, err := ledger.Get(c.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "%d\t%s\n", c.ID, st)
		return nil
	}

	statuses, err := ledger.All()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		ctx.UI.Infof("no statuses tracked yet")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tstatus")
	for _, id := range sortedKeys(statuses) {
		fmt.Fprintf(tw, "%d\t%s\n", id, statuses[id])
	}
	return tw.Flush()
}

type StatusHistoryCmd struct {
	Limit int `short:"n" default:"0" help:"Show at most N entries; 0 shows all stored."`
}

func (c *StatusHistoryCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	history, err := status.New(session).History()
	if err != nil {
		return err
	}
	if c.Limit > 0 && len(history) > c.Limit {
		history = history[:c.Limit]
	}
	if len(history) == 0 {
		ctx.UI.Infof("no status changes recorded yet")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "date\tid\tstatus")
	for _, change := range history {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", change.Date, change.PostingID, change.Status)
	}
	return tw.Flush()
}

func sortedKeys(statuses map[int]models.Status) []int {
	keys := make([]int, 0, len(statuses))
	for id := range statuses {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	return keys
}
