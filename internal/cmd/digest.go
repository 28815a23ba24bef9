package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/digest"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/prefs"
)

type DigestCmd struct {
	Show     DigestShowCmd     `cmd:"" default:"withargs" help:"Print the stored digest for a date."`
	Generate DigestGenerateCmd `cmd:"" help:"Generate today's digest (idempotent unless --force)."`
	Export   DigestExportCmd   `cmd:"" help:"Write a stored digest to a text file."`
	Watch    DigestWatchCmd    `cmd:"" help:"Run in the foreground and generate the digest daily."`
}

type DigestShowCmd struct {
	Date string `help:"Date key (YYYY-MM-DD); defaults to today."`
}

func (c *DigestShowCmd) Run(ctx *Context) error {
	dateKey, err := resolveDateKey(c.Date)
	if err != nil {
		return err
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}

	snapshot, ok, err := digest.NewGenerator(session).Load(dateKey)
	if err != nil {
		return err
	}
	if !ok {
		ctx.UI.Infof("no digest stored for %s; run 'jobtrack digest generate'", dateKey)
		return nil
	}

	fmt.Fprint(ctx.Out, digest.PlainText(snapshot))
	return nil
}

type DigestGenerateCmd struct {
	Force   bool   `help:"Recompute even if today's digest already exists."`
	Catalog string `help:"Catalog file override." type:"path"`
}

func (c *DigestGenerateCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	preferences, hasPrefs, err := prefs.New(session).Load()
	if err != nil {
		return err
	}
	if !hasPrefs {
		return fmt.Errorf("no preferences saved; run 'jobtrack prefs set' first")
	}

	postings, err := ctx.LoadCatalog(c.Catalog)
	if err != nil {
		return err
	}

	generator := digest.NewGeneratorWithSize(session, ctx.Config.DigestSize)
	now := time.Now()

	if c.Force {
		result, err := generator.Regenerate(postings, preferences, now)
		if err != nil {
			return err
		}
		ctx.UI.Successf("regenerated digest for %s with %d entries", result.DateKey, len(result.Entries))
		fmt.Fprint(ctx.Out, digest.PlainText(result))
		return nil
	}

	existing, had, err := generator.Load(digest.DateKey(now))
	if err != nil {
		return err
	}
	result, err := generator.Generate(postings, preferences, now)
	if err != nil {
		return err
	}
	if had {
		ctx.UI.Infof("digest for %s already exists with %d entries; use --force to recompute", existing.DateKey, len(existing.Entries))
	} else {
		ctx.UI.Successf("generated digest for %s with %d entries", result.DateKey, len(result.Entries))
	}
	fmt.Fprint(ctx.Out, digest.PlainText(result))
	return nil
}

type DigestExportCmd struct {
	Output string `short:"o" required:"" help:"Destination text file." type:"path"`
	Date   string `help:"Date key (YYYY-MM-DD); defaults to today."`
}

func (c *DigestExportCmd) Run(ctx *Context) error {
	dateKey, err := resolveDateKey(c.Date)
	if err != nil {
		return err
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}

	snapshot, ok, err := digest.NewGenerator(session).Load(dateKey)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no digest stored for %s; run 'jobtrack digest generate' first", dateKey)
	}

	if err := os.WriteFile(c.Output, []byte(digest.PlainText(snapshot)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	ctx.UI.Successf("exported digest for %s to %s", dateKey, c.Output)
	return nil
}

type DigestWatchCmd struct {
	Hour    int    `default:"-1" help:"Local hour (0-23) to generate at; defaults to the configured digest hour."`
	Catalog string `help:"Catalog file override." type:"path"`
}

func (c *DigestWatchCmd) Run(ctx *Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}

	prefStore := prefs.New(session)
	if _, hasPrefs, err := prefStore.Load(); err != nil {
		return err
	} else if !hasPrefs {
		return fmt.Errorf("no preferences saved; run 'jobtrack prefs set' first")
	}

	hour := c.Hour
	if hour < 0 {
		hour = ctx.Config.DigestHour
	}

	generator := digest.NewGeneratorWithSize(session, ctx.Config.DigestSize)
	scheduler := digest.NewScheduler(ctx.Logger)
	err = scheduler.Schedule(hour, func() error {
		postings, err := ctx.LoadCatalog(c.Catalog)
		if err != nil {
			return err
		}
		preferences, hasPrefs, err := prefStore.Load()
		if err != nil {
			return err
		}
		if !hasPrefs {
			return fmt.Errorf("preferences no longer saved")
		}
		snapshot, err := generator.Generate(postings, preferences, time.Now())
		if err != nil {
			return err
		}
		ctx.Logger.Info().Str("date", snapshot.DateKey).Int("entries", len(snapshot.Entries)).Msg("digest stored")
		return nil
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	defer scheduler.Stop()
	ctx.UI.Infof("watching; digest will be generated daily at %02d:00 (Ctrl+C to stop)", hour)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx.UI.Infof("stopping digest watcher")
	return nil
}

func resolveDateKey(date string) (string, error) {
	if date == "" {
		return digest.DateKey(time.Now()), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return digest.DateKey(parsed), nil
}
