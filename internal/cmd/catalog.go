package cmd

import (
	"fmt"
	"time"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/catalog"
)

type CatalogCmd struct {
	Import CatalogImportCmd `cmd:"" help:"Import postings from a saved HTML job-board page."`
	Path   CatalogPathCmd   `cmd:"" help:"Print the resolved catalog location."`
}

type CatalogImportCmd struct {
	File   string `arg:"" help:"Saved HTML page to import." type:"existingfile"`
	Source string `default:"Imported" help:"Source label for imported postings."`
	Target string `help:"Catalog file to merge into; defaults to the configured catalog path." type:"path"`
	DryRun bool   `help:"Parse and report without writing."`
}

func (c *CatalogImportCmd) Run(ctx *Context) error {
	target := c.Target
	if target == "" {
		target = ctx.Config.CatalogPath
	}
	if target == "" && !c.DryRun {
		return fmt.Errorf("no catalog file to write; set catalog_path in config or pass --target")
	}

	imported, err := catalog.ImportHTML(c.File, c.Source, time.Now())
	if err != nil {
		return err
	}
	if len(imported) == 0 {
		ctx.UI.Warnf("no postings found in %s", c.File)
		return nil
	}
	ctx.UI.Infof("parsed %d postings from %s", len(imported), c.File)

	existing, err := catalog.LoadOrDefault(target)
	if err != nil {
		return err
	}
	merged := catalog.Merge(existing, imported)
	added := len(merged) - len(existing)

	if c.DryRun {
		ctx.UI.Infof("dry run: %d new postings would be added (%d duplicates skipped)", added, len(imported)-added)
		return nil
	}

	if err := catalog.Write(target, merged); err != nil {
		return err
	}
	ctx.UI.Successf("added %d postings to %s (%d duplicates skipped, %d total)", added, target, len(imported)-added, len(merged))
	return nil
}

type CatalogPathCmd struct{}

func (c *CatalogPathCmd) Run(ctx *Context) error {
	path := ctx.Config.CatalogPath
	if path == "" {
		fmt.Fprintln(ctx.Out, "(bundled catalog)")
		return nil
	}
	fmt.Fprintln(ctx.Out, path)
	return nil
}
