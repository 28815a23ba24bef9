package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	List    ListCmd    `cmd:"" help:"Filter and sort the job catalog."`
	Digest  DigestCmd  `cmd:"" help:"Daily top-matches digest."`
	Status  StatusCmd  `cmd:"" help:"Track application status per posting."`
	Prefs   PrefsCmd   `cmd:"" help:"View and edit matching preferences."`
	Saved   SavedCmd   `cmd:"" help:"Bookmarked postings."`
	Catalog CatalogCmd `cmd:"" help:"Catalog utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
