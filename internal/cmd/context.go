package cmd

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/catalog"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/config"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/models"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/store"
	"github.com/shash8111-creates/kodnest-jobtrack/internal/ui"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	store   *store.Store
	session *store.Session
}

// Session lazily opens the shared store and returns this process's view of
// it. Commands that never touch persisted state leave the database closed.
func (c *Context) Session() (*store.Session, error) {
	if c.session != nil {
		return c.session, nil
	}

	dbPath, err := c.Config.DBPath()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	c.store = s
	c.session = s.NewSession()
	c.Logger.Debug().Str("db", dbPath).Msg("store opened")
	return c.session, nil
}

// Close releases the store if a command opened it.
func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// CatalogPath resolves the catalog file, preferring a per-command override
// over the configured path. Empty means the bundled snapshot.
func (c *Context) CatalogPath(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return c.Config.CatalogPath
}

// LoadCatalog reads the posting snapshot for a command, falling back to the
// bundled one when nothing is configured.
func (c *Context) LoadCatalog(override string) ([]models.Posting, error) {
	return catalog.LoadOrDefault(c.CatalogPath(override))
}
