package cmd

import (
	"fmt"

	"github.com/shash8111-creates/kodnest-jobtrack/internal/config"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Create the default config file if missing."`
	Path ConfigPathCmd `cmd:"" help:"Print the config file location."`
}

type ConfigInitCmd struct{}

func (c *ConfigInitCmd) Run(ctx *Context) error {
	created, err := config.Init()
	if err != nil {
		return err
	}
	if len(created) == 0 {
		ctx.UI.Infof("config already initialized")
		return nil
	}
	for _, path := range created {
		ctx.UI.Successf("created %s", path)
	}
	return nil
}

type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(ctx *Context) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, path)
	return nil
}
