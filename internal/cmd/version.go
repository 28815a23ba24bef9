package cmd

import "fmt"

type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Out, ctx.Version)
	return nil
}
