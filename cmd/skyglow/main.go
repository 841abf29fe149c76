package main

import (
	"github.com/alecthomas/kong"

	"github.com/skyglowlab/skyglow/cmd/skyglow/commands"
	"github.com/skyglowlab/skyglow/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("skyglow"),
		kong.Description("Satellite raster preprocessing for nighttime lights and trace gases"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
