package main

import (
	"github.com/alecthomas/kong"

	"droscher.com/FreshTaps/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("FreshTaps"), kong.Description("FreshTaps serves fresh beer release recommendations for the Sydney metro area."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
