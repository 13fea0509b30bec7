package main

import (
	"github.com/alecthomas/kong"
)

// --- CLI definitions --- //

type Globals struct {
	Config string `help:"Path to config file (optional; APPSTATE_* env vars also apply)." name:"config" short:"c" type:"path"`
	Debug  bool   `help:"Enable debug logs." name:"debug"`
}

type CLI struct {
	Globals

	Get               GetCmd               `cmd:"" help:"Print a stored value as JSON."`
	Set               SetCmd               `cmd:"" help:"Store a JSON value and flush it."`
	Keys              KeysCmd              `cmd:"" help:"List stored keys."`
	Migrate           MigrateCmd           `cmd:"" help:"Copy stored entries into another backend."`
	Watch             WatchCmd             `cmd:"" help:"Print entries as they change on disk (file backend only)."`
	UntrackedProjects UntrackedProjectsCmd `cmd:"" name:"untracked-projects" help:"List projects whose organization is unknown."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("appstate"),
		kong.Description("Inspect and edit persisted application state."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
