package main

import (
	"fmt"
	"os"

	"github.com/mwantia/tagster/cmd/tagster/cli"
	"github.com/mwantia/tagster/cmd/tagster/cli/catalog"
	"github.com/mwantia/tagster/cmd/tagster/cli/system"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(system.NewInitCommand())
	root.AddCommand(system.NewImportCommand())
	root.AddCommand(system.NewStatusCommand())
	root.AddCommand(system.NewConfigCommand())

	root.AddCommand(catalog.NewTagCommand())
	root.AddCommand(catalog.NewFileCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
