package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haste-build/hastemap/pkg/cmd"
	"github.com/haste-build/hastemap/pkg/hastemeta"
)

func versionMain(command *cobra.Command, arguments []string) error {
	fmt.Println(hastemeta.Version)
	return nil
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run:   cmd.Mainify(versionMain),
}
