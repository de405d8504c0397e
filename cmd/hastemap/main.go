package main

import (
	"os"

	"github.com/spf13/cobra"
)

func rootMain(command *cobra.Command, arguments []string) error {
	// If no subcommand was given, print help and bail, mirroring the
	// teacher's root command (arguments can't reach this point: anything
	// present is mistaken for a subcommand and reported as an error).
	return command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "hastemap",
	Short: "hastemap builds and queries a haste map index over a source tree",
	RunE:  rootMain,
}

func init() {
	flags := rootCommand.Flags()
	flags.SortFlags = false

	cobra.EnableCommandSorting = false
	cobra.MousetrapHelpText = ""

	rootCommand.AddCommand(
		buildCommand,
		queryCommand,
		versionCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
