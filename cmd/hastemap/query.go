package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/internal/hcache"
	"github.com/haste-build/hastemap/pkg/cmd"
)

// queryMain loads an existing cache file directly (it does not run the
// build pipeline) and answers a single module or file lookup against it,
// for inspecting a cache produced by a prior "hastemap build" run.
func queryMain(command *cobra.Command, arguments []string) error {
	h, err := hcache.Load(queryConfiguration.cache)
	if err != nil {
		return fmt.Errorf("unable to load cache: %w", err)
	}

	files, modules, err := hastemap.FacadesFrom(h)
	if err != nil {
		return fmt.Errorf("unable to construct query facades: %w", err)
	}

	switch {
	case queryConfiguration.module != "":
		path, ok := modules.GetModule(queryConfiguration.module, queryConfiguration.platform, "", false)
		if !ok {
			return fmt.Errorf("module %q not found for platform %q", queryConfiguration.module, queryConfiguration.platform)
		}
		fmt.Println(path)
	case queryConfiguration.file != "":
		deps, ok := files.GetDependencies(queryConfiguration.file)
		if !ok {
			return fmt.Errorf("file %q not found", queryConfiguration.file)
		}
		for _, dep := range deps {
			fmt.Println(dep)
		}
	default:
		return fmt.Errorf("one of --module or --file must be specified")
	}

	return nil
}

var queryCommand = &cobra.Command{
	Use:   "query",
	Short: "Query an existing haste map cache for a module or file",
	Run:   cmd.Mainify(queryMain),
}

var queryConfiguration struct {
	cache    string
	module   string
	platform string
	file     string
}

func init() {
	flags := queryCommand.Flags()
	flags.SortFlags = false

	flags.StringVarP(&queryConfiguration.cache, "cache", "c", "", "Path to the cache file to query")
	flags.StringVar(&queryConfiguration.module, "module", "", "Module id to resolve")
	flags.StringVar(&queryConfiguration.platform, "platform", hastemap.GenericPlatform, "Platform to resolve the module for")
	flags.StringVar(&queryConfiguration.file, "file", "", "File path whose dependencies should be printed")
	queryCommand.MarkFlagRequired("cache")
}
