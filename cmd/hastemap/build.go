package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hastemap "github.com/haste-build/hastemap"
	"github.com/haste-build/hastemap/pkg/cmd"
	"github.com/haste-build/hastemap/pkg/encoding"
	"github.com/haste-build/hastemap/pkg/logging"
)

// buildFileConfig mirrors hastemap.Options field-for-field (minus
// InlineExtractor, which has no CLI-loadable representation: the CLI
// always drives the out-of-process extractor pool), loadable from a TOML
// file via pkg/encoding.LoadAndUnmarshalTOML.
type buildFileConfig struct {
	Name                      string   `toml:"name"`
	Roots                     []string `toml:"roots"`
	Extensions                []string `toml:"extensions"`
	Platforms                 []string `toml:"platforms"`
	CacheDirectory            string   `toml:"cacheDirectory"`
	IgnorePattern             string   `toml:"ignorePattern"`
	ExtraIgnoreGlobs          []string `toml:"extraIgnoreGlobs"`
	MocksPattern              string   `toml:"mocksPattern"`
	ProvidesModuleNodeModules []string `toml:"providesModuleNodeModules"`
	RetainAllFiles            bool     `toml:"retainAllFiles"`
	MaxWorkers                int      `toml:"maxWorkers"`
	ExtractorCommand          []string `toml:"extractorCommand"`
	ThrowOnModuleCollision    bool     `toml:"throwOnModuleCollision"`
	UseWatchman               bool     `toml:"useWatchman"`
	ResetCache                bool     `toml:"resetCache"`
}

func buildMain(command *cobra.Command, arguments []string) error {
	var file buildFileConfig
	if buildConfiguration.config != "" {
		if err := encoding.LoadAndUnmarshalTOML(buildConfiguration.config, &file); err != nil {
			return fmt.Errorf("unable to load configuration file: %w", err)
		}
	}

	options := hastemap.Options{
		Name:                      coalesce(buildConfiguration.name, file.Name),
		Roots:                     coalesceSlice(buildConfiguration.roots, file.Roots),
		Extensions:                coalesceSlice(buildConfiguration.extensions, file.Extensions),
		Platforms:                 coalesceSlice(buildConfiguration.platforms, file.Platforms),
		CacheDirectory:            coalesce(buildConfiguration.cacheDirectory, file.CacheDirectory),
		IgnorePattern:             coalesce(buildConfiguration.ignorePattern, file.IgnorePattern),
		ExtraIgnoreGlobs:          coalesceSlice(buildConfiguration.extraIgnoreGlobs, file.ExtraIgnoreGlobs),
		MocksPattern:              coalesce(buildConfiguration.mocksPattern, file.MocksPattern),
		ProvidesModuleNodeModules: coalesceSlice(buildConfiguration.nodeModulesWhitelist, file.ProvidesModuleNodeModules),
		RetainAllFiles:            buildConfiguration.retainAllFiles || file.RetainAllFiles,
		MaxWorkers:                coalesceInt(buildConfiguration.workers, file.MaxWorkers),
		ExtractorCommand:          coalesceSlice(buildConfiguration.extractorCommand, file.ExtractorCommand),
		ThrowOnModuleCollision:    buildConfiguration.throwOnCollision || file.ThrowOnModuleCollision,
		UseWatchman:               buildConfiguration.useWatchman || file.UseWatchman,
		ResetCache:                buildConfiguration.resetCache || file.ResetCache,
	}

	// The CLI has no way to supply an in-process Go extractor function, so
	// it always drives the process pool, defaulting to the reference
	// extractor binary shipped alongside it.
	if options.MaxWorkers <= 1 {
		options.MaxWorkers = 4
	}
	if len(options.ExtractorCommand) == 0 {
		options.ExtractorCommand = []string{"hastemap-extractor"}
	}

	logger := logging.RootLogger.Sublogger("build")

	builder, err := hastemap.NewBuilder(options, logger)
	if err != nil {
		return fmt.Errorf("unable to create builder: %w", err)
	}

	files, modules, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("cache: %s\n", builder.CachePath())
	fmt.Printf("files: %d\n", files.Len())
	fmt.Printf("modules: %d\n", modules.Len())

	return nil
}

func coalesce(flag, file string) string {
	if flag != "" {
		return flag
	}
	return file
}

func coalesceInt(flag, file int) int {
	if flag != 0 {
		return flag
	}
	return file
}

func coalesceSlice(flag, file []string) []string {
	if len(flag) != 0 {
		return flag
	}
	return file
}

var buildCommand = &cobra.Command{
	Use:   "build",
	Short: "Build or incrementally update the haste map index",
	Run:   cmd.Mainify(buildMain),
}

var buildConfiguration struct {
	config               string
	name                 string
	roots                []string
	extensions           []string
	platforms            []string
	cacheDirectory       string
	ignorePattern        string
	extraIgnoreGlobs     []string
	mocksPattern         string
	nodeModulesWhitelist []string
	retainAllFiles       bool
	workers              int
	extractorCommand     []string
	throwOnCollision     bool
	useWatchman          bool
	resetCache           bool
}

func init() {
	flags := buildCommand.Flags()
	flags.SortFlags = false

	flags.StringVarP(&buildConfiguration.config, "config", "c", "", "Load options from a TOML configuration file")
	flags.StringVar(&buildConfiguration.name, "name", "", "Logical project name")
	flags.StringSliceVar(&buildConfiguration.roots, "root", nil, "Root directory to crawl (repeatable)")
	flags.StringSliceVar(&buildConfiguration.extensions, "extension", nil, "File extension to include, without a leading dot (repeatable)")
	flags.StringSliceVar(&buildConfiguration.platforms, "platform", nil, "Recognized platform extension token (repeatable)")
	flags.StringVar(&buildConfiguration.cacheDirectory, "cache-dir", "", "Directory in which to place the cache file")
	flags.StringVar(&buildConfiguration.ignorePattern, "ignore-pattern", "", "Regular expression matched against absolute paths to exclude")
	flags.StringSliceVar(&buildConfiguration.extraIgnoreGlobs, "ignore-glob", nil, "Gitignore-style glob to exclude (repeatable)")
	flags.StringVar(&buildConfiguration.mocksPattern, "mocks-pattern", "", "Regular expression identifying mock files")
	flags.StringSliceVar(&buildConfiguration.nodeModulesWhitelist, "node-modules-whitelist", nil, "node_modules package name to include (repeatable)")
	flags.BoolVar(&buildConfiguration.retainAllFiles, "retain-all-files", false, "Keep node_modules files in the files table without extracting them")
	flags.IntVar(&buildConfiguration.workers, "workers", 0, "Number of extractor worker processes")
	flags.StringSliceVar(&buildConfiguration.extractorCommand, "extractor-command", nil, "Extractor worker command and arguments")
	flags.BoolVar(&buildConfiguration.throwOnCollision, "throw-on-collision", false, "Abort the build on a module id collision instead of warning")
	flags.BoolVar(&buildConfiguration.useWatchman, "use-watchman", false, "Permit the watcher-based crawler, subject to availability")
	flags.BoolVar(&buildConfiguration.resetCache, "reset-cache", false, "Discard the existing cache and rebuild from scratch")
}
