package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/configuration"
	"github.com/canopy-io/canopy/pkg/tree"
)

func zipMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 2 {
		return errors.New("zip requires a path and an archive destination")
	}
	root, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}
	destination, err := resolvePath(arguments[1])
	if err != nil {
		return err
	}

	// Resolve the compression level, giving the flag precedence over the
	// configuration file.
	level := globalConfiguration.Archive.CompressionLevel
	if zipConfiguration.level != "" {
		if level, err = configuration.ParseCompressionLevel(zipConfiguration.level); err != nil {
			return err
		}
	}

	// Create the archive.
	logger := rootLogger.Sublogger("zip")
	return runMaybeAudited(logger, func(auditContext *audit.Context) error {
		return tree.Archive(root, destination, tree.ArchiveOptions{
			CompressionLevel: tree.CompressionLevel(level),
			Walk:             newWalkOptions(auditContext, logger),
		})
	})
}

var zipCommand = &cobra.Command{
	Use:   "zip <path> <archive>",
	Short: "Archive a subtree into a zip container",
	Run:   run(zipMain),
}

var zipConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// level is the compression level selection.
	level string
}

func init() {
	// Grab a handle for the command line flags.
	flags := zipCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&zipConfiguration.help, "help", "h", false, "Show help information")

	// Wire up zip flags.
	flags.StringVar(&zipConfiguration.level, "level", "", "Compression level (default|none|1-9)")
}
