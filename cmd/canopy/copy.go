package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/tree"
)

func copyMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 2 {
		return errors.New("copy requires a source and a destination")
	}
	source, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}
	destination, err := resolvePath(arguments[1])
	if err != nil {
		return err
	}

	// Perform the copy.
	logger := rootLogger.Sublogger("copy")
	return runMaybeAudited(logger, func(auditContext *audit.Context) error {
		return tree.Copy(source, destination, tree.CopyOptions{
			Overwrite: copyConfiguration.overwrite,
			Walk:      newWalkOptions(auditContext, logger),
		})
	})
}

var copyCommand = &cobra.Command{
	Use:   "copy <source> <destination>",
	Short: "Copy a file or directory tree",
	Run:   run(copyMain),
}

var copyConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// overwrite indicates whether or not a pre-existing destination should
	// be removed before copying.
	overwrite bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := copyCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&copyConfiguration.help, "help", "h", false, "Show help information")

	// Wire up copy flags.
	flags.BoolVarP(&copyConfiguration.overwrite, "overwrite", "f", false, "Remove a pre-existing destination before copying")
}
