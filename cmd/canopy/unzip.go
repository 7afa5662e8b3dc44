package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/tree"
)

func unzipMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 2 {
		return errors.New("unzip requires an archive and a destination")
	}
	archive, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}
	destination, err := resolvePath(arguments[1])
	if err != nil {
		return err
	}

	// Perform the extraction.
	return tree.Extract(archive, destination, rootLogger.Sublogger("unzip"))
}

var unzipCommand = &cobra.Command{
	Use:   "unzip <archive> <destination>",
	Short: "Extract a zip container into a directory",
	Run:   run(unzipMain),
}

var unzipConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := unzipCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&unzipConfiguration.help, "help", "h", false, "Show help information")
}
