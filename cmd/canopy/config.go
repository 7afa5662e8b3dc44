package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/configuration"
)

func configInitializeMain(command *cobra.Command, arguments []string) error {
	// Ensure that no arguments have been provided.
	if len(arguments) > 0 {
		return errors.New("this command does not accept arguments")
	}

	// Write the default configuration.
	if err := configuration.Default().Save(rootLogger.Sublogger("config")); err != nil {
		return errors.Wrap(err, "unable to write configuration")
	}

	// Report the location.
	path, err := configuration.Path()
	if err != nil {
		return err
	}
	fmt.Println("Wrote default configuration to", path)

	// Success.
	return nil
}

var configCommand = &cobra.Command{
	Use:   "config",
	Short: "Manage the canopy configuration file",
	Run:   run(rootMain),
}

var configInitializeCommand = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Run:   run(configInitializeMain),
}

var configConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := configCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&configConfiguration.help, "help", "h", false, "Show help information")

	// Register subcommands.
	configCommand.AddCommand(configInitializeCommand)
}
