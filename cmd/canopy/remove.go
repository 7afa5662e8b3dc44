package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/tree"
)

func removeMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) == 0 {
		return errors.New("remove requires at least one path")
	}

	// Perform the removals.
	logger := rootLogger.Sublogger("remove")
	return runMaybeAudited(logger, func(auditContext *audit.Context) error {
		for _, argument := range arguments {
			path, err := resolvePath(argument)
			if err != nil {
				return err
			}
			if err := tree.Remove(path, tree.RemoveOptions{
				Swallow: removeConfiguration.swallow,
				Walk:    newWalkOptions(auditContext, logger),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

var removeCommand = &cobra.Command{
	Use:   "remove <path> [<path>...]",
	Short: "Remove files or directory trees",
	Run:   run(removeMain),
}

var removeConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// swallow indicates whether or not per-entry removal failures should be
	// logged and skipped.
	swallow bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := removeCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&removeConfiguration.help, "help", "h", false, "Show help information")

	// Wire up remove flags.
	flags.BoolVar(&removeConfiguration.swallow, "swallow", false, "Continue past per-entry failures (best-effort removal)")
}
