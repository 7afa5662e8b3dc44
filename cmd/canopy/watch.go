package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/must"
)

func watchMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 1 {
		return errors.New("watch requires exactly one path")
	}
	directory, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}

	// Watch until interrupted, printing one event per line. Output failures
	// (e.g. a broken pipe on the receiving end of the event stream) can only
	// be logged, since the watch itself keeps running.
	logger := rootLogger.Sublogger("watch")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = filesystem.Watch(ctx, directory, func(event filesystem.Event) {
		must.Fprint(os.Stdout, logger, fmt.Sprintf("%-9s %s\n", event.Kind, event.Path))
	}, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var watchCommand = &cobra.Command{
	Use:   "watch <path>",
	Short: "Print native change notifications for a directory",
	Run:   run(watchMain),
}

var watchConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := watchCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&watchConfiguration.help, "help", "h", false, "Show help information")
}
