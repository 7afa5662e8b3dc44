package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/configuration"
	"github.com/canopy-io/canopy/pkg/logging"
)

// globalConfiguration is the loaded canopy configuration, with environment
// overlays applied. It is populated before any command runs.
var globalConfiguration *configuration.Configuration

// rootLogger is the logger from which command loggers derive.
var rootLogger = logging.RootLogger

// rootMain is the entry point for the root command.
func rootMain(command *cobra.Command, arguments []string) error {
	// If no commands were given, then print help information and bail. We
	// don't have to worry about warning about arguments being present here
	// (cobra will do that for us) since we weren't designated as an argument
	// handler.
	return command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "canopy",
	Short: "Resource-safe filesystem tree operations",
	Run:   run(rootMain),
	PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
		return initialize()
	},
}

var rootConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// logLevel is the log level name, overriding the configuration file.
	logLevel string
	// auditHandles indicates whether or not the invoked operation should run
	// inside an audited block, with leak findings reported on completion.
	auditHandles bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := rootCommand.PersistentFlags()

	// Disable alphabetical sorting of flags in help output.
	rootCommand.Flags().SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	rootCommand.Flags().BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")

	// Wire up root flags.
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "", "Set the log level (disabled|error|warn|info|debug|trace)")
	flags.BoolVar(&rootConfiguration.auditHandles, "audit", false, "Run the operation in an audited block and report leaked directory handles")

	// Register commands.
	rootCommand.AddCommand(
		walkCommand,
		digestCommand,
		copyCommand,
		removeCommand,
		zipCommand,
		unzipCommand,
		watchCommand,
		configCommand,
		versionCommand,
	)
}

// initialize loads configuration, applies environment overlays, and
// configures logging and color output. It runs before any command entry
// point.
func initialize() error {
	// Load the configuration file.
	config, err := configuration.Load()
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}

	// Apply environment overlays.
	if err := config.ApplyEnvironment(); err != nil {
		return errors.Wrap(err, "unable to apply environment")
	}
	globalConfiguration = config

	// Resolve the log level, giving the command line flag precedence over
	// the configuration file.
	levelName := config.Logging.Level
	if rootConfiguration.logLevel != "" {
		levelName = rootConfiguration.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logging.SetLevel(level)

	// Disable colorization if standard output isn't a terminal.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	// Success.
	return nil
}

func main() {
	// Execute the root command. Global initialization runs as the persistent
	// pre-run hook once flags have been parsed.
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
