package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/tree"
)

func walkMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 1 {
		return errors.New("walk requires exactly one path")
	}
	root, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}

	// Perform the walk, printing one entry per line.
	logger := rootLogger.Sublogger("walk")
	return runMaybeAudited(logger, func(auditContext *audit.Context) error {
		options := newWalkOptions(auditContext, logger)
		options.MaxDepth = walkConfiguration.maxDepth
		options.FollowSymbolicLinks = walkConfiguration.followSymbolicLinks
		options.IgnorePatterns = append(options.IgnorePatterns, walkConfiguration.ignore...)
		return tree.Walk(root, options, func(entry filesystem.Entry) error {
			kind, err := entry.Classify()
			if err != nil {
				return err
			}
			if walkConfiguration.long {
				size := "-"
				if kind == filesystem.KindFile {
					if info, err := os.Lstat(entry.Path.String()); err == nil {
						size = humanize.Bytes(uint64(info.Size()))
					}
				}
				fmt.Printf("%-13s %10s  %s\n", kind, size, entry.Path)
			} else {
				fmt.Println(entry.Path)
			}
			return nil
		})
	})
}

var walkCommand = &cobra.Command{
	Use:   "walk <path>",
	Short: "List the entries beneath a path",
	Run:   run(walkMain),
}

var walkConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// maxDepth bounds the traversal depth (negative values remove the
	// bound).
	maxDepth int
	// followSymbolicLinks indicates whether or not traversal should descend
	// into directories reached through symbolic links.
	followSymbolicLinks bool
	// ignore are additional ignore patterns.
	ignore []string
	// long indicates whether or not entry kinds and sizes should be printed.
	long bool
}

func init() {
	// Grab a handle for the command line flags.
	flags := walkCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&walkConfiguration.help, "help", "h", false, "Show help information")

	// Wire up walk flags.
	flags.IntVar(&walkConfiguration.maxDepth, "max-depth", -1, "Bound the traversal depth (the root is depth 0)")
	flags.BoolVar(&walkConfiguration.followSymbolicLinks, "follow-symlinks", false, "Descend into directories reached through symbolic links")
	flags.StringSliceVar(&walkConfiguration.ignore, "ignore", nil, "Ignore entries matching the pattern (may be repeated)")
	flags.BoolVarP(&walkConfiguration.long, "long", "l", false, "Print entry kinds and sizes")
}
