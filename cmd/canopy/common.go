package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/logging"
	"github.com/canopy-io/canopy/pkg/tree"
)

// run adapts an error-returning command entry point to the handler signature
// that cobra expects, reporting any failure to standard error and exiting
// with a non-zero code. Routing failures through an error return keeps
// defer-based cleanup in entry points intact, which a direct os.Exit inside
// the entry point would skip.
func run(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
			os.Exit(1)
		}
	}
}

// resolvePath converts a command line argument into a normalized path.
func resolvePath(argument string) (filesystem.Path, error) {
	path, err := filesystem.NewPath(argument)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve path '%s'", argument)
	}
	return path, nil
}

// newWalkOptions builds traversal options from the global configuration.
func newWalkOptions(auditContext *audit.Context, logger *logging.Logger) tree.WalkOptions {
	return tree.WalkOptions{
		MaxDepth:       -1,
		IgnorePatterns: globalConfiguration.Walk.Ignore,
		AuditContext:   auditContext,
		Logger:         logger,
	}
}

// runMaybeAudited runs f, wrapping it in an audited block if requested via
// the root --audit flag. Outside an audited block, f receives a nil context
// and no recording occurs.
func runMaybeAudited(logger *logging.Logger, f func(*audit.Context) error) error {
	if rootConfiguration.auditHandles {
		return audit.Audited(logger, f)
	}
	return f(nil)
}
