package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/canopy-io/canopy/pkg/audit"
	"github.com/canopy-io/canopy/pkg/filesystem"
	"github.com/canopy-io/canopy/pkg/tree"
)

func digestMain(command *cobra.Command, arguments []string) error {
	// Validate arguments.
	if len(arguments) != 1 {
		return errors.New("digest requires exactly one path")
	}
	root, err := resolvePath(arguments[0])
	if err != nil {
		return err
	}

	// Resolve the algorithm, giving the flag precedence over the
	// configuration file.
	algorithm := globalConfiguration.Digest.Algorithm
	if digestConfiguration.algorithm != "" {
		algorithm = digestConfiguration.algorithm
	}

	// Compute the digest.
	logger := rootLogger.Sublogger("digest")
	var digest string
	if err := runMaybeAudited(logger, func(auditContext *audit.Context) error {
		digest, err = tree.Digest(root, tree.DigestOptions{
			Algorithm: algorithm,
			Walk:      newWalkOptions(auditContext, logger),
		})
		return err
	}); err != nil {
		return err
	}

	// Write the digest to the output file, if requested, or print it.
	if digestConfiguration.output != "" {
		output, err := resolvePath(digestConfiguration.output)
		if err != nil {
			return err
		}
		return filesystem.WriteFileAtomic(output, []byte(digest+"\n"), 0644, logger)
	}
	fmt.Println(digest)

	// Success.
	return nil
}

var digestCommand = &cobra.Command{
	Use:   "digest <path>",
	Short: "Compute a deterministic digest over a subtree",
	Run:   run(digestMain),
}

var digestConfiguration struct {
	// help indicates whether or not help information should be shown for the
	// command.
	help bool
	// algorithm is the digest algorithm name.
	algorithm string
	// output is an optional file to write the digest to (atomically) instead
	// of printing it.
	output string
}

func init() {
	// Grab a handle for the command line flags.
	flags := digestCommand.Flags()

	// Disable alphabetical sorting of flags in help output.
	flags.SortFlags = false

	// Manually add a help flag to override the default message. Cobra will
	// still implement its logic automatically.
	flags.BoolVarP(&digestConfiguration.help, "help", "h", false, "Show help information")

	// Wire up digest flags.
	flags.StringVarP(&digestConfiguration.algorithm, "algorithm", "a", "", "Digest algorithm (MD5|SHA1|SHA256)")
	flags.StringVarP(&digestConfiguration.output, "output", "o", "", "Write the digest to a file instead of printing it")
}
