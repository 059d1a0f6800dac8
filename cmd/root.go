package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/buildcontext"
	"github.com/go-gitversioning/gitversioning/internal/errorkind"
)

// Global flags shared across commands.
var (
	flagPath    string
	flagProject string
)

// buildCtx carries the process environment and output streams. It is
// built from the real process state when the package is initialized;
// command tests replace it with
// captured buffers so no command function ever touches os.Stdout or
// os.Getenv directly.
var buildCtx = buildcontext.FromEnviron()

// rootCmd is the top-level command for gitversioning.
var rootCmd = &cobra.Command{
	Use:   "gitversioning",
	Short: "Deterministic semantic versions from git history",
	Long: "gitversioning computes a reproducible, semver-2.0 compliant version for every\n" +
		"commit of a repository, from the checked-in version.json and the shape of the\n" +
		"commit DAG. The result is stable across clones and independent of tags.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "p", ".", "path to the git repository")
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "project subdirectory relative to the repository root")
}

// projectDir is the on-disk directory the current invocation's project
// lives in.
func projectDir() string {
	if flagProject == "" {
		return flagPath
	}
	return filepath.Join(flagPath, filepath.FromSlash(flagProject))
}

// Execute runs the root command, mapping typed error kinds to their
// stable exit codes. Codes are appended, never renumbered.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(buildCtx.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if kind, ok := errorkind.As(err); ok {
		return kind.ExitCode()
	}
	return 1
}
