package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

var flagQuiet bool

var getCommitsCmd = &cobra.Command{
	Use:   "get-commits <version>",
	Short: "Find the commits a stamped version was produced from",
	Long: "Reverses the version encoding: enumerates the commits reachable from HEAD\n" +
		"whose commit-id fragment and recomputed height reproduce the given\n" +
		"four-component version. The revision component accepts decimal or hex.",
	Args: cobra.ExactArgs(1),
	RunE: getCommitsRunE,
}

func init() {
	getCommitsCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "print only matching commit ids")
	rootCmd.AddCommand(getCommitsCmd)
}

func getCommitsRunE(_ *cobra.Command, args []string) error {
	query, err := parseVersionQuery(args[0])
	if err != nil {
		return err
	}

	store, err := objectstore.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	matches, err := decodeCommits(store, query)
	if err != nil {
		return err
	}

	for _, id := range matches {
		fmt.Fprintln(buildCtx.Stdout, id)
	}
	if len(matches) == 0 && !flagQuiet {
		fmt.Fprintf(buildCtx.Stderr, "no commits reachable from HEAD match version %s\n", args[0])
	}
	return nil
}

// decodeCommits runs the reverse lookup under the same path scope the
// forward computation would use.
func decodeCommits(store objectstore.Store, query versionnumber.Version) ([]string, error) {
	scope := pathscope.Scope{Subdirectory: flagProject}
	if opts, _, err := versionfile.Discover(projectDir()); err == nil && opts != nil && len(opts.PathFilters) > 0 {
		filters, err := pathscope.ParseFilters(opts.PathFilters, flagProject)
		if err != nil {
			return nil, err
		}
		scope.Filters = filters
	}

	return versionnumber.Decode(versionnumber.DecodeQuery{
		Store:        store,
		Subdirectory: flagProject,
		Scope:        scope,
		ConfigAt: func(commitID string) (*versionfile.VersionOptions, error) {
			return versionfile.DiscoverAtCommit(store, commitID, flagProject)
		},
	}, query)
}

// parseVersionQuery parses a 2-4 component numeric version. The fourth
// component also accepts hexadecimal, matching how stamped revisions are
// usually quoted.
func parseVersionQuery(s string) (versionnumber.Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return versionnumber.Version{}, errorkind.New(errorkind.VersionSpecFormat,
			fmt.Errorf("version %q must have 2 to 4 components", s))
	}

	components := make([]uint16, 4)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil && i == 3 {
			n, err = strconv.ParseUint(p, 16, 16)
		}
		if err != nil {
			return versionnumber.Version{}, errorkind.New(errorkind.VersionSpecFormat,
				fmt.Errorf("version %q: component %q: %w", s, p, err))
		}
		components[i] = uint16(n)
	}

	return versionnumber.Version{
		Major:    components[0],
		Minor:    components[1],
		Build:    components[2],
		Revision: components[3],
	}, nil
}
