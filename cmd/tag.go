package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
)

var tagCmd = &cobra.Command{
	Use:   "tag [versionOrRef]",
	Short: "Tag a commit with the version it produces",
	Long: "Creates refs/tags/v<version> at the named commit. The argument may be a\n" +
		"committish or a previously stamped version; without one, HEAD is tagged.",
	Args: cobra.MaximumNArgs(1),
	RunE: tagRunE,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func tagRunE(_ *cobra.Command, args []string) error {
	store, err := objectstore.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	commitID, err := tagTarget(store, args)
	if err != nil {
		return err
	}

	artifacts, err := oracle.Create(oracle.CreateParams{
		RepoPath:     flagPath,
		Subdirectory: flagProject,
		Committish:   commitID,
	})
	if err != nil {
		return err
	}

	name := "v" + artifacts.SimpleVersion
	if err := store.CreateTag(name, commitID); err != nil {
		if errors.Is(err, objectstore.ErrTagExists) {
			return errorkind.New(errorkind.TagConflict, err)
		}
		return err
	}

	fmt.Fprintf(buildCtx.Stdout, "created tag %s at %s\n", name, artifacts.GitCommitIDShort)
	return nil
}

// tagTarget resolves the command argument to a single commit: a stamped
// version is decoded back to its producing commit, anything else goes
// through normal committish resolution, and no argument means HEAD.
func tagTarget(store objectstore.Store, args []string) (string, error) {
	if len(args) == 0 {
		return store.ResolveRef("HEAD")
	}

	if query, err := parseVersionQuery(args[0]); err == nil {
		matches, err := decodeCommits(store, query)
		if err != nil {
			return "", err
		}
		switch len(matches) {
		case 0:
			return "", errorkind.New(errorkind.GitObjectNotFound,
				fmt.Errorf("no commit reachable from HEAD produces version %s", args[0]))
		case 1:
			return matches[0], nil
		default:
			return "", errorkind.New(errorkind.AmbiguousID,
				fmt.Errorf("version %s matches %d commits", args[0], len(matches)))
		}
	}

	id, err := store.ResolveRef(args[0])
	if err != nil {
		if errors.Is(err, objectstore.ErrAmbiguous) {
			return "", errorkind.New(errorkind.AmbiguousID, err)
		}
		return "", errorkind.New(errorkind.GitObjectNotFound, err)
	}
	return id, nil
}
