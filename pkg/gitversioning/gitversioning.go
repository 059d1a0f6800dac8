// Package gitversioning provides a public Go API for computing
// deterministic version artifacts from git history.
//
// Basic usage:
//
//	result, err := gitversioning.GetVersion(gitversioning.Options{
//	    Path: "/path/to/repo",
//	})
//	fmt.Println(result.Variables["SemVer2"]) // "1.2.3-beta.4"
//
// Every output is a pure function of the commit DAG and the checked-in
// version.json: two builds of the same commit yield the same version on
// any clone, host, or locale.
package gitversioning

import (
	"fmt"
	"path/filepath"

	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/oracle"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

// Options configures version computation for a local git repository.
type Options struct {
	// Path to the git repository. Defaults to "." if empty.
	Path string

	// Project is the subdirectory whose version configuration and path
	// scope govern the computation. Empty means the repository root.
	Project string

	// Committish selects the commit to version: a full or short commit
	// id, a ref name, or HEAD. Empty means HEAD.
	Committish string

	// Metadata lists extra identifiers appended to the informational
	// version's build metadata.
	Metadata []string

	// CloudBuildRef, when set, overrides HEAD's canonical name for the
	// public-release decision (typically the ref a CI system reports).
	CloudBuildRef string
}

// Result holds the computed artifacts, both as a typed record and as the
// flat variable map CI systems consume.
type Result struct {
	// Artifacts is the full typed artifact set.
	Artifacts oracle.VersionArtifacts

	// Variables contains every artifact rendered as a string, keyed by name.
	// Common keys: Version, SemVer1, SemVer2, NuGetPackageVersion,
	// GitCommitId, GitCommitIdShort.
	Variables map[string]string
}

// GetVersion computes the full version artifact set for a commit of a
// local repository. A missing repository is not an error: it produces the
// degenerate 0.0.1.0 artifact set, matching the behavior CI hooks rely on
// when building exported source trees.
func GetVersion(opts Options) (*Result, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}

	var cloudRef *oracle.CloudBuildRef
	if opts.CloudBuildRef != "" {
		cloudRef = &oracle.CloudBuildRef{Ref: opts.CloudBuildRef}
	}

	artifacts, err := oracle.Create(oracle.CreateParams{
		RepoPath:     path,
		Subdirectory: opts.Project,
		Committish:   opts.Committish,
		Metadata:     opts.Metadata,
		CloudBuild:   cloudRef,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Artifacts: artifacts, Variables: artifacts.Variables()}, nil
}

// Version is a stamped four-component version to reverse-look-up.
type Version = versionnumber.Version

// FindCommits returns the ids of every commit reachable from HEAD whose
// encoding reproduces version: same major/minor base, same height-derived
// build component, and a commit id starting with the revision's two
// bytes. The result may be empty or contain several ids.
func FindCommits(opts Options, version Version) ([]string, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}

	store, err := objectstore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	scope := pathscope.Scope{Subdirectory: opts.Project}
	if vopts, _, err := versionfile.Discover(filepath.Join(path, opts.Project)); err == nil && vopts != nil && len(vopts.PathFilters) > 0 {
		filters, err := pathscope.ParseFilters(vopts.PathFilters, opts.Project)
		if err != nil {
			return nil, err
		}
		scope.Filters = filters
	}

	return versionnumber.Decode(versionnumber.DecodeQuery{
		Store:        store,
		Subdirectory: opts.Project,
		Scope:        scope,
		ConfigAt: func(commitID string) (*versionfile.VersionOptions, error) {
			return versionfile.DiscoverAtCommit(store, commitID, opts.Project)
		},
	}, version)
}
