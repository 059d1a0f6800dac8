package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/release"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

var (
	flagNextVersion      string
	flagVersionIncrement string
	flagReleaseFormat    string
)

var prepareReleaseCmd = &cobra.Command{
	Use:   "prepare-release [tag]",
	Short: "Plan a release branch and advance the main-branch version",
	Long: "Computes the release-branch version, the branch name, and the next version\n" +
		"for the current branch, then stages the updated version.json. Branch creation\n" +
		"itself is left to git; the printed plan names the branch to create.",
	Args: cobra.MaximumNArgs(1),
	RunE: prepareReleaseRunE,
}

func init() {
	prepareReleaseCmd.Flags().StringVar(&flagNextVersion, "nextVersion", "", "explicit version for the current branch after the release")
	prepareReleaseCmd.Flags().StringVar(&flagVersionIncrement, "versionIncrement", "", "component to bump for the next version: Major, Minor, or Build")
	prepareReleaseCmd.Flags().StringVar(&flagReleaseFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(prepareReleaseCmd)
}

func prepareReleaseRunE(_ *cobra.Command, args []string) error {
	tag := ""
	if len(args) > 0 {
		tag = args[0]
	}

	store, err := objectstore.Open(flagPath)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}

	opts, path, err := versionfile.Discover(projectDir())
	if err != nil {
		return err
	}
	if opts == nil {
		return errorkind.New(errorkind.ConfigMissing,
			fmt.Errorf("no version.json found at or above %s", projectDir()))
	}

	input, err := planInput(store, opts, tag)
	if err != nil {
		return err
	}
	plan, err := release.PlanRelease(input)
	if err != nil {
		return err
	}

	if err := stageNextVersion(store, path, plan.NextVersion); err != nil {
		return err
	}

	return writePlan(plan)
}

// planInput gathers the repository state PlanRelease validates against.
func planInput(store objectstore.Store, opts *versionfile.VersionOptions, tag string) (release.Input, error) {
	dirty, err := store.UncommittedChangeCount()
	if err != nil {
		return release.Input{}, err
	}

	headName, _, err := store.HeadRef()
	if err != nil {
		return release.Input{}, fmt.Errorf("resolving HEAD: %w", err)
	}
	headBranch := strings.TrimPrefix(headName, "refs/heads/")
	if headName == "" {
		headBranch = ""
	}

	refs, err := store.ListRefs()
	if err != nil {
		return release.Input{}, err
	}
	branches := make(map[string]bool)
	for _, ref := range refs {
		if strings.HasPrefix(ref.Name, "refs/heads/") {
			branches[strings.TrimPrefix(ref.Name, "refs/heads/")] = true
		}
	}

	userName, userEmail, err := store.UserIdentity()
	if err != nil {
		return release.Input{}, err
	}

	var nextVersion *semver.SemanticVersion
	if flagNextVersion != "" {
		parsed, err := semver.Parse(flagNextVersion)
		if err != nil {
			return release.Input{}, errorkind.New(errorkind.VersionSpecFormat, err)
		}
		nextVersion = &parsed
	}

	return release.Input{
		Current:               opts,
		Tag:                   tag,
		NextVersion:           nextVersion,
		Increment:             versionfile.VersionIncrement(flagVersionIncrement),
		HasUncommittedChanges: dirty > 0,
		HeadBranch:            headBranch,
		ExistingBranches:      branches,
		UserNameConfigured:    userName != "",
		UserEmailConfigured:   userEmail != "",
	}, nil
}

// stageNextVersion rewrites the discovered version file with the plan's
// next version and stages it on the current branch.
func stageNextVersion(store objectstore.Store, versionFilePath string, next semver.SemanticVersion) error {
	if store.WorkDir() == "" {
		return fmt.Errorf("prepare-release requires a working tree")
	}

	target := versionFilePath
	if strings.HasSuffix(target, "version.txt") {
		target = filepath.Join(filepath.Dir(target), "version.json")
	}
	content, err := updatedVersionJSON(versionFilePath, next.String())
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(store.WorkDir(), target)
	if err != nil {
		return fmt.Errorf("resolving %s relative to the working tree: %w", target, err)
	}
	return store.StageFile(filepath.ToSlash(rel), content)
}

func writePlan(plan release.Plan) error {
	switch flagReleaseFormat {
	case "json":
		data, err := json.MarshalIndent(map[string]string{
			"releaseBranch":        plan.ReleaseBranchName,
			"releaseBranchVersion": plan.ReleaseBranchVersion.String(),
			"nextVersion":          plan.NextVersion.String(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering release plan: %w", err)
		}
		_, err = fmt.Fprintln(buildCtx.Stdout, string(data))
		return err
	case "", "text":
		fmt.Fprintf(buildCtx.Stdout, "release branch:  %s (version %s)\n", plan.ReleaseBranchName, plan.ReleaseBranchVersion.String())
		fmt.Fprintf(buildCtx.Stdout, "current branch:  version %s (staged in version.json)\n", plan.NextVersion.String())
		return nil
	default:
		return fmt.Errorf("unknown output format %q", flagReleaseFormat)
	}
}
