// Package release implements the stateless release planner. It never
// mutates a repository; the caller applies the returned plan via
// objectstore's tagging and staging operations.
package release

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
)

// Plan is the output of PlanRelease.
type Plan struct {
	// ReleaseBranchVersion is current.version with {height} resolved to a
	// static form and the prerelease tag set to the requested tag.
	ReleaseBranchVersion semver.SemanticVersion
	// ReleaseBranchName is release.branchName with "{version}" substituted
	// at release.versionFieldCount precision.
	ReleaseBranchName string
	// NextVersion is the version to write to the current branch: either
	// the caller-supplied next version, or current.version incremented.
	NextVersion semver.SemanticVersion
}

// Input gathers everything PlanRelease needs.
type Input struct {
	Current             *versionfile.VersionOptions
	Tag                 string
	NextVersion         *semver.SemanticVersion
	Increment           versionfile.VersionIncrement
	HasUncommittedChanges bool
	HeadBranch          string // "" means detached HEAD
	ExistingBranches    map[string]bool
	UserNameConfigured  bool
	UserEmailConfigured bool
}

// PlanRelease computes a Plan, or a validation error drawn from the
// release-planner error kinds. Errors are
// returned, never a panic: the planner is read-only and side-effect free.
func PlanRelease(in Input) (Plan, error) {
	if in.Current == nil {
		return Plan{}, errorkind.New(errorkind.ConfigMissing, fmt.Errorf("no version configuration to plan a release from"))
	}
	if in.HasUncommittedChanges {
		return Plan{}, errorkind.New(errorkind.ReleaseUncommittedChanges, fmt.Errorf("working tree has uncommitted changes"))
	}
	if in.HeadBranch == "" {
		return Plan{}, errorkind.New(errorkind.ReleaseDetachedHead, fmt.Errorf("HEAD is detached"))
	}
	if !in.UserNameConfigured || !in.UserEmailConfigured {
		return Plan{}, errorkind.New(errorkind.ReleaseUserNotConfigured, fmt.Errorf("git user name/email is not configured"))
	}

	rel := in.Current.Release
	if rel == nil {
		rel = &versionfile.ReleaseOptions{BranchName: "v{version}", VersionFieldCount: 2}
	}
	if !strings.Contains(rel.BranchName, "{version}") {
		return Plan{}, errorkind.New(errorkind.ReleaseInvalidBranchName, fmt.Errorf("release.branchName %q lacks {version}", rel.BranchName))
	}
	fieldCount := rel.VersionFieldCount
	if fieldCount == 0 {
		fieldCount = 2
	}
	if fieldCount < 1 || fieldCount > 3 {
		return Plan{}, errorkind.New(errorkind.ReleaseInvalidVersionIncrement, fmt.Errorf("release.versionFieldCount must be 1, 2, or 3, got %d", fieldCount))
	}

	current, err := in.Current.ParsedVersion()
	if err != nil {
		return Plan{}, err
	}

	releaseVersion := current.ResolveHeight(0)
	if in.Tag != "" {
		releaseVersion.Prerelease = in.Tag
	} else {
		releaseVersion.Prerelease = ""
	}

	branchName := substituteVersion(rel.BranchName, releaseVersion, fieldCount)
	if in.ExistingBranches != nil && in.ExistingBranches[branchName] {
		return Plan{}, errorkind.New(errorkind.ReleaseBranchExists, fmt.Errorf("branch %q already exists", branchName))
	}

	var next semver.SemanticVersion
	if in.NextVersion != nil {
		next = *in.NextVersion
	} else {
		increment := in.Increment
		if increment == "" {
			increment = rel.VersionIncrement
		}
		if increment == "" {
			increment = versionfile.IncrementMinor
		}
		if increment == versionfile.IncrementBuild && len(current.Components) < 3 {
			return Plan{}, errorkind.New(errorkind.ReleaseInvalidVersionIncrement, fmt.Errorf("versionIncrement=Build requires a 3-component version"))
		}
		next, err = incrementVersion(current, increment)
		if err != nil {
			return Plan{}, err
		}
		if rel.FirstUnstableTag != "" {
			next.Prerelease = rel.FirstUnstableTag
		}
	}

	if compareNumeric(next, current) < 0 {
		return Plan{}, errorkind.New(errorkind.ReleaseVersionDecrement, fmt.Errorf("next version %s would decrement current version %s", next.NumericString(), current.NumericString()))
	}

	return Plan{
		ReleaseBranchVersion: releaseVersion,
		ReleaseBranchName:    branchName,
		NextVersion:          next,
	}, nil
}

// substituteVersion replaces "{version}" in template with v's numeric
// components truncated to fieldCount.
func substituteVersion(template string, v semver.SemanticVersion, fieldCount int) string {
	components := v.Components
	if len(components) > fieldCount {
		components = components[:fieldCount]
	}
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = strconv.FormatInt(c, 10)
	}
	rendered := strings.Join(parts, ".")
	return strings.ReplaceAll(template, "{version}", rendered)
}

// incrementVersion bumps the named component of v by one, zeroing every
// less-significant numeric component, per conventional semver increment
// rules adapted to this model's 2-4 component versions.
func incrementVersion(v semver.SemanticVersion, increment versionfile.VersionIncrement) (semver.SemanticVersion, error) {
	components := append([]int64{}, v.Components...)
	switch increment {
	case versionfile.IncrementMajor:
		components[0]++
		for i := 1; i < len(components); i++ {
			components[i] = 0
		}
	case versionfile.IncrementMinor:
		if len(components) < 2 {
			return semver.SemanticVersion{}, errorkind.New(errorkind.ReleaseInvalidVersionIncrement, fmt.Errorf("versionIncrement=Minor requires at least 2 components"))
		}
		components[1]++
		for i := 2; i < len(components); i++ {
			components[i] = 0
		}
	case versionfile.IncrementBuild:
		if len(components) < 3 {
			return semver.SemanticVersion{}, errorkind.New(errorkind.ReleaseInvalidVersionIncrement, fmt.Errorf("versionIncrement=Build requires at least 3 components"))
		}
		components[2]++
		for i := 3; i < len(components); i++ {
			components[i] = 0
		}
	default:
		return semver.SemanticVersion{}, errorkind.New(errorkind.ReleaseInvalidVersionIncrement, fmt.Errorf("unknown versionIncrement %q", increment))
	}
	return semver.SemanticVersion{Components: components}, nil
}

// compareNumeric compares a and b component-wise, treating missing
// trailing components as 0. Returns -1, 0, or 1.
func compareNumeric(a, b semver.SemanticVersion) int {
	n := len(a.Components)
	if len(b.Components) > n {
		n = len(b.Components)
	}
	for i := 0; i < n; i++ {
		var av, bv int64
		if i < len(a.Components) {
			av = a.Components[i]
		}
		if i < len(b.Components) {
			bv = b.Components[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
