// Package versionfile loads and merges version.json (and the legacy
// version.txt) configuration, both from working trees and from commit
// trees, applying the inherit chain.
package versionfile

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"dario.cat/mergo"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/semver"
)

// AssemblyVersionPrecision selects how many components of assemblyVersion
// are populated before zero-filling.
type AssemblyVersionPrecision string

const (
	PrecisionMajor    AssemblyVersionPrecision = "Major"
	PrecisionMinor    AssemblyVersionPrecision = "Minor"
	PrecisionBuild    AssemblyVersionPrecision = "Build"
	PrecisionRevision AssemblyVersionPrecision = "Revision"
)

// AssemblyVersionOptions configures the widened four-component assembly
// version derived from the project version.
type AssemblyVersionOptions struct {
	Version   string                   `json:"version,omitempty"`
	Precision AssemblyVersionPrecision `json:"precision,omitempty"`
}

// UnmarshalJSON accepts both the object form {"version": ..., "precision":
// ...} and the shorthand string form "M.m".
func (a *AssemblyVersionOptions) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.Version = s
		return nil
	}
	type plain AssemblyVersionOptions
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AssemblyVersionOptions(v)
	return nil
}

// NuGetPackageVersionOptions selects the SemVer rendering rule for
// nuGetPackageVersion.
type NuGetPackageVersionOptions struct {
	SemVer int `json:"semVer,omitempty"`
}

// IncludeCommitIDWhen controls when the short commit id is folded into a
// cloud build number.
type IncludeCommitIDWhen string

const (
	IncludeCommitIDAlways               IncludeCommitIDWhen = "Always"
	IncludeCommitIDNonPublicReleaseOnly IncludeCommitIDWhen = "NonPublicReleaseOnly"
	IncludeCommitIDNever                IncludeCommitIDWhen = "Never"
)

// IncludeCommitIDWhere selects where the short commit id is placed.
type IncludeCommitIDWhere string

const (
	IncludeCommitIDBuildMetadata       IncludeCommitIDWhere = "BuildMetadata"
	IncludeCommitIDFourthVersionComponent IncludeCommitIDWhere = "FourthVersionComponent"
)

// IncludeCommitIDOptions configures where the short commit id is placed
// in a cloud build number.
type IncludeCommitIDOptions struct {
	When  IncludeCommitIDWhen  `json:"when,omitempty"`
	Where IncludeCommitIDWhere `json:"where,omitempty"`
}

// BuildNumberOptions configures cloud build number emission.
type BuildNumberOptions struct {
	Enabled         *bool                   `json:"enabled,omitempty"`
	IncludeCommitID *IncludeCommitIDOptions `json:"includeCommitId,omitempty"`
}

// CloudBuildOptions configures cloud CI integration.
type CloudBuildOptions struct {
	SetVersionVariables *bool                `json:"setVersionVariables,omitempty"`
	BuildNumber         *BuildNumberOptions  `json:"buildNumber,omitempty"`
}

// VersionIncrement names the component a release's next-branch version is
// bumped by.
type VersionIncrement string

const (
	IncrementMajor VersionIncrement = "Major"
	IncrementMinor VersionIncrement = "Minor"
	IncrementBuild VersionIncrement = "Build"
)

// ReleaseOptions configures the release planner.
type ReleaseOptions struct {
	BranchName        string           `json:"branchName,omitempty"`
	VersionIncrement  VersionIncrement `json:"versionIncrement,omitempty"`
	FirstUnstableTag  string           `json:"firstUnstableTag,omitempty"`
	VersionFieldCount int              `json:"versionFieldCount,omitempty"`
}

// VersionOptions is the parsed, not-yet-merged content of one version.json
// document. Pointer fields distinguish "absent" from "set
// to the zero value" for inheritance merging.
type VersionOptions struct {
	Schema  string `json:"$schema,omitempty"`
	Inherit *bool  `json:"inherit,omitempty"`
	Version string `json:"version,omitempty"`

	AssemblyVersion *AssemblyVersionOptions `json:"assemblyVersion,omitempty"`

	BuildNumberOffset *int64 `json:"buildNumberOffset,omitempty"`

	SemVer1NumericIdentifierPadding *int `json:"semVer1NumericIdentifierPadding,omitempty"`
	GitCommitIDShortFixedLength     *int `json:"gitCommitIdShortFixedLength,omitempty"`
	GitCommitIDShortAutoMinimum     *int `json:"gitCommitIdShortAutoMinimum,omitempty"`

	PublicReleaseRefSpec []string `json:"publicReleaseRefSpec,omitempty"`

	NuGetPackageVersion *NuGetPackageVersionOptions `json:"nuGetPackageVersion,omitempty"`

	PathFilters []string `json:"pathFilters,omitempty"`

	CloudBuild *CloudBuildOptions `json:"cloudBuild,omitempty"`

	Release *ReleaseOptions `json:"release,omitempty"`
}

// ApplyDefaults fills in fields the schema specifies a default for when
// they are not already set by the document or an ancestor in the
// inheritance chain. Discover and DiscoverAtCommit call this already;
// callers constructing a VersionOptions directly (e.g. a synthesized
// degenerate configuration) must call it themselves.
func (v *VersionOptions) ApplyDefaults() {
	if v.SemVer1NumericIdentifierPadding == nil {
		v.SemVer1NumericIdentifierPadding = intPtr(4)
	}
	if v.GitCommitIDShortAutoMinimum == nil {
		v.GitCommitIDShortAutoMinimum = intPtr(4)
	}
	if v.BuildNumberOffset == nil {
		v.BuildNumberOffset = int64Ptr(0)
	}
	if v.NuGetPackageVersion == nil {
		v.NuGetPackageVersion = &NuGetPackageVersionOptions{SemVer: 1}
	}
}

func intPtr(n int) *int       { return &n }
func int64Ptr(n int64) *int64 { return &n }

// ParsedVersion parses the Version field, if present.
func (v *VersionOptions) ParsedVersion() (semver.SemanticVersion, error) {
	if v.Version == "" {
		return semver.SemanticVersion{}, errorkind.New(errorkind.ConfigMissing, fmt.Errorf("version field is empty"))
	}
	sv, err := semver.Parse(v.Version)
	if err != nil {
		return semver.SemanticVersion{}, errorkind.New(errorkind.ConfigFormat, err)
	}
	return sv, nil
}

// ParseJSON parses and validates raw version.json bytes. commitID, when
// non-empty, is attached to any format error to aid debugging.
func ParseJSON(data []byte, commitID string) (*VersionOptions, error) {
	if err := validateAgainstSchema(data); err != nil {
		return nil, errorkind.WithCommit(errorkind.ConfigFormat, commitID, err)
	}

	var v VersionOptions
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errorkind.WithCommit(errorkind.ConfigFormat, commitID, fmt.Errorf("parsing version.json: %w", err))
	}

	if v.Inherit == nil || !*v.Inherit {
		if _, err := v.ParsedVersion(); err != nil {
			return nil, errorkind.WithCommit(errorkind.ConfigFormat, commitID, fmt.Errorf("version.json: %w", err))
		}
	}
	return &v, nil
}

var versionTxtPrereleaseRegex = regexp.MustCompile(`^-`)

// ParseLegacyText parses a two-line version.txt document: major.minor[.build]
// on line 1, an optional prerelease identifier on line 2.
func ParseLegacyText(data []byte, commitID string) (*VersionOptions, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, errorkind.WithCommit(errorkind.ConfigFormat, commitID, fmt.Errorf("version.txt: missing version line"))
	}

	numeric := strings.TrimSpace(lines[0])
	if _, err := semver.Parse(numeric); err != nil {
		return nil, errorkind.WithCommit(errorkind.ConfigFormat, commitID, fmt.Errorf("version.txt: %w", err))
	}

	version := numeric
	if len(lines) > 1 {
		pre := strings.TrimSpace(lines[1])
		if pre != "" {
			if !versionTxtPrereleaseRegex.MatchString(pre) {
				pre = "-" + pre
			}
			version += pre
		}
	}

	return &VersionOptions{Version: version}, nil
}

// Merge shallowly merges child over parent per the inherit=true rule:
// the child's set fields win, and missing fields fall back to the
// parent's.
func Merge(child, parent *VersionOptions) (*VersionOptions, error) {
	merged := *child
	if err := mergo.Merge(&merged, *parent); err != nil {
		return nil, errorkind.New(errorkind.Internal, fmt.Errorf("merging version configuration: %w", err))
	}
	merged.ApplyDefaults()
	return &merged, nil
}
