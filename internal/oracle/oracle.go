package oracle

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
	"github.com/go-gitversioning/gitversioning/internal/height"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
	"github.com/go-gitversioning/gitversioning/internal/semver"
	"github.com/go-gitversioning/gitversioning/internal/versionfile"
	"github.com/go-gitversioning/gitversioning/internal/versionnumber"
)

// CloudBuildRef carries the building ref reported by a cloud CI
// collaborator, when one is detected. A nil value means no cloud
// provider was recognized and HEAD's own ref decides public-release
// status.
type CloudBuildRef struct {
	Ref string
}

// CreateParams are the inputs to Create.
type CreateParams struct {
	RepoPath     string
	Subdirectory string
	Committish   string
	Metadata     []string
	CloudBuild   *CloudBuildRef
}

// Create assembles the full VersionArtifacts set for repoPath, subdir,
// and committish. A missing repository or empty repository degrades to a
// zeroed artifact set instead of failing.
func Create(p CreateParams) (VersionArtifacts, error) {
	store, err := objectstore.Open(p.RepoPath)
	if err != nil {
		return degenerateNoGit(), nil
	}

	committish := p.Committish
	if committish == "" {
		committish = "HEAD"
	}

	commitID, resolveErr := store.ResolveRef(committish)
	if resolveErr != nil {
		if empty, emptyErr := isEmptyRepo(store); emptyErr == nil && empty {
			return createFromWorkingTree(p, store)
		}
		if store.IsShallow() {
			return VersionArtifacts{}, errorkind.New(errorkind.ShallowClone, resolveErr)
		}
		return VersionArtifacts{}, errorkind.New(errorkind.GitObjectNotFound, resolveErr)
	}

	scope := pathscope.Scope{Subdirectory: p.Subdirectory}
	configAt := func(id string) (*versionfile.VersionOptions, error) {
		return versionfile.DiscoverAtCommit(store, id, p.Subdirectory)
	}

	opts, err := configAt(commitID)
	if err != nil {
		return VersionArtifacts{}, err
	}
	if opts == nil {
		opts = &versionfile.VersionOptions{Version: "0.0.1"}
	}
	opts.ApplyDefaults()

	if len(opts.PathFilters) > 0 {
		filters, err := pathscope.ParseFilters(opts.PathFilters, p.Subdirectory)
		if err != nil {
			return VersionArtifacts{}, err
		}
		scope.Filters = filters
	}

	sv, err := opts.ParsedVersion()
	if err != nil {
		return VersionArtifacts{}, err
	}

	cacheAnchor := heightCacheAnchor(store, p.Subdirectory)
	h, cached := 0, false
	if cacheAnchor != "" {
		h, cached = height.Lookup(cacheAnchor, opts.Version, commitID)
	}
	if !cached {
		engine := height.NewEngine(store, configAt, scope)
		h, err = engine.Height(commitID, sv.BaseSignature())
		if err != nil {
			return VersionArtifacts{}, err
		}
		if cacheAnchor != "" {
			// Advisory only: a failed write never fails the build.
			_ = height.WriteCache(cacheAnchor, height.CacheEntry{
				Version:  opts.Version,
				CommitID: commitID,
				Height:   h,
			})
		}
	}

	shortID, err := shortCommitID(store, opts, commitID)
	if err != nil {
		return VersionArtifacts{}, err
	}

	headName, headID, _ := store.HeadRef()
	publicRelease := isPublicRelease(p.CloudBuild, headName, headID, commitID, opts.PublicReleaseRefSpec)

	return assemble(sv, opts, h, commitID, shortID, publicRelease, p.Metadata), nil
}

// assemble derives every VersionArtifacts field from the resolved
// configuration, height, and commit identity.
func assemble(sv semver.SemanticVersion, opts *versionfile.VersionOptions, h int, commitID, shortID string, publicRelease bool, metadata []string) VersionArtifacts {
	offset := int64(0)
	if opts.BuildNumberOffset != nil {
		offset = *opts.BuildNumberOffset
	}
	buildNumber := int(int64(h) + offset)

	resolved := sv.ResolveHeight(buildNumber)

	version := fmt.Sprintf("%d.%d.%d.0", sv.Major(), sv.Minor(), buildNumber)
	if encoded, _, err := versionnumber.Encode(sv.Major(), sv.Minor(), h, offset, commitID); err == nil {
		version = fmt.Sprintf("%d.%d.%d.%d", encoded.Major, encoded.Minor, encoded.Build, encoded.Revision)
	}

	first, second, combined := splitBuildNumber(buildNumber)

	informational := fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), buildNumber)
	if resolved.Prerelease != "" {
		informational += "-" + resolved.Prerelease
	}
	informational += "+g" + shortID
	if len(metadata) > 0 {
		informational += "." + strings.Join(metadata, ".")
	}

	assemblyVersion := widenAssemblyVersion(sv, opts, buildNumber)

	nuget := nuGetPackageVersion(resolved, opts, publicRelease, shortID)
	choco := resolved.SemVer1(padding(opts), publicRelease, shortID)
	npm := resolved.SemVer2(publicRelease, shortID)

	cloudBuildNumber := cloudBuildNumberFor(opts, resolved, publicRelease, shortID, buildNumber)

	return VersionArtifacts{
		Version:                       version,
		AssemblyVersion:               assemblyVersion,
		AssemblyFileVersion:           assemblyVersion,
		AssemblyInformationalVersion:  informational,
		SimpleVersion:                 fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), buildNumber),
		MajorMinorVersion:             fmt.Sprintf("%d.%d", sv.Major(), sv.Minor()),
		PrereleaseVersion:             resolved.Prerelease,
		BuildNumber:                   buildNumber,
		BuildNumberFirstComponent:     first,
		BuildNumberSecondComponent:    second,
		BuildNumberFirstAndSecondComponentsIfApplicable: combined,
		SemVer1:                       resolved.SemVer1(padding(opts), publicRelease, shortID),
		SemVer2:                       resolved.SemVer2(publicRelease, shortID),
		NuGetPackageVersion:           nuget,
		NpmPackageVersion:             npm,
		ChocolateyPackageVersion:      choco,
		CloudBuildNumber:              cloudBuildNumber,
		GitCommitID:                   commitID,
		GitCommitIDShort:              shortID,
		GitVersionHeight:              h,
		PublicRelease:                 publicRelease,
	}
}

func padding(opts *versionfile.VersionOptions) int {
	if opts.SemVer1NumericIdentifierPadding != nil {
		return *opts.SemVer1NumericIdentifierPadding
	}
	return 4
}

// nuGetPackageVersion renders SemVer1 by default, or SemVer2 directly
// when the document opts in.
func nuGetPackageVersion(resolved semver.SemanticVersion, opts *versionfile.VersionOptions, publicRelease bool, shortID string) string {
	if opts.NuGetPackageVersion != nil && opts.NuGetPackageVersion.SemVer == 2 {
		return resolved.SemVer2(publicRelease, shortID)
	}
	return resolved.SemVer1(padding(opts), publicRelease, shortID)
}

// splitBuildNumber divides height+offset into at most two 16-bit halves
// for build systems whose version components cap at 65535.
func splitBuildNumber(n int) (first int, second string, combined string) {
	if n <= 0xFFFF {
		return n, "", strconv.Itoa(n)
	}
	high := n >> 16
	low := n & 0xFFFF
	return high, strconv.Itoa(low), fmt.Sprintf("%d.%d", high, low)
}

// widenAssemblyVersion widens the configured or inherited assembly version
// to four components, zero-filling past the configured precision. When no
// assemblyVersion is configured, the project version truncated to the
// precision is used.
func widenAssemblyVersion(sv semver.SemanticVersion, opts *versionfile.VersionOptions, buildNumber int) string {
	base := sv
	precision := versionfile.PrecisionRevision
	if opts.AssemblyVersion != nil {
		if opts.AssemblyVersion.Version != "" {
			if parsed, err := semver.Parse(opts.AssemblyVersion.Version); err == nil {
				base = parsed
			}
		}
		if opts.AssemblyVersion.Precision != "" {
			precision = opts.AssemblyVersion.Precision
		}
	}

	major, minor := base.Major(), base.Minor()
	build := base.Build()
	if build < 0 {
		build = int64(buildNumber)
	}
	revision := base.Revision()
	if revision < 0 {
		revision = 0
	}

	switch precision {
	case versionfile.PrecisionMajor:
		minor, build, revision = 0, 0, 0
	case versionfile.PrecisionMinor:
		build, revision = 0, 0
	case versionfile.PrecisionBuild:
		revision = 0
	}

	return fmt.Sprintf("%d.%d.%d.%d", major, minor, build, revision)
}

// cloudBuildNumberFor implements the includeCommitId.when/where rules.
func cloudBuildNumberFor(opts *versionfile.VersionOptions, resolved semver.SemanticVersion, publicRelease bool, shortID string, buildNumber int) string {
	if opts.CloudBuild == nil || opts.CloudBuild.BuildNumber == nil || opts.CloudBuild.BuildNumber.Enabled == nil || !*opts.CloudBuild.BuildNumber.Enabled {
		return ""
	}
	bn := opts.CloudBuild.BuildNumber
	includeCommit := false
	if bn.IncludeCommitID != nil {
		switch bn.IncludeCommitID.When {
		case versionfile.IncludeCommitIDAlways:
			includeCommit = true
		case versionfile.IncludeCommitIDNonPublicReleaseOnly:
			includeCommit = !publicRelease
		}
	}

	if !includeCommit {
		return resolved.String()
	}

	where := versionfile.IncludeCommitIDBuildMetadata
	if bn.IncludeCommitID != nil && bn.IncludeCommitID.Where != "" {
		where = bn.IncludeCommitID.Where
	}
	if where == versionfile.IncludeCommitIDFourthVersionComponent {
		return fmt.Sprintf("%d.%d.%d.%d", resolved.Major(), resolved.Minor(), buildNumber, shortIDToRevision(shortID))
	}
	meta := resolved.BuildMetadata
	if meta == "" {
		meta = "g" + shortID
	} else {
		meta += ".g" + shortID
	}
	s := resolved.NumericString()
	if resolved.Prerelease != "" {
		s += "-" + resolved.Prerelease
	}
	return s + "+" + meta
}

func shortIDToRevision(shortID string) int {
	n, _ := strconv.ParseInt(shortID, 16, 64)
	return int(n & 0x7FFF)
}

func shortCommitID(store objectstore.Store, opts *versionfile.VersionOptions, commitID string) (string, error) {
	if opts.GitCommitIDShortFixedLength != nil {
		return store.ShortID(commitID, *opts.GitCommitIDShortFixedLength)
	}
	minLen := 4
	if opts.GitCommitIDShortAutoMinimum != nil {
		minLen = *opts.GitCommitIDShortAutoMinimum
	}
	return store.ShortID(commitID, minLen)
}

func isPublicRelease(cloudBuild *CloudBuildRef, headName, headCommitID, resolvedCommitID string, specs []string) bool {
	ref := headName
	if cloudBuild != nil && cloudBuild.Ref != "" {
		ref = cloudBuild.Ref
	}
	if ref == "" {
		return false
	}
	for _, pattern := range specs {
		if re, err := regexp.Compile(pattern); err == nil && re.MatchString(ref) {
			return true
		}
	}
	return false
}

// heightCacheAnchor locates the working tree's effective version file so
// version.cache.json can live beside it. Bare repositories
// and trees with no version file get no cache.
func heightCacheAnchor(store objectstore.Store, subdirectory string) string {
	workDir := store.WorkDir()
	if workDir == "" {
		return ""
	}
	dir := workDir
	if subdirectory != "" {
		dir = filepath.Join(workDir, filepath.FromSlash(subdirectory))
	}
	_, path, err := versionfile.Discover(dir)
	if err != nil || path == "" {
		return ""
	}
	return path
}

func isEmptyRepo(store objectstore.Store) (bool, error) {
	refs, err := store.ListRefs()
	if err != nil {
		return false, err
	}
	_, _, err = store.HeadRef()
	return len(refs) == 0 && err != nil, nil
}

// degenerateNoGit is the output when no repository is present at all.
func degenerateNoGit() VersionArtifacts {
	return VersionArtifacts{
		Version:      "0.0.1.0",
		SimpleVersion: "0.0.1",
		GitCommitID:  "",
		GitVersionHeight: 0,
		PublicRelease: false,
	}
}

// createFromWorkingTree produces a build/revision-zero artifact set from
// the working-copy configuration when the repository has no commits yet.
func createFromWorkingTree(p CreateParams, store objectstore.Store) (VersionArtifacts, error) {
	dir := p.RepoPath
	if p.Subdirectory != "" {
		dir = dir + "/" + p.Subdirectory
	}
	opts, _, err := versionfile.Discover(dir)
	if err != nil {
		return VersionArtifacts{}, err
	}
	if opts == nil {
		return degenerateNoGit(), nil
	}
	opts.ApplyDefaults()

	sv, err := opts.ParsedVersion()
	if err != nil {
		return VersionArtifacts{}, err
	}
	return VersionArtifacts{
		Version:           fmt.Sprintf("%d.%d.0.0", sv.Major(), sv.Minor()),
		SimpleVersion:     fmt.Sprintf("%d.%d.0", sv.Major(), sv.Minor()),
		MajorMinorVersion: fmt.Sprintf("%d.%d", sv.Major(), sv.Minor()),
		GitCommitID:       "",
		GitVersionHeight:  0,
		PublicRelease:     false,
	}, nil
}
