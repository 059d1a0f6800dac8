// Package oracle coordinates the object store, commit walker, version
// file, height engine, and encoder into the full set of version artifacts
// for a (repo, subdir, committish) triple.
package oracle

import "strconv"

// VersionArtifacts is the oracle's read-only output.
type VersionArtifacts struct {
	Version                                         string
	AssemblyVersion                                 string
	AssemblyFileVersion                             string
	AssemblyInformationalVersion                    string
	SimpleVersion                                   string
	MajorMinorVersion                               string
	PrereleaseVersion                                string
	BuildNumber                                     int
	BuildNumberFirstComponent                       int
	BuildNumberSecondComponent                      string
	BuildNumberFirstAndSecondComponentsIfApplicable string
	SemVer1                                          string
	SemVer2                                          string
	NuGetPackageVersion                              string
	NpmPackageVersion                                string
	ChocolateyPackageVersion                         string
	CloudBuildNumber                                 string
	GitCommitID                                      string
	GitCommitIDShort                                 string
	GitVersionHeight                                 int
	PublicRelease                                    bool
}

// Variables returns every artifact field as a name -> string map, for the
// CLI's "--variable" and "text" output modes and for cloud CI variable
// injection. Numeric and boolean artifacts are rendered in their canonical
// string form so the full set is queryable by name.
func (a VersionArtifacts) Variables() map[string]string {
	return map[string]string{
		"Version":                      a.Version,
		"AssemblyVersion":              a.AssemblyVersion,
		"AssemblyFileVersion":          a.AssemblyFileVersion,
		"AssemblyInformationalVersion": a.AssemblyInformationalVersion,
		"SimpleVersion":                a.SimpleVersion,
		"MajorMinorVersion":            a.MajorMinorVersion,
		"PrereleaseVersion":            a.PrereleaseVersion,
		"BuildNumber":                  strconv.Itoa(a.BuildNumber),
		"BuildNumberFirstComponent":    strconv.Itoa(a.BuildNumberFirstComponent),
		"BuildNumberSecondComponent":   a.BuildNumberSecondComponent,
		"BuildNumberFirstAndSecondComponentsIfApplicable": a.BuildNumberFirstAndSecondComponentsIfApplicable,
		"SemVer1":                  a.SemVer1,
		"SemVer2":                  a.SemVer2,
		"NuGetPackageVersion":      a.NuGetPackageVersion,
		"NpmPackageVersion":        a.NpmPackageVersion,
		"ChocolateyPackageVersion": a.ChocolateyPackageVersion,
		"CloudBuildNumber":         a.CloudBuildNumber,
		"GitCommitId":              a.GitCommitID,
		"GitCommitIdShort":         a.GitCommitIDShort,
		"GitVersionHeight":         strconv.Itoa(a.GitVersionHeight),
		"PublicRelease":            strconv.FormatBool(a.PublicRelease),
	}
}
