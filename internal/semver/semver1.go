package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonSemVer1Char = regexp.MustCompile(`[^0-9A-Za-z-]`)

// SemVer1 renders v in legacy SemVer 1.0 form: dots inside the prerelease
// are replaced with '-', numeric identifiers are zero-padded to
// padding digits, and any character outside [0-9A-Za-z-] is dropped.
// When publicRelease is false, "-g<shortCommitID>" is appended (with a
// leading '-' if there is no existing prerelease, otherwise appended
// directly after the converted prerelease).
func (v SemanticVersion) SemVer1(padding int, publicRelease bool, shortCommitID string) string {
	if padding < 1 {
		padding = 1
	}

	s := v.NumericString()
	pre := convertPrereleaseToSemVer1(v.Prerelease, padding)
	if pre != "" {
		s += "-" + pre
	}
	if !publicRelease && shortCommitID != "" {
		s += "-g" + shortCommitID
	}
	return s
}

func convertPrereleaseToSemVer1(prerelease string, padding int) string {
	if prerelease == "" {
		return ""
	}
	idents := strings.Split(prerelease, ".")
	for i, ident := range idents {
		if n, err := strconv.ParseInt(ident, 10, 64); err == nil {
			idents[i] = fmt.Sprintf("%0*d", padding, n)
		}
	}
	joined := strings.Join(idents, "-")
	return nonSemVer1Char.ReplaceAllString(joined, "")
}

// SemVer2 renders v in full SemVer 2.0 form. When publicRelease is false,
// ".g<shortCommitID>" is appended to the build-metadata segment (creating
// one if absent).
func (v SemanticVersion) SemVer2(publicRelease bool, shortCommitID string) string {
	s := v.NumericString()
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	meta := v.BuildMetadata
	if !publicRelease && shortCommitID != "" {
		if meta == "" {
			meta = "g" + shortCommitID
		} else {
			meta += ".g" + shortCommitID
		}
	}
	if meta != "" {
		s += "+" + meta
	}
	return s
}
