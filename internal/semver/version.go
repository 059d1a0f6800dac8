// Package semver provides the semantic-version value type used throughout
// the version oracle: a 2-4 component numeric version plus a prerelease and
// build-metadata string that may each carry a "{height}" macro. This type
// is immutable — every method returns a new value.
package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HeightMacro is the placeholder substituted with the computed version
// height at render time. It must appear, if at all, as a whole
// dot-separated identifier inside Prerelease or BuildMetadata — never
// embedded inside another identifier and never in the numeric components.
const HeightMacro = "{height}"

var versionLineRegex = regexp.MustCompile(
	`^(\d+)(?:\.(\d+)){1,3}(?:-([0-9A-Za-z\-\.{}]+))?(?:\+([0-9A-Za-z\-\.{}]+))?$`,
)

var numericComponentRegex = regexp.MustCompile(`^\d+(\.\d+){1,3}$`)

// SemanticVersion is a 2-4 component numeric version with an optional
// prerelease and build-metadata string.
type SemanticVersion struct {
	// Components holds 2 to 4 non-negative integers: major, minor, and
	// optionally build and revision.
	Components []int64
	// Prerelease is the dash-prefixed segment without its leading '-'.
	// May contain HeightMacro as one of its dot-separated identifiers.
	Prerelease string
	// BuildMetadata is the plus-prefixed segment without its leading '+'.
	// May contain HeightMacro as one of its dot-separated identifiers.
	BuildMetadata string
}

// Parse parses a version string of the form
// "MAJOR.MINOR[.BUILD][.REVISION][-PRE][+META]", rejecting HeightMacro
// anywhere in the numeric components.
func Parse(s string) (SemanticVersion, error) {
	m := versionLineRegex.FindStringSubmatch(s)
	if m == nil {
		return SemanticVersion{}, fmt.Errorf("invalid version format: %q", s)
	}

	numeric := s
	if idx := strings.IndexAny(s, "-+"); idx >= 0 {
		// Only treat '-'/'+' before any macro brace as a split point;
		// versionLineRegex already anchored the groups, so recompute the
		// numeric prefix from the matched groups instead of string search.
		numeric = numericPrefix(s)
	}
	if strings.Contains(numeric, "{") || strings.Contains(numeric, "}") {
		return SemanticVersion{}, fmt.Errorf("version %q: %s macro not permitted in numeric components", s, HeightMacro)
	}

	parts := strings.Split(numeric, ".")
	components := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return SemanticVersion{}, fmt.Errorf("invalid numeric component %q: %w", p, err)
		}
		if n < 0 {
			return SemanticVersion{}, fmt.Errorf("numeric component %q must be >= 0", p)
		}
		components = append(components, n)
	}

	v := SemanticVersion{Components: components, Prerelease: m[3], BuildMetadata: m[4]}
	if err := validateMacroPlacement(v.Prerelease); err != nil {
		return SemanticVersion{}, fmt.Errorf("version %q: prerelease: %w", s, err)
	}
	if err := validateMacroPlacement(v.BuildMetadata); err != nil {
		return SemanticVersion{}, fmt.Errorf("version %q: build metadata: %w", s, err)
	}
	return v, nil
}

// numericPrefix returns the leading MAJOR.MINOR[.BUILD][.REVISION]
// substring of s, stopping at the first '-' or '+' that is not inside the
// numeric run itself.
func numericPrefix(s string) string {
	for i, r := range s {
		if r == '-' || r == '+' {
			return s[:i]
		}
	}
	return s
}

// validateMacroPlacement checks that every occurrence of HeightMacro in a
// dot-separated identifier list appears as a whole identifier.
func validateMacroPlacement(segment string) error {
	if segment == "" {
		return nil
	}
	for _, ident := range strings.Split(segment, ".") {
		if strings.Contains(ident, "{") || strings.Contains(ident, "}") {
			if ident != HeightMacro {
				return fmt.Errorf("macro must appear as a standalone identifier, found %q", ident)
			}
		}
	}
	return nil
}

// HasHeightMacro reports whether the prerelease or build metadata
// contains the height macro.
func (v SemanticVersion) HasHeightMacro() bool {
	return containsMacroIdentifier(v.Prerelease) || containsMacroIdentifier(v.BuildMetadata)
}

func containsMacroIdentifier(segment string) bool {
	for _, ident := range strings.Split(segment, ".") {
		if ident == HeightMacro {
			return true
		}
	}
	return false
}

// ResolveHeight returns a copy of v with every occurrence of HeightMacro
// in Prerelease and BuildMetadata replaced by height.
func (v SemanticVersion) ResolveHeight(height int) SemanticVersion {
	out := v
	out.Prerelease = resolveHeightIn(v.Prerelease, height)
	out.BuildMetadata = resolveHeightIn(v.BuildMetadata, height)
	return out
}

func resolveHeightIn(segment string, height int) string {
	if segment == "" {
		return ""
	}
	idents := strings.Split(segment, ".")
	for i, ident := range idents {
		if ident == HeightMacro {
			idents[i] = strconv.Itoa(height)
		}
	}
	return strings.Join(idents, ".")
}

// WithoutHeightMacro returns the prerelease/build-metadata strings with
// the bare macro identifier removed entirely (used when comparing base
// version signatures, which must be independent of height).
func (v SemanticVersion) WithoutHeightMacro() (prerelease, build string) {
	return stripMacroIdentifier(v.Prerelease), stripMacroIdentifier(v.BuildMetadata)
}

func stripMacroIdentifier(segment string) string {
	if segment == "" {
		return ""
	}
	idents := strings.Split(segment, ".")
	kept := idents[:0]
	for _, ident := range idents {
		if ident != HeightMacro {
			kept = append(kept, ident)
		}
	}
	return strings.Join(kept, ".")
}

// Major returns the first numeric component, or 0 if absent.
func (v SemanticVersion) Major() int64 { return v.component(0) }

// Minor returns the second numeric component, or 0 if absent.
func (v SemanticVersion) Minor() int64 { return v.component(1) }

// Build returns the third numeric component, or -1 if not explicitly set.
func (v SemanticVersion) Build() int64 {
	if len(v.Components) < 3 {
		return -1
	}
	return v.Components[2]
}

// Revision returns the fourth numeric component, or -1 if not explicitly set.
func (v SemanticVersion) Revision() int64 {
	if len(v.Components) < 4 {
		return -1
	}
	return v.Components[3]
}

func (v SemanticVersion) component(i int) int64 {
	if i >= len(v.Components) {
		return 0
	}
	return v.Components[i]
}

// String renders the SemVer 2.0 form: "major.minor[.build[.revision]]"
// plus "-prerelease" and "+buildmetadata" when present. The macro, if
// unresolved, is rendered literally.
func (v SemanticVersion) String() string {
	strs := make([]string, len(v.Components))
	for i, c := range v.Components {
		strs[i] = strconv.FormatInt(c, 10)
	}
	s := strings.Join(strs, ".")
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.BuildMetadata != "" {
		s += "+" + v.BuildMetadata
	}
	return s
}

// NumericString renders only the numeric components, dot-separated.
func (v SemanticVersion) NumericString() string {
	strs := make([]string, len(v.Components))
	for i, c := range v.Components {
		strs[i] = strconv.FormatInt(c, 10)
	}
	return strings.Join(strs, ".")
}

// Signature is the identity-bearing portion of a version used to detect
// lineage boundaries while walking the commit DAG: major, minor, the
// explicit build component (or -1), and the prerelease with the height
// macro stripped out.
type Signature struct {
	Major, Minor, Build int64
	Prerelease          string
}

// BaseSignature computes the Signature for v.
func (v SemanticVersion) BaseSignature() Signature {
	pre, _ := v.WithoutHeightMacro()
	return Signature{Major: v.Major(), Minor: v.Minor(), Build: v.Build(), Prerelease: pre}
}

// ErrNumericOnly reports that a version string expected to be purely
// numeric contains a prerelease or build metadata segment.
var ErrNumericOnly = errors.New("expected a purely numeric version")
