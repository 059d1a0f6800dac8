// Package pathscope implements the commit walker: lazy ancestor
// iteration and path-scope-aware change detection.
package pathscope

import (
	"fmt"
	"path"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/go-gitversioning/gitversioning/internal/errorkind"
)

// Filter is one normalized pathspec entry.
type Filter struct {
	Include bool
	// Pattern is repo-relative, using "/" separators, with no leading or
	// trailing slash, clamped so it can never point outside the repo.
	Pattern string
}

// ParseFilters normalizes the raw pathspec strings configured in
// version.json's pathFilters field, anchoring scope-relative entries at
// subdirectory.
func ParseFilters(raw []string, subdirectory string) ([]Filter, error) {
	filters := make([]Filter, 0, len(raw))
	for _, entry := range raw {
		f, err := parseFilter(entry, subdirectory)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func parseFilter(raw, subdirectory string) (Filter, error) {
	if raw == "" {
		return Filter{}, errorkind.New(errorkind.PathSpecFormat, fmt.Errorf("empty pathspec"))
	}

	s := raw
	include := true
	switch {
	case strings.HasPrefix(s, ":^"):
		include = false
		s = s[2:]
	case strings.HasPrefix(s, ":!"):
		include = false
		s = s[2:]
	}

	absolute := false
	switch {
	case strings.HasPrefix(s, ":/"):
		absolute = true
		s = s[2:]
	case strings.HasPrefix(s, "/"):
		absolute = true
		s = s[1:]
	}

	s = strings.ReplaceAll(s, "\\", "/")
	if s == "" {
		return Filter{}, errorkind.New(errorkind.PathSpecFormat, fmt.Errorf("pathspec %q has no path component", raw))
	}

	joined := s
	if !absolute {
		joined = path.Join(subdirectory, s)
	}

	clamped, err := securejoin.SecureJoin("/", joined)
	if err != nil {
		return Filter{}, errorkind.New(errorkind.PathSpecFormat, fmt.Errorf("pathspec %q: %w", raw, err))
	}
	normalized := strings.TrimPrefix(clamped, "/")

	return Filter{Include: include, Pattern: normalized}, nil
}

// matches reports whether pattern matches candidate, either as an exact
// path, a directory prefix, or a single-segment glob (path.Match).
// Falls back to a case-insensitive comparison for platform compatibility.
func matches(pattern, candidate string) bool {
	if pattern == "" {
		return true
	}
	if pattern == candidate || strings.HasPrefix(candidate, pattern+"/") {
		return true
	}
	if ok, _ := path.Match(pattern, candidate); ok {
		return true
	}
	if strings.EqualFold(pattern, candidate) || strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(pattern)+"/") {
		return true
	}
	return false
}
