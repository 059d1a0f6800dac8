package pathscope

import "strings"

// Scope is the (subdirectory, pathFilters) pair used when comparing tree
// changes between a commit and its parents.
type Scope struct {
	Subdirectory string
	Filters      []Filter
}

// InScope reports whether repoRelativePath falls within the scope.
func (s Scope) InScope(repoRelativePath string) bool {
	p := normalize(repoRelativePath)

	if len(s.Filters) == 0 {
		if s.Subdirectory == "" {
			return true
		}
		return p == s.Subdirectory || strings.HasPrefix(p, s.Subdirectory+"/")
	}

	for _, f := range s.Filters {
		if !f.Include && matches(f.Pattern, p) {
			return false
		}
	}

	hasIncludes := false
	for _, f := range s.Filters {
		if f.Include {
			hasIncludes = true
			break
		}
	}
	if !hasIncludes {
		return true
	}
	for _, f := range s.Filters {
		if f.Include && matches(f.Pattern, p) {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(p, "/")
	return p
}

// IsWholeRepo reports whether the scope has no filters and no
// subdirectory, in which case change detection degenerates to a root
// tree-id comparison.
func (s Scope) IsWholeRepo() bool {
	return s.Subdirectory == "" && len(s.Filters) == 0
}
