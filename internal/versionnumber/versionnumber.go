// Package versionnumber packs a version's identity into a four-component
// numeric Version carrying enough information to recover the commit that
// produced a build.
package versionnumber

import (
	"fmt"

	"github.com/go-gitversioning/gitversioning/internal/height"
	"github.com/go-gitversioning/gitversioning/internal/objectstore"
	"github.com/go-gitversioning/gitversioning/internal/pathscope"
)

// BuildCeiling is the hard ceiling imposed by downstream tooling on the
// build component.
const BuildCeiling = 0xFFFE

// Version is a four-component numeric version, each component a 16-bit
// unsigned integer.
type Version struct {
	Major, Minor, Build, Revision uint16
}

// Encode derives a Version from a configuration's major/minor, a computed
// height, the configured offset, and the first two bytes of a commit id.
// It reports whether the build component clamped at BuildCeiling, so a
// caller can warn that heights past the ceiling are no longer unique.
func Encode(major, minor int64, heightValue int, buildNumberOffset int64, commitID string) (Version, bool, error) {
	raw := int64(heightValue) + buildNumberOffset
	clamped := raw >= BuildCeiling
	build := raw
	if clamped {
		build = BuildCeiling
	}
	if build < 0 {
		build = 0
	}

	revision, err := revisionFromCommitID(commitID)
	if err != nil {
		return Version{}, false, err
	}

	return Version{
		Major:    uint16(major),
		Minor:    uint16(minor),
		Build:    uint16(build),
		Revision: revision,
	}, clamped, nil
}

// revisionFromCommitID takes the first two bytes of a hex commit id,
// interpreted big-endian, with the high bit masked off so the value never
// exceeds the signed 16-bit range some consuming tooling assumes.
func revisionFromCommitID(commitID string) (uint16, error) {
	if len(commitID) < 4 {
		return 0, fmt.Errorf("commit id %q too short to derive a revision", commitID)
	}
	var b [2]byte
	if _, err := fmt.Sscanf(commitID[:4], "%02x%02x", &b[0], &b[1]); err != nil {
		return 0, fmt.Errorf("parsing commit id prefix %q: %w", commitID[:4], err)
	}
	v := uint16(b[0])<<8 | uint16(b[1])
	return v &^ 0x8000, nil
}

// DecodeQuery identifies the repository and scope a Decode call searches.
type DecodeQuery struct {
	Store        objectstore.Store
	Subdirectory string
	Scope        pathscope.Scope
	ConfigAt     height.ConfigAt
}

// Decode enumerates every reachable commit from HEAD whose derived
// revision matches query.Revision, recomputes height for each, and
// returns the commit ids whose encoding would reproduce query exactly.
func Decode(q DecodeQuery, query Version) ([]string, error) {
	_, headID, err := q.Store.HeadRef()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	walker := pathscope.NewWalker(q.Store)
	commits, err := walker.Ancestors(headID)
	if err != nil {
		return nil, fmt.Errorf("walking ancestors: %w", err)
	}

	engine := height.NewEngine(q.Store, q.ConfigAt, q.Scope)

	var matches []string
	for _, c := range commits {
		rev, err := revisionFromCommitID(c.ID)
		if err != nil {
			continue
		}
		if rev != query.Revision {
			continue
		}

		opts, err := q.ConfigAt(c.ID)
		if err != nil || opts == nil {
			continue
		}
		sv, err := opts.ParsedVersion()
		if err != nil {
			continue
		}
		if uint16(sv.Major()) != query.Major || uint16(sv.Minor()) != query.Minor {
			continue
		}

		h, err := engine.Height(c.ID, sv.BaseSignature())
		if err != nil {
			continue
		}
		offset := int64(0)
		if opts.BuildNumberOffset != nil {
			offset = *opts.BuildNumberOffset
		}
		encoded, _, err := Encode(sv.Major(), sv.Minor(), h, offset, c.ID)
		if err != nil {
			continue
		}
		if encoded.Build == query.Build {
			matches = append(matches, c.ID)
		}
	}

	return matches, nil
}
