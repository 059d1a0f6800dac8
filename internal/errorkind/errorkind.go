// Package errorkind defines the stable taxonomy of error kinds produced by
// the version oracle and release planner, and the exit codes the CLI maps
// them to. Every library function returns an error value; no exceptions
// cross a package boundary.
package errorkind

import (
	"errors"
	"fmt"
)

// Kind is a stable, language-neutral error classification. Values are
// appended, never renumbered, so CLI exit codes stay stable across
// releases.
type Kind int

const (
	// Unknown is the zero value; never returned deliberately.
	Unknown Kind = iota
	// ConfigMissing means no version.json exists at or above the
	// directory/commit being queried.
	ConfigMissing
	// ConfigFormat means a version.json/version.txt failed to parse or
	// violated the schema.
	ConfigFormat
	// GitObjectNotFound means a referenced object is absent from the
	// object store.
	GitObjectNotFound
	// ShallowClone is GitObjectNotFound upgraded because the repository
	// has a shallow marker.
	ShallowClone
	// AmbiguousID means a short commit id matched more than one object.
	AmbiguousID
	// PathSpecFormat means a pathspec string was malformed.
	PathSpecFormat
	// ReleaseBranchExists means the planned release branch already exists.
	ReleaseBranchExists
	// ReleaseDetachedHead means HEAD is detached when a release requires a branch.
	ReleaseDetachedHead
	// ReleaseUncommittedChanges means the working tree has uncommitted changes.
	ReleaseUncommittedChanges
	// ReleaseInvalidBranchName means release.branchName lacks "{version}".
	ReleaseInvalidBranchName
	// ReleaseInvalidVersionIncrement means versionIncrement=Build on a
	// 2-component version, or another increment/version mismatch.
	ReleaseInvalidVersionIncrement
	// ReleaseVersionDecrement means the computed next version would be
	// lower than the current one.
	ReleaseVersionDecrement
	// ReleaseUserNotConfigured means the git user identity (name/email) is unset.
	ReleaseUserNotConfigured
	// UnknownVariable means --variable named a field VersionArtifacts
	// doesn't have.
	UnknownVariable
	// VersionSpecFormat means a command-line semantic version argument
	// (set-version, get-commits) failed to parse.
	VersionSpecFormat
	// TagConflict means the tag ref the tag command would create already
	// exists, whichever commit it points at.
	TagConflict
	// Internal marks an invariant violation; a debug-assert candidate.
	Internal
)

func (k Kind) String() string {
	switch k {
	case ConfigMissing:
		return "ConfigMissing"
	case ConfigFormat:
		return "ConfigFormat"
	case GitObjectNotFound:
		return "GitObjectNotFound"
	case ShallowClone:
		return "ShallowClone"
	case AmbiguousID:
		return "AmbiguousId"
	case PathSpecFormat:
		return "PathSpecFormat"
	case ReleaseBranchExists:
		return "ReleaseBranchExists"
	case ReleaseDetachedHead:
		return "ReleaseDetachedHead"
	case ReleaseUncommittedChanges:
		return "ReleaseUncommittedChanges"
	case ReleaseInvalidBranchName:
		return "ReleaseInvalidBranchName"
	case ReleaseInvalidVersionIncrement:
		return "ReleaseInvalidVersionIncrement"
	case ReleaseVersionDecrement:
		return "ReleaseVersionDecrement"
	case ReleaseUserNotConfigured:
		return "ReleaseUserNotConfigured"
	case UnknownVariable:
		return "UnknownVariable"
	case VersionSpecFormat:
		return "VersionSpecFormat"
	case TagConflict:
		return "TagConflict"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// ExitCode returns the CLI exit code associated with the kind, per the
// CLI surface table. Kinds with no fixed exit code (the release planner
// errors, returned programmatically rather than via the CLI table) map
// to a shared non-zero code.
func (k Kind) ExitCode() int {
	switch k {
	case ConfigMissing:
		return 9
	case ShallowClone:
		return 6
	case GitObjectNotFound, AmbiguousID:
		return 3
	case PathSpecFormat:
		return 3
	case UnknownVariable:
		return 11
	case VersionSpecFormat:
		return 2
	case TagConflict:
		return 10
	default:
		return 1
	}
}

// Error wraps an underlying error with a Kind and, optionally, the commit
// id that was being processed when the error occurred.
type Error struct {
	Kind     Kind
	CommitID string
	Err      error
}

func (e *Error) Error() string {
	if e.CommitID != "" {
		return fmt.Sprintf("%s (commit %s): %v", e.Kind, e.CommitID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// WithCommit attaches a commit id to the error, used by ConfigFormat
// errors encountered while reading a commit's tree.
func WithCommit(kind Kind, commitID string, err error) *Error {
	return &Error{Kind: kind, CommitID: commitID, Err: err}
}

// As extracts the Kind from err, if err (or something it wraps) is an
// *Error. Returns Unknown, false otherwise.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return Unknown, false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := As(err)
	return ok && k == kind
}
