// Package testutil provides helpers for creating temporary git
// repositories with controlled history for integration-style tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRepo is a builder for creating temporary git repositories with
// controlled commit history for testing the object store, path scope,
// and height engine.
type TestRepo struct {
	t    testing.TB
	path string
	repo *gogit.Repository
	time time.Time
}

// NewTestRepo creates and initializes a new git repository in a temporary directory.
func NewTestRepo(t testing.TB) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	return &TestRepo{
		t:    t,
		path: dir,
		repo: repo,
		time: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Path returns the repository root directory.
func (r *TestRepo) Path() string { return r.path }

// WriteFile writes content to relPath without committing it.
func (r *TestRepo) WriteFile(relPath, content string) {
	r.t.Helper()
	full := filepath.Join(r.path, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("creating parent dirs for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", relPath, err)
	}
}

// Commit stages every path in relPaths and commits.
func (r *TestRepo) Commit(message string, relPaths ...string) string {
	r.t.Helper()
	r.time = r.time.Add(time.Minute)

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	for _, p := range relPaths {
		if _, err := wt.Add(p); err != nil {
			r.t.Fatalf("staging %s: %v", p, err)
		}
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: r.time},
	})
	if err != nil {
		r.t.Fatalf("committing: %v", err)
	}
	return hash.String()
}

// AddCommit writes and commits a single uniquely-named file, for tests
// that just need "a commit happened" without caring about its content.
func (r *TestRepo) AddCommit(relPath, message string) string {
	r.t.Helper()
	if relPath == "" {
		relPath = fmt.Sprintf("file-%d.txt", r.time.UnixNano())
	}
	r.WriteFile(relPath, message)
	return r.Commit(message, relPath)
}

// MergeCommit creates a merge commit with two parents: HEAD and otherSha.
func (r *TestRepo) MergeCommit(message, otherSha string, relPaths ...string) string {
	r.t.Helper()
	r.time = r.time.Add(time.Minute)

	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	for _, p := range relPaths {
		if _, err := wt.Add(p); err != nil {
			r.t.Fatalf("staging %s: %v", p, err)
		}
	}
	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:            &object.Signature{Name: "Test", Email: "test@example.com", When: r.time},
		Parents:           []plumbing.Hash{head.Hash(), plumbing.NewHash(otherSha)},
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("merge commit: %v", err)
	}
	return hash.String()
}

// CreateBranch creates a branch ref pointing at sha without checking it out.
func (r *TestRepo) CreateBranch(name, sha string) {
	r.t.Helper()
	ref := plumbing.NewReferenceFromStrings("refs/heads/"+name, sha)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("creating branch %s: %v", name, err)
	}
}

// CreateAnnotatedTag creates an annotated tag object pointing at sha.
func (r *TestRepo) CreateAnnotatedTag(name, sha, message string) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(sha), &gogit.CreateTagOptions{
		Message: message,
		Tagger:  &object.Signature{Name: "Test", Email: "test@example.com", When: r.time},
	})
	if err != nil {
		r.t.Fatalf("creating annotated tag %s: %v", name, err)
	}
}

// Checkout switches HEAD to the given branch.
func (r *TestRepo) Checkout(branch string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)}); err != nil {
		r.t.Fatalf("checking out %s: %v", branch, err)
	}
}

// HeadSha returns the current HEAD commit SHA.
func (r *TestRepo) HeadSha() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	return head.Hash().String()
}

// MarkShallow writes a "shallow" marker file inside the git directory.
func (r *TestRepo) MarkShallow() {
	r.t.Helper()
	path := filepath.Join(r.path, ".git", "shallow")
	if err := os.WriteFile(path, []byte(r.HeadSha()+"\n"), 0o644); err != nil {
		r.t.Fatalf("writing shallow marker: %v", err)
	}
}
