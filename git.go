// Package branchvers derives build version strings from Git branch names.
//
// This file contains code adapted from pulumictl (https://github.com/pulumi/pulumictl)
// which is licensed under the Apache License 2.0. See NOTICE file for full attribution.
package branchvers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// RefEntry is a reference and the commit it points at
type RefEntry struct {
	// Name is the full reference name, e.g. "refs/heads/develop"
	Name string

	// Commit is the hex commit id
	Commit string
}

// RefSource is read-only access to repository references
type RefSource interface {
	// ListRefs returns every reference in the repository
	ListRefs() ([]RefEntry, error)

	// CurrentBranchOrCommit returns the checked out branch, or the commit id
	// when HEAD is detached
	CurrentBranchOrCommit() (string, error)
}

// OpenRepository opens a Git repository at the specified path
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// GitRefSource reads references from a go-git repository
type GitRefSource struct {
	Repository *git.Repository
}

// OpenRefSource opens the repository at path. When that fails the returned
// source reports ErrRepositoryUnavailable on every call, so callers that never
// need the repository are not affected.
func OpenRefSource(path string) RefSource {
	repo, err := OpenRepository(path)
	if err != nil {
		return unavailableRefSource{err: fmt.Errorf("%w: opening %s: %w", ErrRepositoryUnavailable, path, err)}
	}
	return &GitRefSource{Repository: repo}
}

func (s *GitRefSource) CurrentBranchOrCommit() (string, error) {
	head, err := s.Repository.Head()
	if err != nil {
		return "", fmt.Errorf("%w: reading HEAD: %w", ErrRepositoryUnavailable, err)
	}

	if head.Name() == plumbing.HEAD {
		return head.Hash().String(), nil
	}
	return head.Name().Short(), nil
}

func (s *GitRefSource) ListRefs() ([]RefEntry, error) {
	refs, err := s.Repository.References()
	if err != nil {
		return nil, fmt.Errorf("%w: listing references: %w", ErrRepositoryUnavailable, err)
	}

	var entries []RefEntry
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.SymbolicReference {
			resolved, err := storer.ResolveReference(s.Repository.Storer, ref.Name())
			if err != nil {
				// Dangling symbolic refs (e.g. HEAD of an unborn branch) point nowhere
				return nil
			}
			ref = plumbing.NewHashReference(ref.Name(), resolved.Hash())
		}

		entries = append(entries, RefEntry{
			Name:   ref.Name().String(),
			Commit: s.peel(ref.Hash()).String(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: reading references: %w", ErrRepositoryUnavailable, err)
	}

	return entries, nil
}

// peel returns the commit an annotated tag points at, or hash unchanged
func (s *GitRefSource) peel(hash plumbing.Hash) plumbing.Hash {
	tag, err := s.Repository.TagObject(hash)
	if err != nil {
		return hash
	}
	return tag.Target
}

type unavailableRefSource struct {
	err error
}

func (s unavailableRefSource) ListRefs() ([]RefEntry, error) {
	return nil, s.err
}

func (s unavailableRefSource) CurrentBranchOrCommit() (string, error) {
	return "", s.err
}

// IsCommitID reports whether s consists only of hex digits, in any case
func IsCommitID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// ClassifyRef tells a raw commit id apart from a branch name
func ClassifyRef(s string) RefKind {
	if IsCommitID(s) {
		return CommitRef
	}
	return BranchRef
}

// LastPathSegment returns the part of s after its final "/"
func LastPathSegment(s string) string {
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// MinAbbreviatedCommitLength is the shortest commit id matched as a prefix.
// Shorter ids must equal a ref's commit exactly.
const MinAbbreviatedCommitLength = 7

// ResolveBranch turns raw into a Branch. A branch name is returned as is; a
// commit id is resolved to the single branch pointing at it.
func ResolveBranch(raw string, refs RefSource) (Branch, error) {
	if ClassifyRef(raw) == BranchRef {
		return NewBranch(raw), nil
	}

	entries, err := refs.ListRefs()
	if err != nil {
		return Branch{}, fmt.Errorf("listing refs for commit %s: %w", raw, err)
	}

	candidates := branchesForCommit(entries, raw)
	if len(candidates) != 1 {
		names := make([]string, 0, len(candidates))
		for _, b := range candidates {
			names = append(names, b.Ref)
		}
		return Branch{}, &AmbiguousBranchError{Commit: raw, Candidates: names}
	}

	return candidates[0], nil
}

// branchesForCommit returns the branches at commit sorted by ref. A
// remote-tracking ref is folded into the local branch of the same path, so
// refs/heads/x and refs/remotes/origin/x count once with the local one kept.
func branchesForCommit(entries []RefEntry, commit string) []Branch {
	byPath := make(map[string]Branch)
	local := make(map[string]bool)
	for _, entry := range entries {
		if !commitMatches(entry.Commit, commit) {
			continue
		}

		refName := plumbing.ReferenceName(entry.Name)
		branch := NewBranch(refName.Short())
		if branch.Name == "HEAD" {
			continue
		}

		path := branchPath(refName)
		if existing, ok := byPath[path]; ok {
			if local[path] || (!refName.IsBranch() && existing.Ref < branch.Ref) {
				continue
			}
		}
		byPath[path] = branch
		local[path] = refName.IsBranch()
	}

	branches := make([]Branch, 0, len(byPath))
	for _, b := range byPath {
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Ref < branches[j].Ref
	})
	return branches
}

// branchPath returns the branch path shared by a local branch and its
// remote-tracking refs. Other refs keep their full name.
func branchPath(name plumbing.ReferenceName) string {
	switch {
	case name.IsBranch():
		return strings.TrimPrefix(name.String(), "refs/heads/")
	case name.IsRemote():
		_, path, ok := strings.Cut(strings.TrimPrefix(name.String(), "refs/remotes/"), "/")
		if ok {
			return path
		}
	}
	return name.String()
}

func commitMatches(id, raw string) bool {
	if strings.EqualFold(id, raw) {
		return true
	}
	if len(raw) < MinAbbreviatedCommitLength {
		return false
	}
	return strings.HasPrefix(strings.ToLower(id), strings.ToLower(raw))
}
