package branchvers

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ComposerOptions configures branch classification
type ComposerOptions struct {
	// BranchPattern must fully match a branch name; group 1 is the issue
	BranchPattern string

	// ReleasePattern, when set, replaces the "release" substring check
	ReleasePattern string

	// DevelopBranch is the branch that yields "-SNAPSHOT"
	DevelopBranch string

	// MainBranches yield the bare version
	MainBranches []string
}

// Composer applies the branch naming conventions to a version fragment.
// It is immutable once built.
type Composer struct {
	branch       *Pattern
	release      *regexp.Regexp
	develop      string
	mainBranches []string
}

// NewComposer compiles the configured patterns, applying defaults to empty fields.
func NewComposer(opts ComposerOptions) (*Composer, error) {
	if opts.BranchPattern == "" {
		opts.BranchPattern = DefaultBranchPattern
	}
	if opts.DevelopBranch == "" {
		opts.DevelopBranch = DefaultDevelopBranch
	}
	if len(opts.MainBranches) == 0 {
		opts.MainBranches = DefaultMainBranches()
	}

	branch, err := CompilePattern(opts.BranchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid branch pattern: %w", err)
	}
	if branch.NumGroups() < 1 {
		return nil, fmt.Errorf("invalid branch pattern: %w: %q", ErrMissingCaptureGroup, opts.BranchPattern)
	}

	c := &Composer{
		branch:       branch,
		develop:      opts.DevelopBranch,
		mainBranches: slices.Clone(opts.MainBranches),
	}

	if opts.ReleasePattern != "" {
		c.release, err = regexp.Compile(opts.ReleasePattern)
		if err != nil {
			return nil, fmt.Errorf("invalid release pattern %q: %w", opts.ReleasePattern, err)
		}
	}

	return c, nil
}

// Classify returns the kind of b and, for release and feature branches, its issue token.
func (c *Composer) Classify(b Branch) (Kind, string, error) {
	if b.Name == c.develop {
		return KindDevelop, "", nil
	}

	if slices.Contains(c.mainBranches, b.Name) {
		return KindMain, "", nil
	}

	match := c.branch.Match(b.Name)
	if !match.Matched() {
		return "", "", fmt.Errorf("%w: %s (pattern %q)", ErrUnparsableBranch, b.Ref, c.branch)
	}

	issue, err := match.Group(1)
	if err != nil {
		return "", "", fmt.Errorf("reading issue from branch %s: %w", b.Ref, err)
	}

	if c.isRelease(b) {
		return KindRelease, issue, nil
	}
	return KindFeature, issue, nil
}

// Compose builds the version for b from fragment.
func (c *Composer) Compose(fragment string, b Branch) (*Result, error) {
	kind, issue, err := c.Classify(b)
	if err != nil {
		return nil, err
	}

	var version string
	switch kind {
	case KindDevelop:
		version = fmt.Sprintf("%s-SNAPSHOT", fragment)
	case KindMain:
		version = fragment
	case KindRelease:
		version = fmt.Sprintf("%s-%s-RC-SNAPSHOT", fragment, issue)
	default:
		version = fmt.Sprintf("%s-%s-SNAPSHOT", fragment, issue)
	}

	return &Result{
		Version:    version,
		Fragment:   fragment,
		Branch:     b.Ref,
		BranchName: b.Name,
		Kind:       kind,
		Issue:      issue,
		IssueKey:   IssueKey(b.Ref),
	}, nil
}

// isRelease matches "release" anywhere in the ref, not only as a path segment.
func (c *Composer) isRelease(b Branch) bool {
	if c.release != nil {
		return c.release.MatchString(b.Ref)
	}
	return strings.Contains(b.Ref, "release")
}
