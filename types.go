// Package branchvers derives build version strings from Git branch names.
package branchvers

import (
	"log/slog"
	"strings"

	"github.com/blang/semver"
)

// Kind classifies a branch for version composition
type Kind string

const (
	KindDevelop Kind = "develop"
	KindMain    Kind = "main"
	KindRelease Kind = "release"
	KindFeature Kind = "feature"
)

// RefKind tells a branch name apart from a raw commit id
type RefKind int

const (
	BranchRef RefKind = iota
	CommitRef
)

func (k RefKind) String() string {
	if k == CommitRef {
		return "commit"
	}
	return "branch"
}

// Branch is a branch as obtained from the environment or the repository.
type Branch struct {
	// Ref is the branch in short ref form, e.g. "release/ABC-42-hotfix"
	Ref string

	// Name is the last path segment of Ref, e.g. "ABC-42-hotfix"
	Name string
}

// NewBranch builds a Branch from a ref, deriving its name.
func NewBranch(ref string) Branch {
	return Branch{Ref: ref, Name: LastPathSegment(ref)}
}

// Options configures a single version calculation
type Options struct {
	// BaseVersion is the project's configured version, e.g. "1.2.3-dev"
	BaseVersion string

	// Config holds the patterns and branch settings (default: DefaultConfig()).
	// Unset fields within it fall back to their defaults.
	Config *Config

	// Environment is used to look up the branch override variable (default: process environment)
	Environment Environment

	// Refs reads the repository when no override is available
	Refs RefSource

	// Setter receives the computed version. Nil skips the hand-off.
	Setter VersionSetter

	// RequireSemver rejects composed versions that are not valid semantic versions
	RequireSemver bool

	// Logger receives progress and warnings (default: discarded)
	Logger *slog.Logger
}

// Result is the outcome of a version calculation
type Result struct {
	Version    string `json:"version"`
	Fragment   string `json:"fragment"`
	Branch     string `json:"branch"`
	BranchName string `json:"branchName"`
	Kind       Kind   `json:"kind"`
	Issue      string `json:"issue,omitempty"`
	IssueKey   string `json:"issueKey,omitempty"`

	// Parts is set when Version is a valid semantic version
	Parts *VersionParts `json:"semver,omitempty"`
}

// VersionParts are the semantic version components of a composed version
type VersionParts struct {
	Major      uint64 `json:"major"`
	Minor      uint64 `json:"minor"`
	Patch      uint64 `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
}

func newVersionParts(v semver.Version) *VersionParts {
	pre := make([]string, 0, len(v.Pre))
	for _, p := range v.Pre {
		pre = append(pre, p.String())
	}
	return &VersionParts{
		Major:      v.Major,
		Minor:      v.Minor,
		Patch:      v.Patch,
		Prerelease: strings.Join(pre, "."),
	}
}

// Semver parses the composed version as a semantic version
func (r *Result) Semver() (semver.Version, error) {
	return semver.Parse(r.Version)
}
