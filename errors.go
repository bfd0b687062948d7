package branchvers

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPatternMismatch is returned when a full-match pattern does not match its input
	ErrPatternMismatch = errors.New("pattern does not match")

	// ErrMissingCaptureGroup is returned when a pattern defines fewer groups than requested
	ErrMissingCaptureGroup = errors.New("missing capturing group in pattern")

	// ErrUnparsableBranch is returned when a branch name does not match the branch pattern
	ErrUnparsableBranch = errors.New("could not parse branch name")

	// ErrAmbiguousBranch is returned when a commit id maps to zero or several branches
	ErrAmbiguousBranch = errors.New("ambiguous branches detected")

	// ErrRepositoryUnavailable is returned when the repository cannot be opened or read
	ErrRepositoryUnavailable = errors.New("could not get git branch from repository")

	// ErrInvalidSemver is returned when a semantic version is required but not produced
	ErrInvalidSemver = errors.New("not a valid semantic version")
)

// AmbiguousBranchError lists the branches found for a detached commit.
type AmbiguousBranchError struct {
	Commit     string
	Candidates []string
}

func (e *AmbiguousBranchError) Error() string {
	return fmt.Sprintf("%s for commit %s: [%s]. Consider using the 'branchFromEnvironment' and 'branchEnvironmentVariable' options",
		ErrAmbiguousBranch, e.Commit, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousBranchError) Unwrap() error {
	return ErrAmbiguousBranch
}
