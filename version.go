// Package branchvers derives build version strings from Git branch names.
package branchvers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Calculate derives the version for the current branch and hands it to
// opts.Setter. Nothing is applied when any step fails.
func Calculate(opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Environment == nil {
		opts.Environment = OSEnvironment{}
	}
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = opts.Config.withDefaults()
	}

	composer, err := NewComposer(cfg.composerOptions())
	if err != nil {
		return nil, err
	}

	fragment, err := VersionFragment(opts.BaseVersion, cfg.VersionPattern)
	if err != nil {
		return nil, err
	}

	branch, err := currentBranch(opts, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("found branch", "branch", branch.Ref)

	result, err := composer.Compose(fragment, branch)
	if err != nil {
		return nil, err
	}

	version, err := result.Semver()
	switch {
	case err == nil:
		result.Parts = newVersionParts(version)
	case opts.RequireSemver:
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSemver, result.Version, err)
	default:
		logger.Debug("version is not a semantic version", "version", result.Version)
	}

	if opts.Setter != nil {
		logger.Info("setting version", "version", result.Version)
		if err := Apply(opts.Setter, result, false); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Apply hands result to setter
func Apply(setter VersionSetter, result *Result, backup bool) error {
	if err := setter.SetVersion(result.Version, backup); err != nil {
		return fmt.Errorf("setting version %s: %w", result.Version, err)
	}
	return nil
}

// VersionFragment returns the first capturing group of versionPattern
// matched against the whole of version.
func VersionFragment(version, versionPattern string) (string, error) {
	pattern, err := CompilePattern(versionPattern)
	if err != nil {
		return "", fmt.Errorf("invalid version pattern: %w", err)
	}

	fragment, err := pattern.Match(version).Group(1)
	switch {
	case errors.Is(err, ErrPatternMismatch):
		return "", fmt.Errorf("could not parse version %q: %w", version, err)
	case errors.Is(err, ErrMissingCaptureGroup):
		return "", fmt.Errorf("could not parse version %q due to missing capturing group: %w", version, err)
	case err != nil:
		return "", err
	}

	return fragment, nil
}

func currentBranch(opts Options, cfg Config, logger *slog.Logger) (Branch, error) {
	if cfg.UsesBranchEnvironment() {
		name := cfg.BranchEnvironmentVariable
		logger.Info("taking branch name from environment variable", "variable", name)

		value, ok := opts.Environment.Lookup(name)
		switch {
		case ok && value != "":
			return NewBranch(value), nil
		case ok:
			logger.Warn("environment variable is empty", "variable", name)
		default:
			logger.Warn("environment variable not defined", "variable", name)
			if suggestions := SuggestVariables(name, opts.Environment.Names()); len(suggestions) > 0 {
				logger.Warn("did you mean one of: " + strings.Join(suggestions, ", "))
			}
		}
	}

	if opts.Refs == nil {
		return Branch{}, fmt.Errorf("%w: no repository configured", ErrRepositoryUnavailable)
	}

	raw, err := opts.Refs.CurrentBranchOrCommit()
	if err != nil {
		return Branch{}, err
	}

	return ResolveBranch(raw, opts.Refs)
}
