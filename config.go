package branchvers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBranchPattern             = `(\w+\-\w+).*`
	DefaultVersionPattern            = `(\d+\.\d+\.\d+).*`
	DefaultBranchEnvironmentVariable = "GIT_BRANCH"
	DefaultDevelopBranch             = "develop"

	// DefaultConfigFile is looked up in the repository directory by the CLI
	DefaultConfigFile = ".branchvers.yaml"
)

// DefaultMainBranches returns the branch names that yield the bare version
func DefaultMainBranches() []string {
	return []string{"master", "main"}
}

// Config holds the user-facing settings
type Config struct {
	BranchPattern             string   `yaml:"branchPattern"`
	VersionPattern            string   `yaml:"versionPattern"`
	BranchFromEnvironment     *bool    `yaml:"branchFromEnvironment,omitempty"`
	BranchEnvironmentVariable string   `yaml:"branchEnvironmentVariable"`
	ReleasePattern            string   `yaml:"releasePattern,omitempty"`
	DevelopBranch             string   `yaml:"developBranch"`
	MainBranches              []string `yaml:"mainBranches"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	return Config{
		BranchPattern:             DefaultBranchPattern,
		VersionPattern:            DefaultVersionPattern,
		BranchFromEnvironment:     Bool(true),
		BranchEnvironmentVariable: DefaultBranchEnvironmentVariable,
		DevelopBranch:             DefaultDevelopBranch,
		MainBranches:              DefaultMainBranches(),
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Keys missing
// from the file keep their defaults. On error the defaults are returned along
// with the error, which wraps fs.ErrNotExist for a missing file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg.withDefaults(), nil
}

// Bool returns a pointer to v, for setting BranchFromEnvironment
func Bool(v bool) *bool {
	return &v
}

// UsesBranchEnvironment reports whether the branch override variable is
// consulted. An unset BranchFromEnvironment means true.
func (c Config) UsesBranchEnvironment() bool {
	return c.BranchFromEnvironment == nil || *c.BranchFromEnvironment
}

// withDefaults fills unset settings with their defaults
func (c Config) withDefaults() Config {
	if c.BranchFromEnvironment == nil {
		c.BranchFromEnvironment = Bool(true)
	}
	if c.BranchPattern == "" {
		c.BranchPattern = DefaultBranchPattern
	}
	if c.VersionPattern == "" {
		c.VersionPattern = DefaultVersionPattern
	}
	if c.BranchEnvironmentVariable == "" {
		c.BranchEnvironmentVariable = DefaultBranchEnvironmentVariable
	}
	if c.DevelopBranch == "" {
		c.DevelopBranch = DefaultDevelopBranch
	}
	if len(c.MainBranches) == 0 {
		c.MainBranches = DefaultMainBranches()
	}
	return c
}

func (c Config) composerOptions() ComposerOptions {
	return ComposerOptions{
		BranchPattern:  c.BranchPattern,
		ReleasePattern: c.ReleasePattern,
		DevelopBranch:  c.DevelopBranch,
		MainBranches:   c.MainBranches,
	}
}
