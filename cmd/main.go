package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jaxxstorm/branchvers"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	BaseVersion string `arg:"" optional:"" help:"Project version to derive from (e.g., '1.2.3-dev')"`
	Repo        string `short:"r" help:"Repository path (default: current directory)"`
	Config      string `short:"c" help:"Config file (default: .branchvers.yaml in the repository)"`

	BranchPattern  string   `env:"BRANCHVERS_BRANCH_PATTERN" help:"Pattern extracting the issue from a branch name"`
	VersionPattern string   `env:"BRANCHVERS_VERSION_PATTERN" help:"Pattern extracting the version fragment from the base version"`
	ReleasePattern string   `env:"BRANCHVERS_RELEASE_PATTERN" help:"Pattern identifying release branches (default: any branch containing 'release')"`
	BranchEnv      string   `env:"BRANCHVERS_BRANCH_ENV" help:"Environment variable holding the branch name (default: GIT_BRANCH)"`
	NoBranchEnv    bool     `env:"BRANCHVERS_NO_BRANCH_ENV" help:"Always take the branch from the repository"`
	DevelopBranch  string   `env:"BRANCHVERS_DEVELOP_BRANCH" help:"Branch producing SNAPSHOT versions (default: develop)"`
	MainBranches   []string `env:"BRANCHVERS_MAIN_BRANCHES" help:"Branches producing the plain version (default: master,main)"`

	Setter        string `default:"print" enum:"print,maven,none" help:"Where to apply the version (print, maven, none)"`
	RequireSemver bool   `help:"Fail unless the result is a valid semantic version"`
	JSON          bool   `short:"j" help:"Output as JSON"`
	LogLevel      string `default:"info" enum:"debug,info,warn,error" help:"Log level"`
	ShowVersion   bool   `help:"Show version information" name:"version"`

	stdout io.Writer              `kong:"-"`
	stderr io.Writer              `kong:"-"`
	env    branchvers.Environment `kong:"-"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("branchvers"),
		kong.Description("Derive a build version from the current Git branch"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	if c.env == nil {
		c.env = branchvers.OSEnvironment{}
	}

	if c.ShowVersion {
		return c.showVersion()
	}

	return c.calculateVersion()
}

func (c *CLI) showVersion() error {
	versionInfo := map[string]string{
		"version": Version,
		"name":    "branchvers",
	}

	if c.JSON {
		return json.NewEncoder(c.stdout).Encode(versionInfo)
	}

	fmt.Fprintf(c.stdout, "branchvers version %s\n", Version)
	return nil
}

func (c *CLI) calculateVersion() error {
	if c.BaseVersion == "" {
		return fmt.Errorf("base version is required")
	}

	repoPath := c.Repo
	if repoPath == "" {
		var err error
		repoPath, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
	}

	logger := newLogger(c.stderr, c.LogLevel)

	cfg, err := c.loadConfig(repoPath, logger)
	if err != nil {
		return err
	}

	opts := branchvers.Options{
		BaseVersion:   c.BaseVersion,
		Config:        &cfg,
		Environment:   c.env,
		Refs:          branchvers.OpenRefSource(repoPath),
		Setter:        c.setter(repoPath),
		RequireSemver: c.RequireSemver,
		Logger:        logger,
	}

	result, err := branchvers.Calculate(opts)
	if err != nil {
		return fmt.Errorf("calculating version: %w", err)
	}

	if c.JSON {
		return json.NewEncoder(c.stdout).Encode(result)
	}
	return nil
}

// loadConfig layers the config file and flags over the defaults
func (c *CLI) loadConfig(repoPath string, logger *slog.Logger) (branchvers.Config, error) {
	path := c.Config
	if path == "" {
		path = filepath.Join(repoPath, branchvers.DefaultConfigFile)
	}

	cfg, err := branchvers.LoadConfig(path)
	switch {
	case err == nil:
		logger.Debug("loaded config", "path", path)
	case c.Config == "" && errors.Is(err, fs.ErrNotExist):
		logger.Debug("no config file, using defaults", "path", path)
	default:
		return cfg, err
	}

	if c.BranchPattern != "" {
		cfg.BranchPattern = c.BranchPattern
	}
	if c.VersionPattern != "" {
		cfg.VersionPattern = c.VersionPattern
	}
	if c.ReleasePattern != "" {
		cfg.ReleasePattern = c.ReleasePattern
	}
	if c.BranchEnv != "" {
		cfg.BranchEnvironmentVariable = c.BranchEnv
	}
	if c.NoBranchEnv {
		cfg.BranchFromEnvironment = branchvers.Bool(false)
	}
	if c.DevelopBranch != "" {
		cfg.DevelopBranch = c.DevelopBranch
	}
	if len(c.MainBranches) > 0 {
		cfg.MainBranches = c.MainBranches
	}

	return cfg, nil
}

func (c *CLI) setter(repoPath string) branchvers.VersionSetter {
	switch strings.ToLower(c.Setter) {
	case "maven":
		return branchvers.MavenSetter{Dir: repoPath}
	case "none":
		return nil
	default:
		// JSON output carries the version already
		if c.JSON {
			return nil
		}
		return branchvers.WriterSetter{W: c.stdout}
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:   lvl,
		NoColor: noColor,
	}))
}
