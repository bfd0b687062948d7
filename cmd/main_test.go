package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/jaxxstorm/branchvers"
	"github.com/stretchr/testify/require"
)

func newTestCLI(env branchvers.MapEnvironment) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cli := &CLI{
		Setter:   "print",
		LogLevel: "info",
		stdout:   &stdout,
		stderr:   &stderr,
		env:      env,
	}
	return cli, &stdout, &stderr
}

// initRepo creates a repository with one commit checked out on branch
func initRepo(t *testing.T, branch string) string {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte("<project/>"), 0o644))

	workTree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = workTree.Add("pom.xml")
	require.NoError(t, err)
	_, err = workTree.Commit("Initial commit", &git.CommitOptions{Author: &object.Signature{
		Name:  "test",
		Email: "test@example.com",
		When:  time.Now(),
	}})
	require.NoError(t, err)

	if branch != "master" {
		require.NoError(t, workTree.Checkout(&git.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(branch),
			Create: true,
		}))
	}
	return dir
}

func TestCLIShowVersion(t *testing.T) {
	cli, stdout, _ := newTestCLI(nil)
	cli.ShowVersion = true

	require.NoError(t, cli.Run())
	require.Contains(t, stdout.String(), "branchvers version")
	require.Contains(t, stdout.String(), "dev")
}

func TestCLIShowVersionJSON(t *testing.T) {
	cli, stdout, _ := newTestCLI(nil)
	cli.ShowVersion = true
	cli.JSON = true

	require.NoError(t, cli.Run())

	var versionInfo map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &versionInfo))
	require.Equal(t, "dev", versionInfo["version"])
	require.Equal(t, "branchvers", versionInfo["name"])
}

func TestCLIBranchFromEnvironment(t *testing.T) {
	tests := []struct {
		branch   string
		expected string
	}{
		{"develop", "1.2.3-SNAPSHOT"},
		{"master", "1.2.3"},
		{"feature/ABC-123", "1.2.3-ABC-123-SNAPSHOT"},
		{"release/ABC-42-hotfix", "1.2.3-ABC-42-RC-SNAPSHOT"},
	}

	for _, test := range tests {
		t.Run(test.branch, func(t *testing.T) {
			cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": test.branch})
			cli.BaseVersion = "1.2.3-dev"
			cli.Repo = t.TempDir()

			require.NoError(t, cli.Run())
			require.Equal(t, test.expected+"\n", stdout.String())
		})
	}
}

func TestCLIJSON(t *testing.T) {
	cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": "feature/ABC-7-login"})
	cli.BaseVersion = "2.0.0"
	cli.Repo = t.TempDir()
	cli.JSON = true

	require.NoError(t, cli.Run())

	var result branchvers.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.Equal(t, "2.0.0-ABC-7-SNAPSHOT", result.Version)
	require.Equal(t, branchvers.KindFeature, result.Kind)
	require.Equal(t, "ABC-7", result.Issue)
	require.Equal(t, &branchvers.VersionParts{Major: 2, Prerelease: "ABC-7-SNAPSHOT"}, result.Parts)
}

func TestCLIBranchFromRepository(t *testing.T) {
	dir := initRepo(t, "develop")

	cli, stdout, stderr := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCHH": "master"})
	cli.BaseVersion = "1.2.3-dev"
	cli.Repo = dir

	require.NoError(t, cli.Run())
	require.Equal(t, "1.2.3-SNAPSHOT\n", stdout.String())
	require.Contains(t, stderr.String(), "environment variable not defined")
	require.Contains(t, stderr.String(), "GIT_BRANCHH")
}

func TestCLINoBranchEnv(t *testing.T) {
	dir := initRepo(t, "master")

	cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": "develop"})
	cli.BaseVersion = "1.2.3"
	cli.Repo = dir
	cli.NoBranchEnv = true

	require.NoError(t, cli.Run())
	require.Equal(t, "1.2.3\n", stdout.String())
}

func TestCLIConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := "branchEnvironmentVariable: CI_COMMIT_REF_NAME\nmainBranches: [trunk]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".branchvers.yaml"), []byte(config), 0o644))

	t.Run("Config file in repository", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{"CI_COMMIT_REF_NAME": "trunk"})
		cli.BaseVersion = "5.0.0"
		cli.Repo = dir

		require.NoError(t, cli.Run())
		require.Equal(t, "5.0.0\n", stdout.String())
	})

	t.Run("Flags override the config file", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{
			"CI_COMMIT_REF_NAME": "trunk",
			"BRANCH":             "stable",
		})
		cli.BaseVersion = "5.0.0"
		cli.Repo = dir
		cli.BranchEnv = "BRANCH"
		cli.MainBranches = []string{"stable"}

		require.NoError(t, cli.Run())
		require.Equal(t, "5.0.0\n", stdout.String())
	})

	t.Run("Explicit config file must exist", func(t *testing.T) {
		cli, _, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": "develop"})
		cli.BaseVersion = "5.0.0"
		cli.Repo = dir
		cli.Config = filepath.Join(dir, "missing.yaml")

		require.Error(t, cli.Run())
	})
}

func TestCLIErrors(t *testing.T) {
	t.Run("Missing base version", func(t *testing.T) {
		cli, _, _ := newTestCLI(branchvers.MapEnvironment{})
		require.ErrorContains(t, cli.Run(), "base version is required")
	})

	t.Run("Non-git directory without override", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{})
		cli.BaseVersion = "1.2.3"
		cli.Repo = t.TempDir()

		require.ErrorIs(t, cli.Run(), branchvers.ErrRepositoryUnavailable)
		require.Empty(t, stdout.String())
	})

	t.Run("Unparsable branch", func(t *testing.T) {
		cli, stdout, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": "feature/login"})
		cli.BaseVersion = "1.2.3"
		cli.Repo = t.TempDir()

		require.ErrorIs(t, cli.Run(), branchvers.ErrUnparsableBranch)
		require.Empty(t, stdout.String())
	})

	t.Run("Semver required", func(t *testing.T) {
		cli, _, _ := newTestCLI(branchvers.MapEnvironment{"GIT_BRANCH": "develop"})
		cli.BaseVersion = "1.2-dev"
		cli.VersionPattern = `(\d+\.\d+).*`
		cli.Repo = t.TempDir()
		cli.RequireSemver = true

		require.ErrorIs(t, cli.Run(), branchvers.ErrInvalidSemver)
	})
}

func TestSetterSelection(t *testing.T) {
	cli, _, _ := newTestCLI(nil)

	cli.Setter = "maven"
	require.Equal(t, branchvers.MavenSetter{Dir: "/repo"}, cli.setter("/repo"))

	cli.Setter = "none"
	require.Nil(t, cli.setter("/repo"))

	cli.Setter = "print"
	require.IsType(t, branchvers.WriterSetter{}, cli.setter("/repo"))

	cli.JSON = true
	require.Nil(t, cli.setter("/repo"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
