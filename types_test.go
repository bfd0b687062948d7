package branchvers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBranch(t *testing.T) {
	branch := NewBranch("release/ABC-42-hotfix")
	require.Equal(t, "release/ABC-42-hotfix", branch.Ref)
	require.Equal(t, "ABC-42-hotfix", branch.Name)
	require.NotContains(t, branch.Name, "/")

	require.Equal(t, Branch{Ref: "develop", Name: "develop"}, NewBranch("develop"))
}

func TestResultJSON(t *testing.T) {
	result := &Result{
		Version:    "1.2.3-ABC-1-SNAPSHOT",
		Fragment:   "1.2.3",
		Branch:     "feature/ABC-1",
		BranchName: "ABC-1",
		Kind:       KindFeature,
		Issue:      "ABC-1",
		IssueKey:   "ABC-1",
		Parts:      &VersionParts{Major: 1, Minor: 2, Patch: 3, Prerelease: "ABC-1-SNAPSHOT"},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"version": "1.2.3-ABC-1-SNAPSHOT",
		"fragment": "1.2.3",
		"branch": "feature/ABC-1",
		"branchName": "ABC-1",
		"kind": "feature",
		"issue": "ABC-1",
		"issueKey": "ABC-1",
		"semver": {"major": 1, "minor": 2, "patch": 3, "prerelease": "ABC-1-SNAPSHOT"}
	}`, string(data))

	data, err = json.Marshal(&Result{Version: "1.2.3", Fragment: "1.2.3", Branch: "master", BranchName: "master", Kind: KindMain})
	require.NoError(t, err)
	require.NotContains(t, string(data), "issue")
	require.NotContains(t, string(data), "semver")
}

func TestEnvironment(t *testing.T) {
	t.Setenv("BRANCHVERS_TEST_BRANCH", "develop")

	value, ok := OSEnvironment{}.Lookup("BRANCHVERS_TEST_BRANCH")
	require.True(t, ok)
	require.Equal(t, "develop", value)
	require.Contains(t, OSEnvironment{}.Names(), "BRANCHVERS_TEST_BRANCH")

	env := MapEnvironment{"A": "1", "B": "2"}
	_, ok = env.Lookup("C")
	require.False(t, ok)
	require.ElementsMatch(t, []string{"A", "B"}, env.Names())
}
