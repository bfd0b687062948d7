package branchvers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternMatch(t *testing.T) {
	pattern, err := CompilePattern(DefaultVersionPattern)
	require.NoError(t, err)
	require.Equal(t, 1, pattern.NumGroups())
	require.Equal(t, DefaultVersionPattern, pattern.String())

	t.Run("Whole input", func(t *testing.T) {
		match := pattern.Match("1.2.3-dev")
		require.True(t, match.Matched())

		fragment, err := match.Group(1)
		require.NoError(t, err)
		require.Equal(t, "1.2.3", fragment)

		whole, err := match.Group(0)
		require.NoError(t, err)
		require.Equal(t, "1.2.3-dev", whole)
	})

	t.Run("Substring only is a mismatch", func(t *testing.T) {
		match := pattern.Match("v1.2.3")
		require.False(t, match.Matched())

		_, err := match.Group(1)
		require.ErrorIs(t, err, ErrPatternMismatch)
	})

	t.Run("Missing capture group", func(t *testing.T) {
		match := pattern.Match("1.2.3")
		_, err := match.Group(2)
		require.ErrorIs(t, err, ErrMissingCaptureGroup)
		require.NotErrorIs(t, err, ErrPatternMismatch)
	})

	t.Run("Alternation is anchored as a whole", func(t *testing.T) {
		alt, err := CompilePattern(`a|b`)
		require.NoError(t, err)
		require.True(t, alt.Match("a").Matched())
		require.False(t, alt.Match("ab").Matched())
	})
}

func TestPatternFind(t *testing.T) {
	pattern, err := CompilePattern(IssueKeyPattern)
	require.NoError(t, err)

	match := pattern.Find("feature/ABC-123-login")
	require.True(t, match.Matched())
	key, err := match.Group(0)
	require.NoError(t, err)
	require.Equal(t, "ABC-123", key)

	_, err = match.Group(1)
	require.ErrorIs(t, err, ErrMissingCaptureGroup)

	require.False(t, pattern.Find("develop").Matched())
}

func TestCompilePatternInvalid(t *testing.T) {
	_, err := CompilePattern(`(\d+`)
	require.Error(t, err)
}

func TestIssueKey(t *testing.T) {
	require.Equal(t, "ABC-42", IssueKey("release/ABC-42-hotfix"))
	require.Equal(t, "PROJ-1", IssueKey("PROJ-1"))
	require.Equal(t, "", IssueKey("develop"))
	require.Equal(t, "", IssueKey("A-1"))
}
