package branchvers

import (
	"fmt"
	"regexp"
)

// IssueKeyPattern matches issue keys such as "ABC-123"
const IssueKeyPattern = `\w\w+\-\d+`

var issueKeyRe = regexp.MustCompile(IssueKeyPattern)

// Pattern is a compiled regular expression supporting whole-input and
// first-occurrence matching.
type Pattern struct {
	expr  string
	whole *regexp.Regexp
	first *regexp.Regexp
}

// Match holds the outcome of applying a Pattern to an input.
type Match struct {
	expr      string
	groups    []string
	numGroups int
}

// CompilePattern compiles expr once for reuse.
func CompilePattern(expr string) (*Pattern, error) {
	firstRe, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}

	wholeRe, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", expr, err)
	}

	return &Pattern{expr: expr, whole: wholeRe, first: firstRe}, nil
}

// String returns the source expression
func (p *Pattern) String() string {
	return p.expr
}

// NumGroups returns the number of capturing groups in the pattern
func (p *Pattern) NumGroups() int {
	return p.first.NumSubexp()
}

// Match requires the whole input to match.
func (p *Pattern) Match(input string) Match {
	return p.newMatch(p.whole.FindStringSubmatch(input))
}

// Find matches the first occurrence of the pattern within input.
func (p *Pattern) Find(input string) Match {
	return p.newMatch(p.first.FindStringSubmatch(input))
}

func (p *Pattern) newMatch(groups []string) Match {
	return Match{expr: p.expr, groups: groups, numGroups: p.NumGroups()}
}

// Matched reports whether the pattern matched at all
func (m Match) Matched() bool {
	return m.groups != nil
}

// Group returns capture group n, where 0 is the whole match.
func (m Match) Group(n int) (string, error) {
	if !m.Matched() {
		return "", fmt.Errorf("%w: %q", ErrPatternMismatch, m.expr)
	}
	if n < 0 || n > m.numGroups {
		return "", fmt.Errorf("%w: group %d of %q", ErrMissingCaptureGroup, n, m.expr)
	}
	return m.groups[n], nil
}

// IssueKey returns the first issue key found in s, or "" when there is none.
func IssueKey(s string) string {
	return issueKeyRe.FindString(s)
}
