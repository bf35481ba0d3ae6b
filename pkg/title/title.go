// Package title derives pull request titles from branch names.
package title

import (
	"regexp"
	"strings"

	"github.com/holon-run/blacky/pkg/log"
)

// GroupName is the named capture group that holds the title.
const GroupName = "title"

// Source records which rule produced a title.
type Source string

const (
	// SourceNamedGroup means the "title" group captured the title.
	SourceNamedGroup Source = "named-group"
	// SourceFirstGroup means the first positional group captured the title.
	SourceFirstGroup Source = "first-group"
	// SourceBranch means the raw branch name is used.
	SourceBranch Source = "branch"
)

// Derive builds a PR title from branch using pattern.
// It never fails: an invalid or non-matching pattern logs a warning and
// falls back to the branch name. An empty first group yields an empty title.
func Derive(branch, pattern string) (string, Source) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		log.Warn("configured prTitleRegex is invalid, falling back to the branch name as PR title", "pattern", pattern, "error", err)
		return branch, SourceBranch
	}

	m := re.FindStringSubmatch(branch)
	if m == nil {
		log.Warn("configured prTitleRegex did not match the branch name, falling back to the branch name as PR title", "pattern", pattern, "branch", branch)
		return branch, SourceBranch
	}

	switch i := re.SubexpIndex(GroupName); {
	case i > 0 && m[i] != "":
		return trimmed(m[i], pattern, branch), SourceNamedGroup
	case re.NumSubexp() > 0:
		return trimmed(m[1], pattern, branch), SourceFirstGroup
	}

	return branch, SourceBranch
}

func trimmed(capture, pattern, branch string) string {
	t := strings.TrimSpace(capture)
	if t == "" {
		log.Warn("configured prTitleRegex captured an empty title", "pattern", pattern, "branch", branch)
	}
	return t
}
