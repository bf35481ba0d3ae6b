package changeset

import (
	"fmt"
	"strings"
)

// Kind is the semantic-versioning impact of a change.
type Kind string

const (
	Patch Kind = "patch"
	Minor Kind = "minor"
	Major Kind = "major"
)

var kinds = []Kind{Patch, Minor, Major}

// KindNames returns the accepted change types in prompt order.
func KindNames() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// ParseKind accepts patch, minor or major, ignoring case and surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range kinds {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid change type %q: expected one of %s", s, strings.Join(KindNames(), ", "))
}
