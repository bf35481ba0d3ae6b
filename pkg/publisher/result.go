package publisher

import (
	"fmt"
	"io"
	"sort"
)

// DefaultDescription is the body used when the operator gave no description.
func DefaultDescription(sourceBranch string) string {
	return fmt.Sprintf("Automatically created by blacky for branch %s", sourceBranch)
}

// NewAction creates a PublishAction.
func NewAction(actionType, description string) PublishAction {
	return PublishAction{
		Type:        actionType,
		Description: description,
		Metadata:    make(map[string]string),
	}
}

// AddMetadata adds metadata to an action.
func (a *PublishAction) AddMetadata(key, value string) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]string)
	}
	a.Metadata[key] = value
}

// WriteSummary prints a human-readable summary of the result.
func WriteSummary(w io.Writer, result PublishResult) {
	switch {
	case !result.Success:
		fmt.Fprintf(w, "Publishing to %s using provider '%s' failed\n", result.Target, result.Provider)
	case result.DryRun:
		fmt.Fprintf(w, "Dry run for %s using provider '%s' (nothing was created)\n", result.Target, result.Provider)
	default:
		fmt.Fprintf(w, "Successfully published to %s using provider '%s'\n", result.Target, result.Provider)
	}

	for _, action := range result.Actions {
		fmt.Fprintf(w, "  - %s\n", action.Description)

		keys := make([]string, 0, len(action.Metadata))
		for k := range action.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "      %s: %s\n", k, action.Metadata[k])
		}
	}
}
