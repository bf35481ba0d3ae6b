// Package changeset creates and rewrites changeset files, the Markdown records
// consumed by the release tooling. A changeset starts with front matter listing
// affected packages and their change type, followed by a free-form body:
//
//	---
//	"@acme/web": minor
//	---
//
//	Adds the login page.
package changeset

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the directory holding changeset files, relative to the project root.
	DirName = ".changeset"

	// Ext is the extension of changeset files.
	Ext = ".md"

	// Readme is the changeset CLI's own documentation file, never a changeset.
	Readme = "README.md"

	// ManifestFile marks a directory as a package.
	ManifestFile = "package.json"

	// Delimiter opens and closes the front matter.
	Delimiter = "---"
)

var (
	// ErrNotFound is returned when no changeset file can be located.
	ErrNotFound = errors.New("no changeset file found")

	// ErrInvalidFrontMatter is returned for front matter that does not parse.
	ErrInvalidFrontMatter = errors.New("invalid changeset front matter")
)

// Release is a single front matter entry.
type Release struct {
	Package string
	Kind    Kind
}

// Changeset is a parsed changeset file.
type Changeset struct {
	Releases []Release
	Body     string
}

// FindLatest returns the most recently modified changeset file in dir,
// ignoring the README.
// Files with equal modification times keep their lexical order.
//
// The newest file is assumed to be the one the package manager just created;
// this is racy if other processes write to dir at the same time.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNotFound, dir)
		}
		return "", fmt.Errorf("failed to read %s: %w", dir, err)
	}

	type candidate struct {
		path string
		info os.FileInfo
	}
	var candidates []candidate
	for _, entry := range entries {
		if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != Ext || entry.Name() == Readme {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, entry.Name()), info: info})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].info.ModTime().After(candidates[j].info.ModTime())
	})
	return candidates[0].path, nil
}

// ChangedPackages maps changed file paths (relative to root) to the package
// directories containing them. For every path the path itself and then each of
// its ancestors is checked for a package.json; the first hit wins. The project
// root is never reported. The result is deduplicated and sorted.
func ChangedPackages(root string, changedFiles []string) []string {
	seen := make(map[string]bool)

	for _, file := range changedFiles {
		dir := path.Clean(filepath.ToSlash(file))
		for {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir), ManifestFile)); err == nil {
				if dir != "." && dir != "/" {
					seen[dir] = true
				}
				break
			}
			parent := path.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	packages := make([]string, 0, len(seen))
	for dir := range seen {
		packages = append(packages, dir)
	}
	sort.Strings(packages)
	return packages
}

// PackageName returns the release name of a package directory: the prefix
// joined with the directory's last path segment.
func PackageName(prefix, dir string) string {
	return prefix + "/" + path.Base(filepath.ToSlash(dir))
}

// RenderFrontMatter renders the delimited front matter block followed by a blank line.
// Package names are written as double-quoted YAML scalars, so any prefix or
// directory name round-trips through Parse.
func RenderFrontMatter(prefix string, kind Kind, packageDirs []string) string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	for _, dir := range packageDirs {
		fmt.Fprintf(&b, "%s: %s\n", quoteKey(PackageName(prefix, dir)), kind)
	}
	b.WriteString(Delimiter + "\n\n")
	return b.String()
}

// quoteKey encodes s as a double-quoted YAML scalar.
func quoteKey(s string) string {
	out, err := yaml.Marshal(&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Tag: "!!str", Value: s})
	if err != nil {
		// Go's quoting is a subset of YAML's double-quoted escapes.
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(string(out), "\n")
}

// Render returns the full file content: front matter plus the trimmed body.
func Render(prefix string, kind Kind, packageDirs []string, body string) string {
	frontMatter := RenderFrontMatter(prefix, kind, packageDirs)
	if body = strings.TrimSpace(body); body != "" {
		return frontMatter + body + "\n"
	}
	return frontMatter
}

// Parse decodes a changeset file. Entries keep their order.
func Parse(content string) (*Changeset, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, Delimiter+"\n") {
		return nil, fmt.Errorf("%w: missing opening %q", ErrInvalidFrontMatter, Delimiter)
	}
	rest := content[len(Delimiter)+1:]

	var yamlPart, body string
	switch {
	case strings.HasPrefix(rest, Delimiter+"\n") || rest == Delimiter:
		body = strings.TrimPrefix(rest, Delimiter)
	default:
		end := strings.Index(rest, "\n"+Delimiter+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+Delimiter) {
				return nil, fmt.Errorf("%w: missing closing %q", ErrInvalidFrontMatter, Delimiter)
			}
			end = len(rest) - len(Delimiter) - 1
		}
		yamlPart = rest[:end]
		body = rest[end+len(Delimiter)+1:]
	}

	cs := &Changeset{Body: strings.TrimSpace(body)}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlPart), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return cs, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of package to change type", ErrInvalidFrontMatter)
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d is not a package entry", ErrInvalidFrontMatter, key.Line)
		}
		kind, err := ParseKind(value.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
		}
		cs.Releases = append(cs.Releases, Release{Package: key.Value, Kind: kind})
	}

	return cs, nil
}
