// Package config loads the project-level blacky configuration.
// The configuration lives in a blacky.conf.json file in the project root and
// must define every key listed in RequiredKeys.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the name of the configuration file in the project root.
const FileName = "blacky.conf.json"

// Example is a complete configuration document, printed when validation fails.
const Example = `{
  "prTitleRegex": "^feature/(?P<title>.+)$",
  "packageManager": "pnpm",
  "targetBranch": "main",
  "projectPackagePrefix": "@my-org",
  "azure": {
    "organizationUrl": "https://dev.azure.com/<org>",
    "project": "<project>",
    "repository": "<repo-name>"
  }
}`

// RequiredKeys lists every required key in the order they are reported.
var RequiredKeys = []string{
	"prTitleRegex",
	"targetBranch",
	"projectPackagePrefix",
	"packageManager",
	"azure.organizationUrl",
	"azure.project",
	"azure.repository",
}

// ErrNotFound is returned when the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config is the validated blacky configuration.
type Config struct {
	// PRTitleRegex derives the PR title from the branch name. A named group
	// "title" wins over the first positional group.
	PRTitleRegex string `json:"prTitleRegex"`

	// PackageManager is the executable used for changesets, install and build (e.g. "pnpm").
	PackageManager string `json:"packageManager"`

	// TargetBranch is the branch the pull request is opened against.
	TargetBranch string `json:"targetBranch"`

	// ProjectPackagePrefix is prepended to package directory names in changesets (e.g. "@my-org").
	ProjectPackagePrefix string `json:"projectPackagePrefix"`

	Azure AzureConfig `json:"azure"`
}

// AzureConfig identifies the Azure DevOps repository.
type AzureConfig struct {
	OrganizationURL string `json:"organizationUrl"`
	Project         string `json:"project"`
	Repository      string `json:"repository"`
}

// ParseError reports a configuration file that is not valid JSON or holds a
// value of the wrong type.
type ParseError struct {
	Path string
	Line int
	Col  int
	Err  error
}

func (e *ParseError) Error() string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(e.Err, &typeErr) {
		return fmt.Sprintf("%s: value of %q has the wrong type: want %s, got JSON %s (line %d, column %d)",
			e.Path, typeErr.Field, typeErr.Type, typeErr.Value, e.Line, e.Col)
	}
	if e.Line > 0 {
		return fmt.Sprintf("could not parse %s as JSON (line %d, column %d): %v", e.Path, e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("could not parse %s as JSON: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError lists every required key missing from the configuration.
type ValidationError struct {
	Path    string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is missing required fields: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Load loads the configuration from FileName inside dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads, parses and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s: blacky expects a %s in your project root", ErrNotFound, path, FileName)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, newParseError(path, data, err)
	}

	if missing := cfg.MissingKeys(); len(missing) > 0 {
		return nil, &ValidationError{Path: path, Missing: missing}
	}

	return &cfg, nil
}

// MissingKeys returns the required keys that are empty, in RequiredKeys order.
func (c *Config) MissingKeys() []string {
	values := map[string]string{
		"prTitleRegex":          c.PRTitleRegex,
		"targetBranch":          c.TargetBranch,
		"projectPackagePrefix":  c.ProjectPackagePrefix,
		"packageManager":        c.PackageManager,
		"azure.organizationUrl": c.Azure.OrganizationURL,
		"azure.project":         c.Azure.Project,
		"azure.repository":      c.Azure.Repository,
	}

	var missing []string
	for _, key := range RequiredKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func newParseError(path string, data []byte, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}

	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return pe
	}

	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	pe.Line = 1 + strings.Count(string(data[:offset]), "\n")
	pe.Col = int(offset) - strings.LastIndex(string(data[:offset]), "\n") - 1
	return pe
}
