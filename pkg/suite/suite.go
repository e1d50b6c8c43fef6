// Package suite loads rule suites: named, ordered lists of parameterized
// checks authored as YAML or JSON files in a suites directory.
package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/veristat-labs/veristat/pkg/check"
)

// ErrNotFound reports that no suite file exists for the requested name.
var ErrNotFound = errors.New("suite not found")

// extensions are tried in order when resolving a suite name to a file.
var extensions = []string{".yml", ".yaml", ".json"}

// Suite is a named, ordered list of check definitions.
type Suite struct {
	Name   string         `json:"name" yaml:"name"`
	Checks []check.Def    `json:"expectations" yaml:"expectations"`
	Meta   map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Load resolves name to a file under dir and parses it. Both YAML and
// JSON suites go through the YAML parser, which accepts either. The
// declared order of checks is preserved.
func Load(dir, name string) (*Suite, error) {
	path, err := resolve(dir, name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite %s: %w", path, err)
	}

	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}

	// Fill missing categories from registry metadata. Authors may still
	// pin an explicit category per check.
	for i := range s.Checks {
		if s.Checks[i].Category == "" {
			s.Checks[i].Category = check.CategoryOf(s.Checks[i].Type)
		}
	}

	return &s, nil
}

// Save writes the suite as <dir>/<name>.yml and returns the path.
func Save(dir string, s *Suite) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode suite %s: %w", s.Name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create suites dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, s.Name+".yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write suite %s: %w", path, err)
	}
	return path, nil
}

// List returns the names of every suite file under dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read suites dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, known := range extensions {
			if ext == known {
				names = append(names, strings.TrimSuffix(e.Name(), ext))
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// resolve maps a suite name to an existing file. A name carrying a known
// extension is used verbatim; otherwise each extension is tried in order.
func resolve(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	for _, known := range extensions {
		if ext == known {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
	}

	for _, known := range extensions {
		path := filepath.Join(dir, name+known)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// validate enforces structural requirements only. Kwargs contents are the
// check's business at execution time. An empty expectations list is a
// valid (degenerate) suite.
func (s *Suite) validate(path string) error {
	for i, def := range s.Checks {
		if def.Type == "" {
			return fmt.Errorf("suite %s: expectation %d: missing expectation_type", path, i)
		}
		if def.Kwargs == nil {
			return fmt.Errorf("suite %s: expectation %d (%s): missing kwargs", path, i, def.Type)
		}
	}
	return nil
}
