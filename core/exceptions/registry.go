// Package exceptions loads the exception registry: per-rule lists of known
// violations that a content check must not report.
//
// The registry is a YAML mapping from rule name to a list. Entries are either
// scalar element ids or two-element lists of ids:
//
//	test_duplicate_bbox:
//	  - ["0001a2b3", "0001a2b4"]
//	test_face_not_in_face: []
//
// Each rule is a tagged variant: all of its entries are single ids or all are
// pairs. A rule that mixes both is rejected at load time.
package exceptions

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
)

// ErrMissingRule is wrapped by the ConfigError returned when a rule has no
// entry in the registry.
var ErrMissingRule = errors.New("rule missing from exception registry")

// Kind tells whether a rule suppresses single ids or id pairs.
type Kind int

const (
	// KindEmpty is a rule present in the registry with no entries.
	KindEmpty Kind = iota
	// KindSingle suppresses violations on a single element id.
	KindSingle
	// KindPair suppresses violations on a pair of element ids.
	KindPair
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindPair:
		return "pair"
	default:
		return "empty"
	}
}

// Pair is an ordered pair of element ids.
type Pair [2]string

// Reverse returns the pair with its members swapped.
func (p Pair) Reverse() Pair {
	return Pair{p[1], p[0]}
}

// Rule holds the suppressions registered under one rule name.
type Rule struct {
	Name    string
	Kind    Kind
	singles map[string]struct{}
	pairs   map[Pair]struct{}
}

// Len returns the number of distinct entries in the rule.
func (r *Rule) Len() int {
	return len(r.singles) + len(r.pairs)
}

// Violation is a candidate violation to test against a rule.
type Violation struct {
	ids       Pair
	isPair    bool
	unordered bool
}

// Single builds a violation on one element id.
func Single(id string) Violation {
	return Violation{ids: Pair{id}}
}

// OrderedPair builds a directional pair violation: (a, b) and (b, a) are
// distinct registry entries.
func OrderedPair(a, b string) Violation {
	return Violation{ids: Pair{a, b}, isPair: true}
}

// UnorderedPair builds a pair violation that matches a registry entry stored
// in either order.
func UnorderedPair(a, b string) Violation {
	return Violation{ids: Pair{a, b}, isPair: true, unordered: true}
}

// IDs returns the ids carried by the violation.
func (v Violation) IDs() []string {
	if v.isPair {
		return []string{v.ids[0], v.ids[1]}
	}
	return []string{v.ids[0]}
}

// Registry is a read-only set of rules loaded once per validation session.
type Registry struct {
	path  string
	rules map[string]*Rule
}

// Load reads the registry from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.NewConfig(path, "", "cannot read exception registry", err)
	}
	reg, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Parse builds a registry from an in-memory YAML document.
func Parse(data []byte) (*Registry, error) {
	return parse("", data)
}

func parse(path string, data []byte) (*Registry, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cerrors.NewConfig(path, "", "malformed exception registry", err)
	}

	reg := &Registry{path: path, rules: make(map[string]*Rule, len(doc))}
	for name, node := range doc {
		rule, err := decodeRule(name, &node)
		if err != nil {
			return nil, cerrors.NewConfig(path, name, err.Error(), nil)
		}
		reg.rules[name] = rule
	}
	return reg, nil
}

func decodeRule(name string, node *yaml.Node) (*Rule, error) {
	rule := &Rule{
		Name:    name,
		Kind:    KindEmpty,
		singles: make(map[string]struct{}),
		pairs:   make(map[Pair]struct{}),
	}

	// "rule:" with no value
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return rule, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of ids or id pairs", node.Line)
	}

	for _, entry := range node.Content {
		var kind Kind
		switch entry.Kind {
		case yaml.ScalarNode:
			kind = KindSingle
			rule.singles[entry.Value] = struct{}{}
		case yaml.SequenceNode:
			if len(entry.Content) != 2 {
				return nil, fmt.Errorf("line %d: id pair must have exactly 2 members, got %d", entry.Line, len(entry.Content))
			}
			a, b := entry.Content[0], entry.Content[1]
			if a.Kind != yaml.ScalarNode || b.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: id pair members must be scalars", entry.Line)
			}
			kind = KindPair
			rule.pairs[Pair{a.Value, b.Value}] = struct{}{}
		default:
			return nil, fmt.Errorf("line %d: unexpected entry", entry.Line)
		}

		if rule.Kind != KindEmpty && rule.Kind != kind {
			return nil, fmt.Errorf("line %d: rule mixes single ids and id pairs", entry.Line)
		}
		rule.Kind = kind
	}
	return rule, nil
}

// Path returns the file the registry was loaded from, if any.
func (r *Registry) Path() string {
	return r.path
}

// Rules returns the sorted rule names.
func (r *Registry) Rules() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule returns the named rule.
func (r *Registry) Rule(name string) (*Rule, error) {
	rule, ok := r.rules[name]
	if !ok {
		return nil, cerrors.NewConfig(r.path, name, "no entry for rule", ErrMissingRule)
	}
	return rule, nil
}

// Require checks that every named rule is present.
func (r *Registry) Require(names ...string) error {
	for _, name := range names {
		if _, err := r.Rule(name); err != nil {
			return err
		}
	}
	return nil
}

// IsExcepted reports whether v is suppressed under the named rule. A rule
// absent from the registry is a configuration error, never a silent miss.
func (r *Registry) IsExcepted(name string, v Violation) (bool, error) {
	rule, err := r.Rule(name)
	if err != nil {
		return false, err
	}
	return rule.Contains(v), nil
}

// Contains reports whether the rule lists v.
func (r *Rule) Contains(v Violation) bool {
	if !v.isPair {
		_, ok := r.singles[v.ids[0]]
		return ok
	}
	if _, ok := r.pairs[v.ids]; ok {
		return true
	}
	if v.unordered {
		_, ok := r.pairs[v.ids.Reverse()]
		return ok
	}
	return false
}
