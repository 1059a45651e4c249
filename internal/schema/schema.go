package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Wildcard tokens accepted in an allowed_children list. Any of these means
// "any child type is accepted".
var wildcardTokens = map[string]bool{
	"*":       true,
	"any":     true,
	"__any__": true,
}

// NodeTypeDef is one node type declared by a blueprint.
type NodeTypeDef struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`

	// AllowedChildren lists the child type ids this type accepts.
	// An EMPTY list means "no constraint declared" (anything is accepted),
	// not "nothing allowed"; legacy and leaf types rely on this. A type that
	// really accepts nothing must say so with a non-matching sentinel
	// (convention: [none]).
	AllowedChildren []string `yaml:"allowed_children" json:"allowedChildren"`

	HasTimeLog bool `yaml:"has_time_log,omitempty" json:"hasTimeLog,omitempty"`
}

// Blueprint is a loaded schema: the set of node types and their
// allowed-children constraints. Read-only after parse.
type Blueprint struct {
	ID        string        `yaml:"id" json:"id"`
	Name      string        `yaml:"name" json:"name"`
	Version   string        `yaml:"version" json:"version"`
	NodeTypes []NodeTypeDef `yaml:"node_types" json:"nodeTypes"`

	byID map[string]NodeTypeDef
}

//go:embed default_blueprint.yaml
var defaultBlueprintYAML []byte

// DefaultYAML returns the raw embedded blueprint, for seeding a workspace
// file users can edit.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultBlueprintYAML))
	copy(out, defaultBlueprintYAML)
	return out
}

// Default returns the built-in production blueprint. The embedded file is
// covered by tests, so a parse failure here is a programming error.
func Default() *Blueprint {
	bp, err := Parse(defaultBlueprintYAML)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded default blueprint invalid: %v", err))
	}
	return bp
}

// Parse decodes a blueprint from YAML and builds the type index.
func Parse(b []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(b, &bp); err != nil {
		return nil, fmt.Errorf("parse blueprint: %w", err)
	}
	if strings.TrimSpace(bp.Version) == "" {
		bp.Version = "1.0"
	}
	bp.byID = make(map[string]NodeTypeDef, len(bp.NodeTypes))
	for _, nt := range bp.NodeTypes {
		key := normalizeType(nt.ID)
		if key == "" {
			return nil, fmt.Errorf("parse blueprint: node type with empty id")
		}
		if _, dup := bp.byID[key]; dup {
			return nil, fmt.Errorf("parse blueprint: duplicate node type %q", nt.ID)
		}
		bp.byID[key] = nt
	}
	return &bp, nil
}

// TypeDef looks up a node type by id (case-insensitive, trimmed).
func (bp *Blueprint) TypeDef(typeID string) (NodeTypeDef, bool) {
	nt, ok := bp.byID[normalizeType(typeID)]
	return nt, ok
}

// AllowedChildren returns the declared child type list for a parent type, in
// schema order. Nil for unknown types.
func (bp *Blueprint) AllowedChildren(parentType string) []string {
	nt, ok := bp.TypeDef(parentType)
	if !ok {
		return nil
	}
	return nt.AllowedChildren
}

// AcceptsChildType reports whether childType may be nested under parentType.
//
// True when the parent's allowed list is empty (no constraint declared; this
// also covers parent types absent from the blueprint, i.e. legacy data), when
// the list contains childType (case-insensitive, trimmed), or when the list
// contains a wildcard token.
func (bp *Blueprint) AcceptsChildType(parentType, childType string) bool {
	allowed := bp.AllowedChildren(parentType)
	if len(allowed) == 0 {
		return true
	}
	want := normalizeType(childType)
	for _, a := range allowed {
		a = normalizeType(a)
		if wildcardTokens[a] {
			return true
		}
		if a == want {
			return true
		}
	}
	return false
}

// IsWildcard reports whether token is a recognized allowed-children wildcard.
func IsWildcard(token string) bool {
	return wildcardTokens[normalizeType(token)]
}

func normalizeType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
