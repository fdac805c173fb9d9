package triggers

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/data/embedded"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

type catalogFile struct {
	Categories []catalogCategory `yaml:"categories"`
}

type catalogCategory struct {
	Category onyxtypes.Category `yaml:"category"`
	Triggers []catalogEntry     `yaml:"triggers"`
}

type catalogEntry struct {
	Name        string `yaml:"name"`
	Instruction string `yaml:"instruction"`
	Example     string `yaml:"example"`
	Enabled     *bool  `yaml:"enabled"`
}

var (
	builtinOnce sync.Once
	builtinDefs []onyxtypes.TriggerDefinition
	builtinErr  error
)

// BuiltinTriggers returns the embedded built-in catalog in catalog order.
// The returned slice is a fresh copy; callers may modify it.
func BuiltinTriggers() ([]onyxtypes.TriggerDefinition, error) {
	builtinOnce.Do(func() {
		builtinDefs, builtinErr = ParseCatalog(embedded.TriggerCatalogData)
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	out := make([]onyxtypes.TriggerDefinition, len(builtinDefs))
	copy(out, builtinDefs)
	return out, nil
}

// MustBuiltinTriggers is BuiltinTriggers for callers that treat a broken embedded
// catalog as a programming error.
func MustBuiltinTriggers() []onyxtypes.TriggerDefinition {
	defs, err := BuiltinTriggers()
	if err != nil {
		panic(err)
	}
	return defs
}

// ParseCatalog decodes a YAML trigger catalog grouped by category.
// Entries default to enabled. Unknown categories and duplicate names are rejected.
func ParseCatalog(data []byte) ([]onyxtypes.TriggerDefinition, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse trigger catalog: %w", err)
	}

	seen := make(map[string]struct{})
	var defs []onyxtypes.TriggerDefinition
	for _, group := range file.Categories {
		if !group.Category.IsValid() {
			return nil, fmt.Errorf("trigger catalog: unknown category %q", group.Category)
		}
		for _, entry := range group.Triggers {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				return nil, fmt.Errorf("trigger catalog: empty name in category %q", group.Category)
			}
			folded := strings.ToLower(name)
			if _, dup := seen[folded]; dup {
				return nil, fmt.Errorf("trigger catalog: duplicate name %q", name)
			}
			seen[folded] = struct{}{}

			enabled := true
			if entry.Enabled != nil {
				enabled = *entry.Enabled
			}
			defs = append(defs, onyxtypes.TriggerDefinition{
				Name:        name,
				Category:    group.Category,
				Instruction: entry.Instruction,
				Example:     entry.Example,
				Enabled:     enabled,
			})
		}
	}
	return defs, nil
}
