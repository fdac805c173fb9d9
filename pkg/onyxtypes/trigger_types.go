package onyxtypes

import "strings"

// Category groups triggers and selects the guidance text attached to their directives.
type Category string

// The nine fixed trigger categories. The string value is the display name, which is
// also what the model echoes back in activation headers.
const (
	CategoryReasoning    Category = "Reasoning and Analysis"
	CategoryResearch     Category = "Research and Information"
	CategoryPlanning     Category = "Planning and Organization"
	CategoryWriting      Category = "Writing and Communication"
	CategoryCoding       Category = "Coding and Development"
	CategoryCreative     Category = "Creative and Ideation"
	CategoryLearning     Category = "Learning and Education"
	CategoryData         Category = "Data and Visualization"
	CategoryProductivity Category = "Productivity and Workflow"
)

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryReasoning,
		CategoryResearch,
		CategoryPlanning,
		CategoryWriting,
		CategoryCoding,
		CategoryCreative,
		CategoryLearning,
		CategoryData,
		CategoryProductivity,
	}
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	return string(c)
}

// IsValid reports whether c is one of the nine fixed categories.
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category from its display name, ignoring case and
// treating "&" as "and". Returns false when nothing matches.
func ParseCategory(s string) (Category, bool) {
	want := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "&", "and")))
	want = strings.Join(strings.Fields(want), " ")
	for _, c := range AllCategories() {
		if strings.ToLower(string(c)) == want {
			return c, true
		}
	}
	return "", false
}

// TriggerDefinition is a single registry entry.
// The JSON shape is the persisted and import/export format; the YAML shape is used
// by the embedded built-in catalog.
type TriggerDefinition struct {
	Name        string   `json:"name" yaml:"name"`               // Matched as a whole word, case-insensitive
	Category    Category `json:"category" yaml:"category"`       // One of the nine fixed categories
	Instruction string   `json:"instruction" yaml:"instruction"` // Behavior description injected into prompts
	Example     string   `json:"example" yaml:"example"`         // Display only
	Enabled     bool     `json:"enabled" yaml:"enabled"`         // Disabled entries are not detected
	IsCustom    bool     `json:"isCustom" yaml:"-"`              // User-added entry
}

// DetectedTrigger is the result of matching one registry entry against user text.
type DetectedTrigger struct {
	Name         string   `json:"name"`
	CanonicalTag string   `json:"canonicalTag"`
	Category     Category `json:"category"`
	Instruction  string   `json:"instruction"`
}
