package triggers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

func TestBuiltinTriggers(t *testing.T) {
	defs, err := BuiltinTriggers()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	assert.Equal(t, "reason", defs[0].Name)
	assert.Greater(t, len(defs), 200)

	perCategory := make(map[onyxtypes.Category]int)
	seen := make(map[string]bool)
	for _, def := range defs {
		assert.True(t, def.Category.IsValid(), def.Name)
		assert.True(t, def.Enabled, def.Name)
		assert.False(t, def.IsCustom, def.Name)
		assert.NotEmpty(t, def.Instruction, def.Name)
		assert.NotEmpty(t, Normalize(def.Name), def.Name)

		folded := strings.ToLower(def.Name)
		assert.False(t, seen[folded], "duplicate built-in %q", def.Name)
		seen[folded] = true
		perCategory[def.Category]++
	}
	for _, c := range onyxtypes.AllCategories() {
		assert.Positive(t, perCategory[c], "category %s has no built-ins", c)
	}
}

func TestBuiltinTriggers_ReturnsCopy(t *testing.T) {
	first := MustBuiltinTriggers()
	first[0].Name = "mutated"

	second := MustBuiltinTriggers()
	assert.Equal(t, "reason", second[0].Name)
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
categories:
  - category: Reasoning and Analysis
    triggers:
      - name: reason
        instruction: Think it through.
      - name: muse
        instruction: Wander.
        enabled: false
  - category: Coding and Development
    triggers:
      - name: debug
        instruction: Find the bug.
        example: debug this
`)

	defs, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "reason", defs[0].Name)
	assert.True(t, defs[0].Enabled, "entries default to enabled")
	assert.False(t, defs[1].Enabled)
	assert.Equal(t, onyxtypes.CategoryCoding, defs[2].Category)
	assert.Equal(t, "debug this", defs[2].Example)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "unknown category",
			data:    "categories:\n  - category: Cooking\n    triggers:\n      - name: bake\n",
			wantErr: "unknown category",
		},
		{
			name:    "duplicate name",
			data:    "categories:\n  - category: Reasoning and Analysis\n    triggers:\n      - name: reason\n      - name: Reason\n",
			wantErr: "duplicate name",
		},
		{
			name:    "empty name",
			data:    "categories:\n  - category: Reasoning and Analysis\n    triggers:\n      - name: \"  \"\n",
			wantErr: "empty name",
		},
		{
			name:    "malformed yaml",
			data:    "categories: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
