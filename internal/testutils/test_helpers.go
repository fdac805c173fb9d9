package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// SampleTriggers returns a small built-in set covering several categories, in a fixed order.
func SampleTriggers() []onyxtypes.TriggerDefinition {
	return []onyxtypes.TriggerDefinition{
		{Name: "reason", Category: onyxtypes.CategoryReasoning, Instruction: "Reason through the problem step by step.", Example: "reason about this", Enabled: true},
		{Name: "analyze", Category: onyxtypes.CategoryReasoning, Instruction: "Break the subject into parts and examine each.", Example: "analyze the data", Enabled: true},
		{Name: "deep research", Category: onyxtypes.CategoryResearch, Instruction: "Investigate thoroughly from several angles.", Example: "deep research on bees", Enabled: true},
		{Name: "plan", Category: onyxtypes.CategoryPlanning, Instruction: "Lay out ordered steps toward the goal.", Example: "plan my week", Enabled: true},
		{Name: "summarize", Category: onyxtypes.CategoryWriting, Instruction: "Condense to the key points.", Example: "summarize this", Enabled: true},
		{Name: "debug", Category: onyxtypes.CategoryCoding, Instruction: "Find and explain the defect.", Example: "debug this code", Enabled: false},
	}
}

// SampleMemory returns a memory context with items out of importance order.
func SampleMemory() onyxtypes.MemoryContext {
	return onyxtypes.MemoryContext{
		Text: "User prefers concise answers.",
		Items: []onyxtypes.MemoryItem{
			{Key: "language", Value: "Go", Importance: 3},
			{Key: "name", Value: "Sam", Importance: 9},
			{Key: "timezone", Value: "UTC", Importance: 5},
		},
	}
}

// CreateTempFile creates a temporary file with content and returns its path.
func CreateTempFile(t *testing.T, filename, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
