package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/testutils"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

func newTestDetector(t *testing.T) (*Detector, *Registry) {
	t.Helper()
	reg, _ := newTestRegistry(t)
	return NewDetector(reg, 0), reg
}

func detectedNames(detected []onyxtypes.DetectedTrigger) []string {
	out := make([]string, len(detected))
	for i, d := range detected {
		out[i] = d.Name
	}
	return out
}

func TestDetector_Detect(t *testing.T) {
	det, _ := newTestDetector(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"two triggers", "Please analyze this dataset and plan next steps.", []string{"analyze", "plan"}},
		{"registry order, not text order", "analyze first, then reason", []string{"reason", "analyze"}},
		{"case insensitive", "PLAN my week", []string{"plan"}},
		{"substring does not match", "Tell me about the planet Mars", []string{}},
		{"prefix does not match", "we need to replan", []string{}},
		{"underscore is a word character", "see plan_b for details", []string{}},
		{"punctuation is a boundary", "(plan) and reason.", []string{"reason", "plan"}},
		{"phrase", "do some deep research on bees", []string{"deep research"}},
		{"phrase with extra whitespace", "deep \t  research please", []string{"deep research"}},
		{"phrase across a newline", "deep\nresearch", []string{"deep research"}},
		{"phrase words must be adjacent", "deep ocean research", []string{}},
		{"each entry once", "reason, reason and reason again", []string{"reason"}},
		{"disabled entries are skipped", "debug this function", []string{}},
		{"non-ascii letter ends no word", "plané", []string{}},
		{"empty", "", []string{}},
		{"whitespace only", "   \n", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := det.Detect(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, detectedNames(got))
		})
	}
}

func TestDetector_DetectFields(t *testing.T) {
	det, _ := newTestDetector(t)

	got := det.Detect("Can you do Deep Research here?")
	require.Len(t, got, 1)
	assert.Equal(t, onyxtypes.DetectedTrigger{
		Name:         "deep research",
		CanonicalTag: "deepresearch",
		Category:     onyxtypes.CategoryResearch,
		Instruction:  "Investigate thoroughly from several angles.",
	}, got[0])
}

func TestDetector_FollowsRegistryChanges(t *testing.T) {
	det, reg := newTestDetector(t)

	require.NoError(t, reg.Add(onyxtypes.TriggerDefinition{
		Name:     "c++ review",
		Category: onyxtypes.CategoryCoding,
		Enabled:  true,
	}))
	assert.Equal(t, []string{"c++ review"}, detectedNames(det.Detect("please do a C++ review now")))

	require.NoError(t, reg.SetEnabled("plan", false))
	assert.Empty(t, det.Detect("plan my week"))

	require.NoError(t, reg.SetEnabled("debug", true))
	assert.Equal(t, []string{"debug"}, detectedNames(det.Detect("debug this")))
}

func TestDetector_Matches(t *testing.T) {
	det, _ := newTestDetector(t)

	assert.True(t, det.Matches("Plan", "let's PLAN it"))
	assert.False(t, det.Matches("plan", "planning"))
	assert.False(t, det.Matches("  ", "anything"))
}

// TestDetector_SmallCache tests that eviction only costs recompilation.
func TestDetector_SmallCache(t *testing.T) {
	reg, _ := newTestRegistry(t)
	det := NewDetector(reg, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"reason", "analyze", "plan"}, detectedNames(det.Detect("reason, analyze, plan")))
	}
}

func TestDetector_BuiltinCatalog(t *testing.T) {
	reg := NewRegistry(testutils.NewMockStore(), MustBuiltinTriggers())
	det := NewDetector(reg, DefaultPatternCacheSize)

	assert.Equal(t, []string{"analyze", "plan"}, detectedNames(det.Detect("Please analyze this dataset and plan next steps.")))
	assert.Empty(t, det.Detect("Tell me about the planet Mars"))
}
