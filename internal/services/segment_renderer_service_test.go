package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

type staticLookup map[string]onyxtypes.Category

func (l staticLookup) CategoryForTag(tag string) (onyxtypes.Category, bool) {
	c, ok := l[tag]
	return c, ok
}

func newTestSegmentRenderer(t *testing.T, plain bool) *SegmentRendererService {
	t.Helper()
	service := NewSegmentRendererService(&bytes.Buffer{})
	require.NoError(t, service.Initialize())
	service.SetPlain(plain)
	service.SetWidth(40)
	return service
}

func TestSegmentRendererService_NotInitialized(t *testing.T) {
	service := NewSegmentRendererService(&bytes.Buffer{})
	assert.Equal(t, "segment_renderer", service.Name())
	assert.False(t, service.IsInitialized())
	assert.Empty(t, service.RenderSegments([]onyxtypes.TaggedSegment{{Tag: "reason"}}, nil, true))
}

func TestSegmentRendererService_NoSegments(t *testing.T) {
	service := newTestSegmentRenderer(t, true)
	assert.Empty(t, service.RenderSegments(nil, nil, true))
	assert.Equal(t, "answer", service.RenderAnswer("answer", false))
}

func TestSegmentRendererService_PlainPanels(t *testing.T) {
	service := newTestSegmentRenderer(t, true)
	lookup := staticLookup{"reason": onyxtypes.CategoryReasoning}

	segments := []onyxtypes.TaggedSegment{
		{Tag: "reason", Content: "First premise.\nSecond premise."},
		{Tag: "unknown", Content: "Loose notes."},
	}
	out := service.RenderSegments(segments, lookup, true)

	assert.Contains(t, out, "[<reason> · Reasoning and Analysis]")
	assert.Contains(t, out, "First premise.\nSecond premise.")
	assert.Contains(t, out, "[<unknown>]")
	assert.Less(t, strings.Index(out, "reason"), strings.Index(out, "unknown"))
}

func TestSegmentRendererService_CollapsedPreview(t *testing.T) {
	service := newTestSegmentRenderer(t, true)
	long := strings.Repeat("word ", 40)

	out := service.RenderSegments([]onyxtypes.TaggedSegment{{Tag: "plan", Content: long}}, nil, false)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.LessOrEqual(t, ansi.StringWidth(lines[1]), 36)
	assert.True(t, strings.HasSuffix(lines[1], "…"))
}

func TestSegmentRendererService_StyledPanels(t *testing.T) {
	service := newTestSegmentRenderer(t, false)
	lookup := staticLookup{"plan": onyxtypes.CategoryPlanning}

	out := service.RenderSegments([]onyxtypes.TaggedSegment{{Tag: "plan", Content: "Step one."}}, lookup, true)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "<plan> · Planning and Organization")
	assert.Contains(t, plain, "Step one.")
	assert.Contains(t, plain, "╭")
}

func TestSegmentRendererService_RenderAnswer(t *testing.T) {
	service := newTestSegmentRenderer(t, true)
	out := service.RenderAnswer("The answer is 42.", true)
	assert.Equal(t, strings.Repeat("-", 40)+"\nThe answer is 42.", out)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"short", "one two", 20, "one two"},
		{"collapses whitespace", "one\n\n  two\tthree", 20, "one two three"},
		{"truncates", "abcdefghij", 5, "abcd…"},
		{"strips ansi", "\x1b[31mred\x1b[0m", 10, "red"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(tt.text, tt.width))
		})
	}
}
