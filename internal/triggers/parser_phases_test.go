package triggers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripActivationHeaders(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantRemoved int
	}{
		{
			name:  "no header",
			input: "just an answer",
			want:  "just an answer",
		},
		{
			name:        "header line",
			input:       "🔴 plan Trigger Active | Mode: Planning and Organization\nbody",
			want:        "body",
			wantRemoved: len("🔴 plan Trigger Active | Mode: Planning and Organization\n"),
		},
		{
			name:        "header without newline",
			input:       "🔴 plan trigger active | mode: Planning and Organization",
			want:        "",
			wantRemoved: len("🔴 plan trigger active | mode: Planning and Organization"),
		},
		{
			name:        "consecutive headers with blank line",
			input:       "🔴 a Trigger Active | Mode: X\n\n🔴 b Trigger Active | Mode: Y\nbody",
			want:        "body",
			wantRemoved: len("🔴 a Trigger Active | Mode: X\n\n🔴 b Trigger Active | Mode: Y\n"),
		},
		{
			name:  "marker without the rest is not a header",
			input: "🔴 warning: hot\nbody",
			want:  "🔴 warning: hot\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, removed := stripActivationHeaders(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestStripCategoryLabels_RecordsCuts(t *testing.T) {
	input := "Coding and Development\nfirst\n__Data & Visualization__ -\nsecond"
	ctx := newPhaseContext(input, nil)

	got := stripCategoryLabels(input, ctx)

	assert.Equal(t, "first\nsecond", got)
	assert.Equal(t, len("Coding and Development\nfirst\n__Data & Visualization__ -\n"), ctx.offsets.original(len("first\n")))
}

func TestStripCategoryLabels_KeepsFenced(t *testing.T) {
	input := "Coding and Development\nIntro\n```\nData and Visualization\n```\nData and Visualization\nend"
	ctx := newPhaseContext(input, nil)

	got := stripCategoryLabels(input, ctx)

	assert.Equal(t, "Intro\n```\nData and Visualization\n```\nend", got)
}

// TestStripCategoryLabels_FencesAfterHeaderCut tests that fence positions from the
// original reply still apply once earlier text has been removed.
func TestStripCategoryLabels_FencesAfterHeaderCut(t *testing.T) {
	header := "🔴 plan Trigger Active | Mode: Planning and Organization\n"
	original := header + "```\nPlanning and Organization\n```\nPlanning and Organization\ntail"
	ctx := newPhaseContext(original, nil)
	work, removed := stripActivationHeaders(original)
	ctx.offsets.cut(0, removed)

	got := stripCategoryLabels(work, ctx)

	assert.Equal(t, "```\nPlanning and Organization\n```\ntail", got)
}

func TestStripLeadingBoldLabels(t *testing.T) {
	input := "**ANALYSIS**\n**FINAL ANSWER:**\nbody **BOLD** stays"
	ctx := newPhaseContext(input, nil)

	got := stripLeadingBoldLabels(input, ctx)
	assert.Equal(t, "body **BOLD** stays", got)
	assert.Equal(t, len("**ANALYSIS**\n**FINAL ANSWER:**\n"), ctx.offsets.original(0))
}

func TestStripLeadingBoldLabels_StopsInsideFence(t *testing.T) {
	original := "```\n**NOTE**\n```"
	ctx := newPhaseContext(original, nil)
	// Simulate an earlier phase having cut the opening fence line.
	ctx.offsets.cut(0, len("```\n"))
	work := original[len("```\n"):]

	assert.Equal(t, work, stripLeadingBoldLabels(work, ctx))
}

func TestExtractClosedSegments(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tests := []struct {
		name      string
		input     string
		wantTags  []string
		wantTexts []string
	}{
		{"simple pair", "a <reason>x</reason> b", []string{"reason"}, []string{"x"}},
		{"case-insensitive closer", "<Reason>x</REASON>", []string{"reason"}, []string{"x"}},
		{"nearest closer wins", "<plan>1</plan> mid <plan>2</plan>", []string{"plan", "plan"}, []string{"1", "2"}},
		{"inner pair belongs to outer", "<reason>a <plan>b</plan> c</reason>", []string{"reason"}, []string{"a <plan>b</plan> c"}},
		{"invalid wrapper", "<div><plan>p</plan></div>", []string{"plan"}, []string{"p"}},
		{"no closer", "<reason>open ended", []string{}, []string{}},
		{"different closer", "<reason>x</plan>", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newPhaseContext(tt.input, reg.ValidTags())
			segments, spans := extractClosedSegments(tt.input, ctx)

			require.Len(t, segments, len(tt.wantTags))
			require.Len(t, spans, len(tt.wantTags))
			for i, seg := range segments {
				assert.Equal(t, tt.wantTags[i], seg.Tag)
				assert.Equal(t, tt.wantTexts[i], seg.Content)
				assert.Equal(t, span{start: seg.StartIndex, end: seg.EndIndex}, spans[i])
			}
		})
	}
}

func TestOffsetMap(t *testing.T) {
	original := "HEAD:abcXYdef"
	m := &offsetMap{}

	m.cut(0, 5) // "abcXYdef"
	m.cut(3, 2) // "abcdef"
	m.cut(1, 0) // ignored

	assert.Equal(t, 5, m.original(0))
	assert.Equal(t, byte('d'), original[m.original(3)])
	assert.Equal(t, byte('f'), original[m.original(5)])
}

func TestFenceSpans(t *testing.T) {
	text := "a ```x``` b ```unpaired"

	spans := fenceSpans(text)
	require.Len(t, spans, 1)
	assert.Equal(t, "```x```", text[spans[0].start:spans[0].end])
	assert.True(t, insideAny(spans, spans[0].start))
	assert.False(t, insideAny(spans, spans[0].end))
}

func TestMergeSpans(t *testing.T) {
	got := mergeSpans([]span{{10, 20}, {0, 5}, {15, 30}, {4, 6}, {40, 60}}, 50)
	assert.Equal(t, []span{{0, 6}, {10, 30}, {40, 50}}, got)

	assert.Nil(t, mergeSpans(nil, 10))
}

func TestRemoveSpans(t *testing.T) {
	assert.Equal(t, "ad", removeSpans("abcd", []span{{2, 3}, {1, 2}}))
	assert.Equal(t, "abcd", removeSpans("abcd", nil))
}

func TestStripOrphanClosers_KeepsFenced(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := newPhaseContext("", reg.ValidTags())

	got := stripOrphanClosers("x</plan> ```</plan>``` </Plan>", ctx)
	assert.Equal(t, "x ```</plan>``` ", got)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a\n\nb", normalizeWhitespace("\n a\n\n\n\nb \n"))
}

func TestConclusionBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"therefore", "We compared both.\nTherefore, pick B.", "Therefore, pick B."},
		{"last marker wins", "In summary, early.\nMore work.\nIn conclusion: late.", "In conclusion: late."},
		{"bold heading", "notes\n**Summary:**\nAll good.", "**Summary:**\nAll good."},
		{"none", "Just thinking aloud.", ""},
		{"word without punctuation", "The conclusion was drawn", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conclusionBlock(tt.content))
		})
	}
}

func TestLastParagraph(t *testing.T) {
	assert.Equal(t, "third", lastParagraph("first\n\nsecond\n \nthird\n\n  "))
	assert.Equal(t, "", lastParagraph("  "))
}

func TestTitleTag(t *testing.T) {
	assert.Equal(t, "Deepresearch", titleTag("deepresearch"))
	assert.Equal(t, "", titleTag(""))
}
