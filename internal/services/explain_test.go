package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplainParse(t *testing.T) {
	raw := "<reason>Six times seven.</reason>\nThe answer is 42."
	clean := "The answer is 42."

	edits := ExplainParse(raw, clean)
	if assert.NotEmpty(t, edits) {
		var removed strings.Builder
		for _, edit := range edits {
			assert.Equal(t, EditRemoved, edit.Kind)
			removed.WriteString(edit.Text)
		}
		assert.Contains(t, removed.String(), "Six times seven.")
		assert.Equal(t, 0, edits[0].Offset)
	}
}

func TestExplainParse_ReportsAddedFallback(t *testing.T) {
	raw := "<reason>In conclusion, it works.</reason>"
	clean := "Reason Summary:\n\nIn conclusion, it works."

	var added []Edit
	for _, edit := range ExplainParse(raw, clean) {
		if edit.Kind == EditAdded {
			added = append(added, edit)
		}
	}
	assert.NotEmpty(t, added)
}

func TestExplainParse_Identical(t *testing.T) {
	assert.Empty(t, ExplainParse("same text", "same text"))
	assert.Equal(t, "No changes.\n", FormatEdits(nil, 40))
}

func TestFormatEdits(t *testing.T) {
	out := FormatEdits([]Edit{
		{Kind: EditRemoved, Offset: 0, Text: "<reason>x</reason>"},
		{Kind: EditAdded, Offset: 18, Text: "Reason Summary:"},
	}, 40)
	assert.Equal(t, "- @0 <reason>x</reason>\n+ @18 Reason Summary:\n", out)
}
