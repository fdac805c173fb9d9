package services

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// EditKind says whether parsing removed or added text.
type EditKind string

// Edit kinds reported by ExplainParse.
const (
	EditRemoved EditKind = "removed"
	EditAdded   EditKind = "added"
)

// Edit is one change between a raw reply and its clean content.
// Offset is the byte offset in the raw reply where the change applies.
type Edit struct {
	Kind   EditKind `json:"kind"`
	Offset int      `json:"offset"`
	Text   string   `json:"text"`
}

// ExplainParse lists what the parser removed from raw to produce clean, and what it
// added (the fallback summary). Whitespace-only edits are dropped.
func ExplainParse(raw, clean string) []Edit {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(raw, clean, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var edits []Edit
	offset := 0
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			if strings.TrimSpace(diff.Text) != "" {
				edits = append(edits, Edit{Kind: EditRemoved, Offset: offset, Text: diff.Text})
			}
			offset += len(diff.Text)
		case diffmatchpatch.DiffInsert:
			if strings.TrimSpace(diff.Text) != "" {
				edits = append(edits, Edit{Kind: EditAdded, Offset: offset, Text: diff.Text})
			}
		case diffmatchpatch.DiffEqual:
			offset += len(diff.Text)
		}
	}
	return edits
}

// FormatEdits renders edits one per line, truncating long text.
func FormatEdits(edits []Edit, width int) string {
	if len(edits) == 0 {
		return "No changes.\n"
	}
	var b strings.Builder
	for _, edit := range edits {
		sign := "-"
		if edit.Kind == EditAdded {
			sign = "+"
		}
		fmt.Fprintf(&b, "%s @%d %s\n", sign, edit.Offset, Preview(edit.Text, width))
	}
	return b.String()
}
