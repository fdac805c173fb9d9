package onyxtypes

// TaggedSegment is a named working section extracted from an AI reply.
// StartIndex and EndIndex are byte offsets of the full tagged span in the text the
// parser worked on (after activation headers were stripped).
type TaggedSegment struct {
	Tag        string `json:"tag"`
	Content    string `json:"content"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

// ParseResult is the user-facing answer plus the side-channel segments.
type ParseResult struct {
	CleanContent   string          `json:"cleanContent"`
	TaggedSegments []TaggedSegment `json:"taggedSegments"`
}

// HasSegments reports whether any tagged segment was captured.
func (r ParseResult) HasSegments() bool {
	return len(r.TaggedSegments) > 0
}

// SegmentsByTag returns the segments with the given tag in source order.
func (r ParseResult) SegmentsByTag(tag string) []TaggedSegment {
	var out []TaggedSegment
	for _, seg := range r.TaggedSegments {
		if seg.Tag == tag {
			out = append(out, seg)
		}
	}
	return out
}
