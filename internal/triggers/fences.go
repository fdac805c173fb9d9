package triggers

import (
	"regexp"
	"sort"
)

var fencePattern = regexp.MustCompile("(?s)```.*?```")

// span is a half-open byte range [start, end).
type span struct {
	start, end int
}

// fenceSpans returns the byte ranges of paired triple-backtick code fences.
// A trailing unpaired fence does not open a range.
func fenceSpans(text string) []span {
	locs := fencePattern.FindAllStringIndex(text, -1)
	spans := make([]span, 0, len(locs))
	for _, loc := range locs {
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return spans
}

func insideAny(spans []span, pos int) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}

// offsetMap translates positions in an edited text back to the text it was cut from.
// Each cut is recorded in the coordinates of the text just before that cut.
type offsetMap struct {
	cuts []span // start = position, end = length removed
}

func (m *offsetMap) cut(at, n int) {
	if n > 0 {
		m.cuts = append(m.cuts, span{start: at, end: n})
	}
}

func (m *offsetMap) original(pos int) int {
	for i := len(m.cuts) - 1; i >= 0; i-- {
		if pos >= m.cuts[i].start {
			pos += m.cuts[i].end
		}
	}
	return pos
}

// deleteSpans removes ascending, non-overlapping spans and records each cut.
func deleteSpans(text string, spans []span, offsets *offsetMap) string {
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		text = text[:s.start] + text[s.end:]
		if offsets != nil {
			offsets.cut(s.start, s.end-s.start)
		}
	}
	return text
}

// mergeSpans sorts spans and joins overlapping ones, clamping to limit.
func mergeSpans(spans []span, limit int) []span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]span, 0, len(spans))
	for _, s := range spans {
		if s.end > limit {
			s.end = limit
		}
		if s.start < s.end {
			sorted = append(sorted, s)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var merged []span
	for _, s := range sorted {
		if n := len(merged); n > 0 && s.start <= merged[n-1].end {
			if s.end > merged[n-1].end {
				merged[n-1].end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
