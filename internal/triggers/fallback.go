package triggers

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// FallbackPlaceholder is shown when nothing usable can be lifted out of a segment.
const FallbackPlaceholder = "The full response is in the expandable section above."

// Headings such as "## Conclusion" and phrases such as "In summary," or "Therefore,".
var conclusionMarkerPattern = regexp.MustCompile(
	`(?im)(?:^[ \t]*#{1,6}[ \t]*(?:\*\*)?[ \t]*(?:conclusion|summary|final answer|key takeaways?)\b` +
		`|^[ \t]*\*\*(?:conclusion|summary|final answer)[:]?\*\*` +
		`|\b(?:in summary|in conclusion|to summarize|to sum up|therefore|overall|conclusion)[,:])`)

var paragraphBreakPattern = regexp.MustCompile(`\n[ \t]*\n`)

// fallbackContent replaces degenerate clean content with something lifted from the
// first segment. Content that is long enough, or a reply without segments, is returned as is.
func fallbackContent(clean string, segments []onyxtypes.TaggedSegment, minClean, minParagraph int) string {
	if len(segments) == 0 || utf8.RuneCountInString(clean) >= minClean {
		return clean
	}

	first := segments[0]
	label := titleTag(first.Tag)

	if block := conclusionBlock(first.Content); block != "" {
		return fmt.Sprintf("%s Summary:\n\n%s", label, block)
	}
	if para := lastParagraph(first.Content); utf8.RuneCountInString(para) > minParagraph {
		return fmt.Sprintf("%s Analysis:\n\n%s", label, para)
	}
	return FallbackPlaceholder
}

// conclusionBlock returns the text from the last conclusion marker to the end.
func conclusionBlock(content string) string {
	locs := conclusionMarkerPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return ""
	}
	return strings.TrimSpace(content[locs[len(locs)-1][0]:])
}

func lastParagraph(content string) string {
	parts := paragraphBreakPattern.Split(content, -1)
	for i := len(parts) - 1; i >= 0; i-- {
		if p := strings.TrimSpace(parts[i]); p != "" {
			return p
		}
	}
	return ""
}

func titleTag(tag string) string {
	r, size := utf8.DecodeRuneInString(tag)
	if r == utf8.RuneError {
		return tag
	}
	return string(unicode.ToUpper(r)) + tag[size:]
}
