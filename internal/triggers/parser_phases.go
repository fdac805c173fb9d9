package triggers

import (
	"regexp"
	"strings"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// Header lines echoed by the model: "🔴 <name> Trigger Active | Mode: <Category>".
// The first pattern also drops any preamble before the marker.
var (
	activationHeaderPattern = regexp.MustCompile(`(?is)^.*?🔴[^\n]*?trigger\s+active[^\n]*?mode\s*:[^\n]*(?:\n|$)`)
	followingHeaderPattern  = regexp.MustCompile(`(?i)^\s*(?:\*\*)?\s*🔴[^\n]*?trigger\s+active[^\n]*?mode\s*:[^\n]*(?:\n|$)`)
)

var categoryLabelPattern = buildCategoryLabelPattern()

// A leading line made only of a bold ALL-CAPS label, e.g. "**FINAL ANSWER:**".
var leadingBoldLabelPattern = regexp.MustCompile(`^\s*\*\*[ \t]*[A-Z]{2,}\b[A-Z0-9 \t&/_-]*:?[ \t]*\*\*[ \t]*:?[ \t]*(?:\n|$)`)

var (
	openTagPattern     = regexp.MustCompile(`<([A-Za-z0-9_-]+)>`)
	closeTagPattern    = regexp.MustCompile(`</([A-Za-z0-9_-]+)>`)
	excessBlankPattern = regexp.MustCompile(`\n{3,}`)
)

func buildCategoryLabelPattern() *regexp.Regexp {
	names := make([]string, 0, len(onyxtypes.AllCategories()))
	for _, c := range onyxtypes.AllCategories() {
		words := strings.Fields(c.DisplayName())
		for i, w := range words {
			if strings.EqualFold(w, "and") {
				words[i] = `(?:and|&)`
				continue
			}
			words[i] = regexp.QuoteMeta(w)
		}
		names = append(names, strings.Join(words, `[ \t]+`))
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:[*_]{1,3})?[ \t]*(?:` + strings.Join(names, "|") +
		`)[ \t]*(?:[*_]{1,3})?[ \t]*[:\-]?[ \t]*(?:[*_]{1,3})?[ \t]*(?:\n|$)`)
}

// stripActivationHeaders removes the leading activation header, and any header lines
// that immediately follow it, returning the remaining text and the bytes removed.
func stripActivationHeaders(text string) (string, int) {
	loc := activationHeaderPattern.FindStringIndex(text)
	if loc == nil {
		return text, 0
	}
	removed := loc[1]
	for removed < len(text) {
		next := followingHeaderPattern.FindStringIndex(text[removed:])
		if next == nil || next[1] == 0 {
			break
		}
		removed += next[1]
	}
	return text[removed:], removed
}

// stripCategoryLabels removes lines outside code fences that consist only of a
// category display name.
func stripCategoryLabels(text string, ctx *phaseContext) string {
	locs := categoryLabelPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	spans := make([]span, 0, len(locs))
	for _, loc := range locs {
		if ctx.fenced(loc[0]) {
			continue
		}
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return deleteSpans(text, spans, ctx.offsets)
}

// stripLeadingBoldLabels removes bold section-label lines at the start of the text,
// stopping at the first one that lies inside a code fence.
func stripLeadingBoldLabels(text string, ctx *phaseContext) string {
	for {
		loc := leadingBoldLabelPattern.FindStringIndex(text)
		if loc == nil || loc[1] == 0 || ctx.fenced(strings.Index(text, "**")) {
			return text
		}
		text = text[loc[1]:]
		ctx.offsets.cut(0, loc[1])
	}
}

// extractClosedSegments captures same-name <tag>...</tag> pairs whose tag is valid and
// whose opener is not inside a code fence. Each accepted opener is closed by the nearest
// following closer of the same name, matched case-insensitively. Openers inside an
// accepted pair belong to it; a rejected opener leaves any pair nested in it findable.
func extractClosedSegments(text string, ctx *phaseContext) ([]onyxtypes.TaggedSegment, []span) {
	segments := []onyxtypes.TaggedSegment{}
	var spans []span

	folded := asciiLower(text)
	cursor := 0
	for _, loc := range openTagPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] < cursor {
			continue
		}
		name := text[loc[2]:loc[3]]
		if !ctx.isValid(name) || ctx.fenced(loc[0]) {
			continue
		}
		closer := "</" + folded[loc[2]:loc[3]] + ">"
		rel := strings.Index(folded[loc[1]:], closer)
		if rel < 0 {
			continue
		}
		closeAt := loc[1] + rel
		end := closeAt + len(closer)

		segments = append(segments, onyxtypes.TaggedSegment{
			Tag:        Normalize(name),
			Content:    strings.TrimSpace(text[loc[1]:closeAt]),
			StartIndex: loc[0],
			EndIndex:   end,
		})
		spans = append(spans, span{start: loc[0], end: end})
		cursor = end
	}
	return segments, spans
}

type opener struct {
	name       string
	start, end int
}

// recoverUnclosedSegment promotes the last valid, unfenced opener that has no closer
// after it and whose tag was not already captured. Its content runs to the next unclosed
// opener or the end of the text.
func recoverUnclosedSegment(text string, captured []onyxtypes.TaggedSegment, ctx *phaseContext) (onyxtypes.TaggedSegment, bool) {
	folded := asciiLower(text)

	var unclosed []opener
	for _, loc := range openTagPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if !ctx.isValid(name) || ctx.fenced(loc[0]) {
			continue
		}
		if strings.Contains(folded[loc[1]:], "</"+asciiLower(name)+">") {
			continue
		}
		unclosed = append(unclosed, opener{name: name, start: loc[0], end: loc[1]})
	}

	seen := make(map[string]struct{}, len(captured))
	for _, seg := range captured {
		seen[seg.Tag] = struct{}{}
	}

	for i := len(unclosed) - 1; i >= 0; i-- {
		o := unclosed[i]
		tag := Normalize(o.name)
		if _, ok := seen[tag]; ok {
			continue
		}
		end := len(text)
		if i+1 < len(unclosed) {
			end = unclosed[i+1].start
		}
		return onyxtypes.TaggedSegment{
			Tag:        tag,
			Content:    strings.TrimSpace(text[o.end:end]),
			StartIndex: o.start,
			EndIndex:   end,
		}, true
	}
	return onyxtypes.TaggedSegment{}, false
}

// removeSpans cuts the captured regions out of the text, last region first.
func removeSpans(text string, spans []span) string {
	return deleteSpans(text, mergeSpans(spans, len(text)), nil)
}

// stripOrphanClosers removes leftover closing tags of valid tags outside code fences.
func stripOrphanClosers(text string, ctx *phaseContext) string {
	fences := fenceSpans(text)
	var spans []span
	for _, loc := range closeTagPattern.FindAllStringSubmatchIndex(text, -1) {
		if !ctx.isValid(text[loc[2]:loc[3]]) || insideAny(fences, loc[0]) {
			continue
		}
		spans = append(spans, span{start: loc[0], end: loc[1]})
	}
	return deleteSpans(text, spans, nil)
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(excessBlankPattern.ReplaceAllString(text, "\n\n"))
}

// asciiLower lower-cases ASCII letters only, keeping byte offsets stable.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
