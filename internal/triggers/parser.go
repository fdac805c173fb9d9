package triggers

import (
	"sort"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

const (
	// DefaultMinCleanLength is the clean-content length below which a fallback is
	// synthesized from the first segment.
	DefaultMinCleanLength = 10

	// DefaultMinFallbackParagraph is the length a segment's last paragraph must exceed
	// to be used as fallback content.
	DefaultMinFallbackParagraph = 50
)

// TagSource supplies the canonical tags the parser treats as meaningful.
// *Registry implements it.
type TagSource interface {
	ValidTags() map[string]struct{}
}

// Parser splits a tagged AI reply into clean content and named segments.
type Parser struct {
	tags                 TagSource
	minCleanLength       int
	minFallbackParagraph int
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithMinCleanLength sets the fallback threshold for clean content.
func WithMinCleanLength(n int) ParserOption {
	return func(p *Parser) {
		if n >= 0 {
			p.minCleanLength = n
		}
	}
}

// WithMinFallbackParagraph sets the length a fallback paragraph must exceed.
func WithMinFallbackParagraph(n int) ParserOption {
	return func(p *Parser) {
		if n >= 0 {
			p.minFallbackParagraph = n
		}
	}
}

// NewParser creates a parser that recognizes the tags of the given source.
func NewParser(tags TagSource, opts ...ParserOption) *Parser {
	p := &Parser{
		tags:                 tags,
		minCleanLength:       DefaultMinCleanLength,
		minFallbackParagraph: DefaultMinFallbackParagraph,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseAny parses v when it is a string; any other value yields an empty result.
func (p *Parser) ParseAny(v any) onyxtypes.ParseResult {
	text, ok := v.(string)
	if !ok {
		return emptyResult()
	}
	return p.Parse(text)
}

// Parse runs the extraction phases over a complete (or partially streamed) reply.
// It never fails; malformed input degrades to whatever text can be shown.
// Segment offsets refer to the reply after activation headers and labels are stripped.
func (p *Parser) Parse(text string) onyxtypes.ParseResult {
	if text == "" {
		return emptyResult()
	}

	ctx := newPhaseContext(text, p.tags.ValidTags())

	work, removed := stripActivationHeaders(text)
	ctx.offsets.cut(0, removed)
	work = stripCategoryLabels(work, ctx)
	work = stripLeadingBoldLabels(work, ctx)

	segments, spans := extractClosedSegments(work, ctx)
	if seg, ok := recoverUnclosedSegment(work, segments, ctx); ok {
		segments = append(segments, seg)
		spans = append(spans, span{start: seg.StartIndex, end: seg.EndIndex})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartIndex < segments[j].StartIndex
	})

	clean := removeSpans(work, spans)
	clean = stripOrphanClosers(clean, ctx)
	clean = normalizeWhitespace(clean)
	clean = fallbackContent(clean, segments, p.minCleanLength, p.minFallbackParagraph)

	return onyxtypes.ParseResult{
		CleanContent:   clean,
		TaggedSegments: segments,
	}
}

func emptyResult() onyxtypes.ParseResult {
	return onyxtypes.ParseResult{
		CleanContent:   "",
		TaggedSegments: []onyxtypes.TaggedSegment{},
	}
}

// phaseContext carries what every phase needs to judge a candidate tag.
type phaseContext struct {
	valid   map[string]struct{}
	fences  []span // computed over the original reply
	offsets *offsetMap
}

func newPhaseContext(original string, valid map[string]struct{}) *phaseContext {
	return &phaseContext{
		valid:   valid,
		fences:  fenceSpans(original),
		offsets: &offsetMap{},
	}
}

func (c *phaseContext) isValid(name string) bool {
	tag := Normalize(name)
	if tag == "" {
		return false
	}
	_, ok := c.valid[tag]
	return ok
}

// fenced reports whether a working-text position falls inside a code fence of the
// original reply.
func (c *phaseContext) fenced(pos int) bool {
	return insideAny(c.fences, c.offsets.original(pos))
}
