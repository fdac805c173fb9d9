package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"
)

// DefaultPreviewWidth is the width of a collapsed segment preview.
const DefaultPreviewWidth = 72

// categoryColors gives each category its panel accent.
var categoryColors = map[onyxtypes.Category]lipgloss.Color{
	onyxtypes.CategoryReasoning:    lipgloss.Color("33"),
	onyxtypes.CategoryResearch:     lipgloss.Color("37"),
	onyxtypes.CategoryPlanning:     lipgloss.Color("214"),
	onyxtypes.CategoryWriting:      lipgloss.Color("177"),
	onyxtypes.CategoryCoding:       lipgloss.Color("42"),
	onyxtypes.CategoryCreative:     lipgloss.Color("205"),
	onyxtypes.CategoryLearning:     lipgloss.Color("110"),
	onyxtypes.CategoryData:         lipgloss.Color("81"),
	onyxtypes.CategoryProductivity: lipgloss.Color("149"),
}

// CategoryLookup resolves the category of a canonical tag, for panel styling.
type CategoryLookup interface {
	CategoryForTag(tag string) (onyxtypes.Category, bool)
}

// SegmentRendererService renders tagged segments as terminal panels, one per segment,
// styled by the category of the trigger that produced the tag.
type SegmentRendererService struct {
	initialized bool
	renderer    *lipgloss.Renderer
	width       int
	plain       bool
}

// NewSegmentRendererService creates a renderer writing styles for w.
func NewSegmentRendererService(w io.Writer) *SegmentRendererService {
	return &SegmentRendererService{
		renderer: lipgloss.NewRenderer(w),
		width:    80,
	}
}

// Name returns the service name "segment_renderer" for registration.
func (s *SegmentRendererService) Name() string {
	return "segment_renderer"
}

// Initialize detects whether the output supports colour.
func (s *SegmentRendererService) Initialize() error {
	logger.ServiceOperation("segment_renderer", "initialize", "starting")
	s.plain = s.renderer.ColorProfile() == termenv.Ascii
	s.initialized = true
	logger.ServiceOperation("segment_renderer", "initialize", "completed", "plain", s.plain)
	return nil
}

// SetWidth sets the panel width.
func (s *SegmentRendererService) SetWidth(width int) {
	if width > 20 {
		s.width = width
	}
}

// SetPlain forces plain-text output.
func (s *SegmentRendererService) SetPlain(plain bool) {
	s.plain = plain
}

// RenderSegments renders every segment as a titled panel. With expanded false only a
// single-line preview of each segment is shown.
func (s *SegmentRendererService) RenderSegments(segments []onyxtypes.TaggedSegment, lookup CategoryLookup, expanded bool) string {
	if !s.initialized {
		logger.Error("SegmentRendererService not initialized")
		return ""
	}
	if len(segments) == 0 {
		return ""
	}

	var result strings.Builder
	for i, segment := range segments {
		if i > 0 {
			result.WriteString("\n")
		}
		category, _ := lookupCategory(lookup, segment.Tag)
		result.WriteString(s.renderSegment(segment, category, expanded))
		result.WriteString("\n")
		logger.Debug("Segment rendered", "tag", segment.Tag, "category", category, "content_length", len(segment.Content))
	}
	return result.String()
}

// RenderAnswer renders the clean content below an optional separator line.
func (s *SegmentRendererService) RenderAnswer(content string, hasSegments bool) string {
	if !s.initialized {
		logger.Error("SegmentRendererService not initialized")
		return ""
	}
	if !hasSegments {
		return content
	}
	rule := strings.Repeat("─", s.width)
	if s.plain {
		rule = strings.Repeat("-", s.width)
		return rule + "\n" + content
	}
	return s.renderer.NewStyle().Faint(true).Render(rule) + "\n" + content
}

func (s *SegmentRendererService) renderSegment(segment onyxtypes.TaggedSegment, category onyxtypes.Category, expanded bool) string {
	title := fmt.Sprintf("<%s>", segment.Tag)
	if category != "" {
		title = fmt.Sprintf("%s · %s", title, category.DisplayName())
	}

	body := strings.TrimSpace(segment.Content)
	if !expanded {
		body = Preview(body, s.width-4)
	}

	if s.plain {
		return fmt.Sprintf("[%s]\n%s", title, body)
	}

	accent, ok := categoryColors[category]
	if !ok {
		accent = lipgloss.Color("240")
	}
	titleStyle := s.renderer.NewStyle().Bold(true).Foreground(accent)
	panel := s.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(s.width - 2)

	return panel.Render(titleStyle.Render(title) + "\n" + body)
}

// Preview collapses text onto one line and truncates it to width cells.
func Preview(text string, width int) string {
	line := strings.Join(strings.Fields(ansi.Strip(text)), " ")
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	return ansi.Truncate(line, width, "…")
}

func lookupCategory(lookup CategoryLookup, tag string) (onyxtypes.Category, bool) {
	if lookup == nil {
		return "", false
	}
	return lookup.CategoryForTag(tag)
}

// IsInitialized returns true if the service has been initialized.
func (s *SegmentRendererService) IsInitialized() bool {
	return s.initialized
}
