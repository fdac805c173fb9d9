package services

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
)

// MarkdownStyles are the glamour styles accepted for render.style.
var MarkdownStyles = []string{"auto", "dark", "light", "notty", "ascii", "dracula", "tokyo-night", "pink"}

// IsMarkdownStyle reports whether style is one of MarkdownStyles.
func IsMarkdownStyle(style string) bool {
	for _, s := range MarkdownStyles {
		if s == style {
			return true
		}
	}
	return false
}

// MarkdownService renders clean answers as terminal markdown.
type MarkdownService struct {
	initialized bool
	renderer    *glamour.TermRenderer
	style       string
	width       int
}

// NewMarkdownService creates a MarkdownService using the auto style and an 80 column wrap.
func NewMarkdownService() *MarkdownService {
	return &MarkdownService{
		style: "auto",
		width: 80,
	}
}

// Name returns the service name "markdown" for registration.
func (m *MarkdownService) Name() string {
	return "markdown"
}

// Initialize builds the renderer for the current style and width.
func (m *MarkdownService) Initialize() error {
	renderer, err := newTermRenderer(m.style, m.width)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	m.renderer = renderer
	m.initialized = true
	logger.ServiceOperation("markdown", "initialize", "style", m.style, "width", m.width)
	return nil
}

// Configure rebuilds the renderer. An empty style or zero width keeps the current value.
func (m *MarkdownService) Configure(style string, width int) error {
	if !m.initialized {
		return fmt.Errorf("markdown service not initialized")
	}
	if style == "" {
		style = m.style
	}
	if width == 0 {
		width = m.width
	}
	if width < 0 {
		return fmt.Errorf("word wrap width must be positive, got %d", width)
	}
	if !IsMarkdownStyle(style) {
		return fmt.Errorf("unknown markdown style %q (expected %s)", style, strings.Join(MarkdownStyles, ", "))
	}
	if style == m.style && width == m.width {
		return nil
	}

	renderer, err := newTermRenderer(style, width)
	if err != nil {
		return fmt.Errorf("failed to create %s renderer: %w", style, err)
	}
	m.renderer = renderer
	m.style = style
	m.width = width
	logger.ServiceOperation("markdown", "configure", "style", style, "width", width)
	return nil
}

// Style returns the active style name.
func (m *MarkdownService) Style() string {
	return m.style
}

// Render renders markdown content to ANSI terminal output.
func (m *MarkdownService) Render(markdown string) (string, error) {
	if !m.initialized {
		return "", fmt.Errorf("markdown service not initialized")
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("markdown content cannot be empty")
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// RenderAnswer renders a clean answer without the blank lines glamour puts around it.
// The answer is returned unchanged when it is blank or cannot be rendered.
func (m *MarkdownService) RenderAnswer(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return answer
	}
	rendered, err := m.Render(answer)
	if err != nil {
		logger.Debug("Markdown rendering failed, using plain answer", "error", err)
		return answer
	}
	return strings.Trim(rendered, "\n")
}

func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOption := glamour.WithAutoStyle()
	if style != "auto" {
		styleOption = glamour.WithStandardStyle(style)
	}
	return glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
}
