package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
)

// clipboardWriter is the platform clipboard.
type clipboardWriter interface {
	WriteText(text string) error
}

// ClipboardService copies clean answers to the system clipboard. When the clipboard
// is unavailable the text is kept in memory and reported as not copied.
type ClipboardService struct {
	initialized bool
	open        func() (clipboardWriter, error)
	writer      clipboardWriter
	mu          sync.Mutex
	last        string
}

// NewClipboardService creates a ClipboardService backed by the platform clipboard.
func NewClipboardService() *ClipboardService {
	return &ClipboardService{open: openSystemClipboard}
}

// Name returns the service name "clipboard" for registration.
func (c *ClipboardService) Name() string {
	return "clipboard"
}

// Initialize opens the system clipboard. An unavailable clipboard is not an error.
func (c *ClipboardService) Initialize() error {
	writer, err := c.open()
	if err != nil {
		logger.Debug("System clipboard unavailable", "error", err)
		writer = nil
	}
	c.writer = writer
	c.initialized = true
	logger.ServiceOperation("clipboard", "initialize", "available", c.Available())
	return nil
}

// Available reports whether the system clipboard can be written.
func (c *ClipboardService) Available() bool {
	return c.writer != nil
}

// Copy stores text as the last copied answer and writes it to the system clipboard.
// It returns false, without error, when only the in-memory copy was updated.
func (c *ClipboardService) Copy(text string) (bool, error) {
	if !c.initialized {
		return false, fmt.Errorf("clipboard service not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return false, fmt.Errorf("nothing to copy")
	}

	c.mu.Lock()
	c.last = text
	c.mu.Unlock()

	if c.writer == nil {
		return false, nil
	}
	if err := c.writer.WriteText(text); err != nil {
		logger.Debug("Clipboard write failed, kept in memory", "error", err)
		return false, nil
	}
	return true, nil
}

// Last returns the most recently copied text.
func (c *ClipboardService) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
