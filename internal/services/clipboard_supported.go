//go:build !linux

package services

import "golang.design/x/clipboard"

// systemClipboard writes plain text through golang.design/x/clipboard.
type systemClipboard struct{}

func openSystemClipboard() (clipboardWriter, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return systemClipboard{}, nil
}

func (systemClipboard) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
