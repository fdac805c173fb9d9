//go:build linux

package services

import "errors"

// Linux builds skip the cgo X11 clipboard so the binary runs on headless hosts.
var errNoSystemClipboard = errors.New("system clipboard not supported on linux builds")

func openSystemClipboard() (clipboardWriter, error) {
	return nil, errNoSystemClipboard
}
