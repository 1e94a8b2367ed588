package internal

import "github.com/atotto/clipboard"

// TextChannel is the human-mediated channel that replies arrive through and
// prompts leave through. Its content may be stale or written by anyone.
type TextChannel interface {
	Read() (string, error)
	Write(text string) error
}

// SystemClipboard is the TextChannel backed by the OS clipboard
type SystemClipboard struct{}

// NewSystemClipboard returns the OS clipboard channel
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Read returns the current clipboard text
func (SystemClipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", &ChannelError{Op: "read", Err: err}
	}
	return text, nil
}

// Write replaces the clipboard text
func (SystemClipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return &ChannelError{Op: "write", Err: err}
	}
	return nil
}

// ClipboardSupported reports whether a clipboard utility is available
func ClipboardSupported() bool {
	return !clipboard.Unsupported
}
