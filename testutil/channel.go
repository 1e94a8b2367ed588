package testutil

import (
	"sync"
)

// FakeChannel is an in-memory text channel for tests. Reads return the most
// recently written or set text.
type FakeChannel struct {
	mu      sync.Mutex
	text    string
	readErr error
	reads   int
	writes  []string
}

// NewFakeChannel creates a channel holding text
func NewFakeChannel(text string) *FakeChannel {
	return &FakeChannel{text: text}
}

// Read returns the current text or the configured read error
func (f *FakeChannel) Read() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.text, nil
}

// Write replaces the current text and records the write
func (f *FakeChannel) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.writes = append(f.writes, text)
	return nil
}

// Set replaces the current text as if another program had copied it
func (f *FakeChannel) Set(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

// FailReads makes subsequent reads return err; nil restores normal reads
func (f *FakeChannel) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// Reads returns how many times Read was called
func (f *FakeChannel) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Writes returns a copy of everything written through Write
func (f *FakeChannel) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}
