package internal

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a message, session or service does not exist
var ErrNotFound = errors.New("not found")

// StorageError represents errors accessing the message store
type StorageError struct {
	Path string
	Op   string // "open", "migrate", "insert", "query", "update", "delete"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError represents errors loading configuration
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ChannelError represents errors reading from or writing to the text channel
type ChannelError struct {
	Op  string // "read", "write"
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("text channel error: %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
