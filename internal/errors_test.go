package internal

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypes(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"storage", &StorageError{Path: "/tmp/a.db", Op: "insert", Err: base}, "storage error: insert /tmp/a.db: boom"},
		{"config", &ConfigError{Path: "/tmp/c.yaml", Err: base}, "config error [/tmp/c.yaml]: boom"},
		{"channel", &ChannelError{Op: "read", Err: base}, "text channel error: read: boom"},
		{"export", &ExportError{Format: "jsonl", Path: "out.jsonl", Err: base}, "export error [jsonl] out.jsonl: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.msg, tt.err.Error())
			assert.ErrorIs(t, tt.err, base)
		})
	}
}

func TestErrorTypes_As(t *testing.T) {
	var err error = &ConfigError{Path: "x", Err: fs.ErrNotExist}

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var storageErr *StorageError
	assert.False(t, errors.As(err, &storageErr))
}
