package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowProgress(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr bool
	}{
		{"successful function", func() error { return nil }, false},
		{"function with error", func() error { return errors.New("test error") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			called := false
			err := ShowProgress(context.Background(), &buf, "Testing", func() error {
				called = true
				return tt.fn()
			})
			assert.True(t, called)
			assert.Equal(t, tt.wantErr, err != nil)
			// A buffer is not a terminal, so nothing is drawn
			assert.Empty(t, buf.String())
		})
	}
}

func TestPrintHelpers_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "done")
	PrintInfo(&buf, "note")
	PrintWarning(&buf, "careful")
	PrintError(&buf, "broken")

	assert.Equal(t, "done\nnote\nWARNING: careful\nERROR: broken\n", buf.String())
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
