package internal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetLogLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logLevel)

	SetLogLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logLevel)
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer func() { logLevel = originalLevel }()

	SetVerbose(true)
	assert.Equal(t, LogLevelDebug, logLevel)

	SetVerbose(false)
	assert.Equal(t, LogLevelInfo, logLevel)
}

func TestLogFunctions_RespectLevel(t *testing.T) {
	originalLevel := logLevel
	defer func() {
		logLevel = originalLevel
		SetLogOutput(os.Stderr)
	}()

	var buf bytes.Buffer
	SetLogOutput(&buf)
	SetLogLevel(LogLevelWarn)

	LogDebug("hidden debug")
	LogInfo("hidden info")
	LogWarn("visible warning")
	LogError("visible error")

	out := buf.String()
	assert.NotContains(t, out, "hidden debug")
	assert.NotContains(t, out, "hidden info")
	assert.Contains(t, out, "visible warning")
	assert.Contains(t, out, "visible error")
}

func TestLogLevels(t *testing.T) {
	assert.Less(t, LogLevelError, LogLevelWarn)
	assert.Less(t, LogLevelWarn, LogLevelInfo)
	assert.Less(t, LogLevelInfo, LogLevelDebug)
}
