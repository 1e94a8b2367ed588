package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/chat-rotator/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLExporter_Export(t *testing.T) {
	msgs := internal.CreateTestExchange("20250314-092653", "What is a monad?", "Claude", "Gemini")

	var buf bytes.Buffer
	require.NoError(t, (&JSONLExporter{}).Export(msgs, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "User", first["service"])
	assert.Equal(t, "question", first["label"])
	assert.Equal(t, "20250314-092653", first["ts"])

	var reply map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &reply))
	assert.Equal(t, "Gemini", reply["service"])
	assert.Equal(t, "Answer from Gemini", reply["content"])
	_, hasLabel := reply["label"]
	assert.False(t, hasLabel, "unlabeled replies should omit the label key")
}

func TestJSONLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLExporter{}).Export(nil, &buf))
	assert.Empty(t, buf.String())
}
