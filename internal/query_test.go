package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		where string
		args  []interface{}
	}{
		{
			name:  "empty",
			query: "   ",
			where: "1=1",
		},
		{
			name:  "bare words",
			query: "recursion tail",
			where: `content LIKE ? ESCAPE '\' AND content LIKE ? ESCAPE '\'`,
			args:  []interface{}{"%recursion%", "%tail%"},
		},
		{
			name:  "negated word",
			query: "!stack",
			where: `content NOT LIKE ? ESCAPE '\'`,
			args:  []interface{}{"%stack%"},
		},
		{
			name:  "bare bang is a word",
			query: "!",
			where: `content LIKE ? ESCAPE '\'`,
			args:  []interface{}{"%!%"},
		},
		{
			name:  "field with alternatives",
			query: "service=Claude,Grok",
			where: `(service LIKE ? ESCAPE '\' OR service LIKE ? ESCAPE '\')`,
			args:  []interface{}{"%Claude%", "%Grok%"},
		},
		{
			name:  "negated field",
			query: "label=!noise,dup",
			where: `((json_extract(metadata, '$.label') NOT LIKE ? ESCAPE '\' OR json_extract(metadata, '$.label') IS NULL) AND (json_extract(metadata, '$.label') NOT LIKE ? ESCAPE '\' OR json_extract(metadata, '$.label') IS NULL))`,
			args:  []interface{}{"%noise%", "%dup%"},
		},
		{
			name:  "src alias and uppercase field",
			query: "SRC=prompt",
			where: `(json_extract(metadata, '$.source') LIKE ? ESCAPE '\')`,
			args:  []interface{}{"%prompt%"},
		},
		{
			name:  "unknown field is a word",
			query: "color=red",
			where: `content LIKE ? ESCAPE '\'`,
			args:  []interface{}{"%color=red%"},
		},
		{
			name:  "like wildcards are escaped",
			query: `100% a_b`,
			where: `content LIKE ? ESCAPE '\' AND content LIKE ? ESCAPE '\'`,
			args:  []interface{}{`%100\%%`, `%a\_b%`},
		},
		{
			name:  "field and word combine",
			query: "date=2026-02 recursion",
			where: `(detected_at LIKE ? ESCAPE '\') AND content LIKE ? ESCAPE '\'`,
			args:  []interface{}{"%2026-02%", "%recursion%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CompileQuery(tt.query)
			assert.Equal(t, tt.where, q.Where)
			assert.Equal(t, tt.args, q.Args)
		})
	}
}

func TestStore_Search(t *testing.T) {
	s, sid := newTestStore(t)

	save := func(service, content string, meta MessageMeta) {
		t.Helper()
		_, err := s.Save(sid, RoleAssistant, service, content, meta, "")
		require.NoError(t, err)
	}
	save("Claude", "Recursion is a function calling itself", MessageMeta{Source: SourceClipboard})
	save("Gemini", "Recursion needs a base case", MessageMeta{Source: SourceClipboard, Label: "summary"})
	save("Grok", "Loops are iteration", MessageMeta{Source: SourceClipboard, Label: "reference"})
	save("", "orphan recursion note", MessageMeta{})

	contents := func(msgs []Message) []string {
		out := make([]string, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, m.Content)
		}
		return out
	}

	t.Run("case insensitive word", func(t *testing.T) {
		msgs, err := s.Search("RECURSION", 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 3)
	})

	t.Run("service alternatives", func(t *testing.T) {
		msgs, err := s.Search("service=claude,grok", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Recursion is a function calling itself", "Loops are iteration"}, contents(msgs))
	})

	t.Run("negated label keeps unlabeled", func(t *testing.T) {
		msgs, err := s.Search("label=!reference", 0)
		require.NoError(t, err)
		assert.Len(t, msgs, 3)
		assert.NotContains(t, contents(msgs), "Loops are iteration")
	})

	t.Run("negated service keeps empty service", func(t *testing.T) {
		msgs, err := s.Search("service=!Claude recursion", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Recursion needs a base case", "orphan recursion note"}, contents(msgs))
	})

	t.Run("negated word", func(t *testing.T) {
		msgs, err := s.Search("recursion !base", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Recursion is a function calling itself", "orphan recursion note"}, contents(msgs))
	})

	t.Run("negated service excludes every listed value", func(t *testing.T) {
		msgs, err := s.Search("service=!Grok,Gemini", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Recursion is a function calling itself", "orphan recursion note"}, contents(msgs))
	})

	t.Run("label alternatives", func(t *testing.T) {
		msgs, err := s.Search("label=summary,reference", 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Recursion needs a base case", "Loops are iteration"}, contents(msgs))
	})

	t.Run("limit", func(t *testing.T) {
		msgs, err := s.Search("", 2)
		require.NoError(t, err)
		assert.Len(t, msgs, 2)
	})

	t.Run("literal percent does not match everything", func(t *testing.T) {
		msgs, err := s.Search("%", 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}
