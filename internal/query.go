package internal

import (
	"regexp"
	"strings"
)

// DefaultSearchLimit bounds search results when the caller passes no limit
const DefaultSearchLimit = 200

// queryFields maps filter field names to the SQL expression they match against
var queryFields = map[string]string{
	"service": "service",
	"label":   "json_extract(metadata, '$.label')",
	"content": "content",
	"source":  "json_extract(metadata, '$.source')",
	"src":     "json_extract(metadata, '$.source')",
	"date":    "detected_at",
}

var fieldTokenRegex = regexp.MustCompile(`^(\w+)=(!?)(.+)$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CompiledQuery is a WHERE clause and its bound arguments
type CompiledQuery struct {
	Where string
	Args  []interface{}
}

// CompileQuery turns a filter expression into a WHERE clause. Tokens are
// separated by whitespace and AND-combined:
//
//	field=a,b    field contains a OR b
//	field=!a,b   field contains neither a NOR b (missing values pass)
//	word / !word content contains / does not contain word
//
// Unknown fields are treated as bare words, '=' included. It never fails.
func CompileQuery(query string) CompiledQuery {
	var clauses []string
	var args []interface{}

	for _, token := range strings.Fields(query) {
		if clause, tokenArgs, ok := compileFieldToken(token); ok {
			clauses = append(clauses, clause)
			args = append(args, tokenArgs...)
			continue
		}

		if strings.HasPrefix(token, "!") && len(token) > 1 {
			clauses = append(clauses, `content NOT LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(token[1:]))
		} else {
			clauses = append(clauses, `content LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(token))
		}
	}

	if len(clauses) == 0 {
		return CompiledQuery{Where: "1=1"}
	}
	return CompiledQuery{Where: strings.Join(clauses, " AND "), Args: args}
}

func compileFieldToken(token string) (string, []interface{}, bool) {
	m := fieldTokenRegex.FindStringSubmatch(token)
	if m == nil {
		return "", nil, false
	}
	column, ok := queryFields[strings.ToLower(m[1])]
	if !ok {
		return "", nil, false
	}

	var values []string
	for _, v := range strings.Split(m[3], ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return "", nil, false
	}

	negate := m[2] == "!"
	parts := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		if negate {
			parts = append(parts, "("+column+` NOT LIKE ? ESCAPE '\' OR `+column+" IS NULL)")
		} else {
			parts = append(parts, column+` LIKE ? ESCAPE '\'`)
		}
		args = append(args, likePattern(v))
	}

	joiner := " OR "
	if negate {
		joiner = " AND "
	}
	return "(" + strings.Join(parts, joiner) + ")", args, true
}

func likePattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

// Search returns messages matching a filter expression, newest first. A
// non-positive limit uses DefaultSearchLimit.
func (s *Store) Search(query string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := CompileQuery(query)
	sqlText := "SELECT " + messageColumns + " FROM messages WHERE " + q.Where + " ORDER BY detected_at DESC, id DESC LIMIT ?"
	args := append(q.Args, limit)
	return s.queryMessages(sqlText, args...)
}
