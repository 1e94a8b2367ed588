package internal

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"
)

// questionHashPrefixLen is the number of runes of a question that feed its hash
const questionHashPrefixLen = 80

const messageColumns = "id, session_id, ts, role, service, content, content_hash, detected_at, metadata"

// Store persists sessions and messages with content-addressed deduplication.
// Every mutating call holds writeMu for its whole duration, which makes each
// check-then-insert sequence atomic. Reads do not take the lock.
type Store struct {
	db      *sql.DB
	path    string
	writeMu sync.Mutex
	now     func() time.Time
}

// NewStore creates a new Store over an opened and migrated database
func NewStore(db *sql.DB, path string) *Store {
	return &Store{db: db, path: path, now: time.Now}
}

// DB returns the underlying database handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplyHash is the content hash of a captured reply
func ReplyHash(service, content string) string {
	return hashString(service + ":" + content)
}

// QuestionHash is the content hash of a recorded question
func QuestionHash(ts, content string) string {
	return hashString("Q:" + ts + ":" + truncateRunes(content, questionHashPrefixLen))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Save stores content unless a message with the same hash already exists.
// It returns true when a row was inserted and false for a duplicate.
func (s *Store) Save(sessionID int64, role Role, service, content string, meta MessageMeta, tsHint string) (bool, error) {
	if err := meta.Validate(); err != nil {
		return false, err
	}
	metaJSON, err := meta.encode()
	if err != nil {
		return false, err
	}
	hash := ReplyHash(service, content)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	exists, err := s.hashExists(hash)
	if err != nil {
		return false, err
	}
	if exists {
		LogDebug("Duplicate content for %s (hash %s)", service, hash[:12])
		return false, nil
	}

	_, err = s.db.Exec(
		"INSERT INTO messages (session_id, ts, role, service, content, content_hash, detected_at, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		sessionID, tsHint, string(role), service, content, hash, formatTime(s.now()), metaJSON,
	)
	if err != nil {
		return false, &StorageError{Path: s.path, Op: "insert", Err: err}
	}
	return true, nil
}

// SaveQuestion records an outbound question. Recording the same question twice
// returns the id of the existing row.
func (s *Store) SaveQuestion(sessionID int64, ts, content, framework, viewpoint, format string) (int64, error) {
	meta := MessageMeta{
		Label:     LabelQuestion,
		Source:    SourcePrompt,
		TS:        ts,
		Framework: framework,
		Viewpoint: viewpoint,
		Format:    format,
	}
	metaJSON, err := meta.encode()
	if err != nil {
		return 0, err
	}
	hash := QuestionHash(ts, content)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var id int64
	err = s.db.QueryRow("SELECT id FROM messages WHERE content_hash = ?", hash).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, &StorageError{Path: s.path, Op: "query", Err: err}
	}

	res, err := s.db.Exec(
		"INSERT INTO messages (session_id, ts, role, service, content, content_hash, detected_at, metadata) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		sessionID, ts, string(RoleUser), QuestionService, content, hash, formatTime(s.now()), metaJSON,
	)
	if err != nil {
		return 0, &StorageError{Path: s.path, Op: "insert", Err: err}
	}
	return res.LastInsertId()
}

// RecordLocalResult stores a reply produced by a local completion endpoint
func (s *Store) RecordLocalResult(sessionID int64, service, model, content string) (bool, error) {
	return s.Save(sessionID, RoleAssistant, service, content, MessageMeta{Source: SourceLocalAPI, Model: model}, "")
}

func (s *Store) hashExists(hash string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM messages WHERE content_hash = ? LIMIT 1", hash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return true, nil
}

// SetLabel sets or, when label is empty, clears the label of a message.
// Missing ids are ignored.
func (s *Store) SetLabel(id int64, label string) error {
	if label != "" && !IsKnownLabel(label) {
		return fmt.Errorf("unknown label %q", label)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var raw string
	err := s.db.QueryRow("SELECT metadata FROM messages WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &StorageError{Path: s.path, Op: "query", Err: err}
	}

	meta := decodeMeta(raw)
	meta.Label = label
	metaJSON, err := meta.encode()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("UPDATE messages SET metadata = ? WHERE id = ?", metaJSON, id); err != nil {
		return &StorageError{Path: s.path, Op: "update", Err: err}
	}
	return nil
}

// UpdateService renames the service of a message without consulting the registry
func (s *Store) UpdateService(id int64, service string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec("UPDATE messages SET service = ? WHERE id = ?", service, id); err != nil {
		return &StorageError{Path: s.path, Op: "update", Err: err}
	}
	return nil
}

// Delete removes a single message
func (s *Store) Delete(id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.Exec("DELETE FROM messages WHERE id = ?", id); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

const unknownUnlabeledWhere = "service = 'Unknown' AND (json_extract(metadata, '$.label') IS NULL OR json_extract(metadata, '$.label') = '')"

// CountUnknown counts unlabeled messages from an unknown service. A zero
// sessionID counts across all sessions.
func (s *Store) CountUnknown(sessionID int64) (int, error) {
	query := "SELECT COUNT(*) FROM messages WHERE " + unknownUnlabeledWhere
	args := []interface{}{}
	if sessionID != 0 {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return n, nil
}

// DeleteUnknown removes unlabeled messages from an unknown service and returns
// how many were removed. A zero sessionID purges across all sessions.
func (s *Store) DeleteUnknown(sessionID int64) (int64, error) {
	query := "DELETE FROM messages WHERE " + unknownUnlabeledWhere
	args := []interface{}{}
	if sessionID != 0 {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return res.RowsAffected()
}

// ResetMessages removes all messages and sessions; services and settings are kept
func (s *Store) ResetMessages() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, stmt := range []string{"DELETE FROM messages", "DELETE FROM sessions"} {
		if _, err := s.db.Exec(stmt); err != nil {
			return &StorageError{Path: s.path, Op: "delete", Err: err}
		}
	}
	return nil
}

// Stats summarizes the store
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByService: make(map[string]int)}

	counts := []struct {
		dst   *int
		query string
	}{
		{&stats.Total, "SELECT COUNT(*) FROM messages"},
		{&stats.Questions, "SELECT COUNT(*) FROM messages WHERE json_extract(metadata, '$.label') = 'question'"},
		{&stats.UnknownUnlabeled, "SELECT COUNT(*) FROM messages WHERE " + unknownUnlabeledWhere},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, &StorageError{Path: s.path, Op: "query", Err: err}
		}
	}
	stats.Active = stats.Total - stats.UnknownUnlabeled

	rows, err := s.db.Query(
		"SELECT service, COUNT(*) FROM messages" +
			" WHERE json_extract(metadata, '$.label') IS NULL OR json_extract(metadata, '$.label') != 'question'" +
			" GROUP BY service ORDER BY COUNT(*) DESC",
	)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var service string
		var n int
		if err := rows.Scan(&service, &n); err != nil {
			return nil, &StorageError{Path: s.path, Op: "query", Err: err}
		}
		stats.ByService[service] = n
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return stats, nil
}

// Get returns a single message or ErrNotFound
func (s *Store) Get(id int64) (*Message, error) {
	row := s.db.QueryRow("SELECT "+messageColumns+" FROM messages WHERE id = ?", id)
	msg, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return msg, nil
}

// Messages returns the messages of a session oldest-first. A non-positive
// limit returns all of them.
func (s *Store) Messages(sessionID int64, limit int) ([]Message, error) {
	query := "SELECT " + messageColumns + " FROM messages WHERE session_id = ? ORDER BY detected_at ASC, id ASC"
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryMessages(query, args...)
}

// AllMessages returns every stored message oldest-first
func (s *Store) AllMessages() ([]Message, error) {
	return s.queryMessages("SELECT " + messageColumns + " FROM messages ORDER BY detected_at ASC, id ASC")
}

// FindQuestion looks up the question recorded with timestamp ts, preferring
// one whose content starts with questionPrefix.
func (s *Store) FindQuestion(ts, questionPrefix string) (*Message, error) {
	base := "SELECT " + messageColumns + " FROM messages WHERE ts = ? AND json_extract(metadata, '$.label') = 'question'"

	if questionPrefix != "" {
		msgs, err := s.queryMessages(base+" AND substr(content, 1, ?) = ? LIMIT 1", ts, utf8.RuneCountInString(questionPrefix), questionPrefix)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			return &msgs[0], nil
		}
	}

	msgs, err := s.queryMessages(base+" LIMIT 1", ts)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("question at %s: %w", ts, ErrNotFound)
	}
	return &msgs[0], nil
}

func (s *Store) queryMessages(query string, args ...interface{}) ([]Message, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, &StorageError{Path: s.path, Op: "query", Err: err}
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return messages, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(r rowScanner) (*Message, error) {
	var (
		msg        Message
		role       string
		detectedAt string
		meta       string
	)
	if err := r.Scan(&msg.ID, &msg.SessionID, &msg.TS, &role, &msg.Service, &msg.Content, &msg.ContentHash, &detectedAt, &meta); err != nil {
		return nil, err
	}
	msg.Role = Role(role)
	msg.DetectedAt = parseTime(detectedAt)
	msg.Meta = decodeMeta(meta)
	return &msg, nil
}
