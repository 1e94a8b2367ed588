package internal

import (
	"database/sql"
	"errors"
	"fmt"
)

// dayKeyLayout formats the day key that ties a session to a calendar day
const dayKeyLayout = "2006-01-02"

// GetOrCreateSession reuses the newest session whose name carries today's day
// key, touching its updated_at, or creates a new one. An empty name yields
// "Session YYYY-MM-DD".
func (s *Store) GetOrCreateSession(name string) (*Session, error) {
	now := s.now()
	today := now.Format(dayKeyLayout)
	if name == "" {
		name = fmt.Sprintf("Session %s", today)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	sess, err := s.scanSession(s.db.QueryRow(
		"SELECT id, name, created_at, updated_at FROM sessions WHERE instr(name, ?) > 0 ORDER BY id DESC LIMIT 1",
		today,
	))
	switch {
	case err == nil:
		if _, err := s.db.Exec("UPDATE sessions SET updated_at = ? WHERE id = ?", formatTime(now), sess.ID); err != nil {
			return nil, &StorageError{Path: s.path, Op: "update", Err: err}
		}
		sess.UpdatedAt = parseTime(formatTime(now))
		return sess, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}

	stamp := formatTime(now)
	res, err := s.db.Exec("INSERT INTO sessions (name, created_at, updated_at) VALUES (?, ?, ?)", name, stamp, stamp)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "insert", Err: err}
	}
	LogDebug("Created session %d (%s)", id, name)
	return &Session{ID: id, Name: name, CreatedAt: parseTime(stamp), UpdatedAt: parseTime(stamp)}, nil
}

// GetSession returns a session by id or ErrNotFound
func (s *Store) GetSession(id int64) (*Session, error) {
	sess, err := s.scanSession(s.db.QueryRow("SELECT id, name, created_at, updated_at FROM sessions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return sess, nil
}

// ListSessions returns all sessions, most recently updated first
func (s *Store) ListSessions() ([]Session, error) {
	rows, err := s.db.Query("SELECT id, name, created_at, updated_at FROM sessions ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	defer rows.Close()

	sessions := make([]Session, 0)
	for rows.Next() {
		sess, err := s.scanSession(rows)
		if err != nil {
			return nil, &StorageError{Path: s.path, Op: "query", Err: err}
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

func (s *Store) scanSession(r rowScanner) (*Session, error) {
	var sess Session
	var created, updated string
	if err := r.Scan(&sess.ID, &sess.Name, &created, &updated); err != nil {
		return nil, err
	}
	sess.CreatedAt = parseTime(created)
	sess.UpdatedAt = parseTime(updated)
	return &sess, nil
}

// GetSetting returns a stored setting or def when it is absent
func (s *Store) GetSetting(key, def string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return def, nil
	}
	if err != nil {
		return def, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	return value.String, nil
}

// SetSetting stores a setting, replacing any previous value
func (s *Store) SetSetting(key, value string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, formatTime(s.now()),
	)
	if err != nil {
		return &StorageError{Path: s.path, Op: "update", Err: err}
	}
	return nil
}
