package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultServices are seeded into an empty registry, in display order
var DefaultServices = []ServiceConfig{
	{Name: "Claude", Type: ServiceTypeBrowser, URL: "https://claude.ai", Role: "coding specialist", Enabled: true, Color: "#818cf8"},
	{Name: "Gemini", Type: ServiceTypeBrowser, URL: "https://gemini.google.com", Role: "general supervisor", Enabled: true, Color: "#34d399"},
	{Name: "Grok", Type: ServiceTypeBrowser, URL: "https://grok.com", Role: "market analysis", Enabled: true, Color: "#f472b6"},
	{Name: "ChatGPT", Type: ServiceTypeBrowser, URL: "https://chatgpt.com", Role: "advisor", Enabled: true, Color: "#60a5fa"},
	{Name: "Ollama", Type: ServiceTypeLocal, URL: "http://localhost:11434", Role: "local processing", Enabled: false, Color: "#fb923c", Model: "llama3", Endpoint: "/api/chat"},
	{Name: "LMStudio", Type: ServiceTypeLocal, URL: "http://localhost:1234", Role: "local processing", Enabled: false, Color: "#fbbf24", Model: "local-model", Endpoint: "/v1/chat/completions"},
}

// ServiceRegistry is the SQLite-backed repository of ServiceConfig entries.
// Message.Service refers to it only by name; nothing enforces the link.
type ServiceRegistry struct {
	db *sql.DB
	mu sync.Mutex
}

// NewServiceRegistry creates a registry and seeds any missing default services
func NewServiceRegistry(db *sql.DB) (*ServiceRegistry, error) {
	r := &ServiceRegistry{db: db}
	if err := r.seed(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ServiceRegistry) seed() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, svc := range DefaultServices {
		data, err := json.Marshal(svc)
		if err != nil {
			return err
		}
		if _, err := r.db.Exec(
			"INSERT OR IGNORE INTO services (name, config, position, updated_at) VALUES (?, ?, ?, ?)",
			svc.Name, string(data), i, formatTime(time.Now()),
		); err != nil {
			return &StorageError{Op: "insert", Path: "services", Err: err}
		}
	}
	return nil
}

// ValidateServiceName rejects names that cannot identify a service
func ValidateServiceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("service name is required")
	}
	if _, err := strconv.ParseBool(name); err == nil {
		return fmt.Errorf("invalid service name %q", name)
	}
	if strings.ContainsAny(name, "[]") {
		return fmt.Errorf("service name %q must not contain brackets", name)
	}
	return nil
}

// List returns every registered service in display order
func (r *ServiceRegistry) List() ([]ServiceConfig, error) {
	rows, err := r.db.Query("SELECT name, config FROM services ORDER BY position ASC, name ASC")
	if err != nil {
		return nil, &StorageError{Op: "query", Path: "services", Err: err}
	}
	defer rows.Close()

	services := make([]ServiceConfig, 0)
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, &StorageError{Op: "query", Path: "services", Err: err}
		}
		var svc ServiceConfig
		if err := json.Unmarshal([]byte(raw), &svc); err != nil {
			LogWarn("Skipping service %s with unreadable config: %v", name, err)
			continue
		}
		svc.Name = name
		services = append(services, svc)
	}
	return services, rows.Err()
}

// Enabled returns the enabled services in display order
func (r *ServiceRegistry) Enabled() ([]ServiceConfig, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	enabled := make([]ServiceConfig, 0, len(all))
	for _, svc := range all {
		if svc.Enabled {
			enabled = append(enabled, svc)
		}
	}
	return enabled, nil
}

// Get returns a service by name or ErrNotFound
func (r *ServiceRegistry) Get(name string) (*ServiceConfig, error) {
	var raw string
	err := r.db.QueryRow("SELECT config FROM services WHERE name = ?", name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, &StorageError{Op: "query", Path: "services", Err: err}
	}
	var svc ServiceConfig
	if err := json.Unmarshal([]byte(raw), &svc); err != nil {
		return nil, fmt.Errorf("service %s: %w", name, err)
	}
	svc.Name = name
	return &svc, nil
}

// Save inserts or replaces a service. New services are appended to the end of
// the display order.
func (r *ServiceRegistry) Save(svc ServiceConfig) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if err := ValidateServiceName(svc.Name); err != nil {
		return err
	}
	if svc.Type == "" {
		svc.Type = ServiceTypeBrowser
	}
	if svc.Type != ServiceTypeBrowser && svc.Type != ServiceTypeLocal {
		return fmt.Errorf("service type must be %s or %s", ServiceTypeBrowser, ServiceTypeLocal)
	}
	if _, err := CompilePatterns(svc.Name, svc.Patterns); err != nil {
		return err
	}
	data, err := json.Marshal(svc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.Exec(
		`INSERT INTO services (name, config, position, updated_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM services), ?)
		 ON CONFLICT(name) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`,
		svc.Name, string(data), formatTime(time.Now()),
	)
	if err != nil {
		return &StorageError{Op: "update", Path: "services", Err: err}
	}
	return nil
}

// SetEnabled toggles a service
func (r *ServiceRegistry) SetEnabled(name string, enabled bool) error {
	svc, err := r.Get(name)
	if err != nil {
		return err
	}
	svc.Enabled = enabled
	return r.Save(*svc)
}

// Delete removes a service. Messages that name it are left untouched.
func (r *ServiceRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec("DELETE FROM services WHERE name = ?", name)
	if err != nil {
		return &StorageError{Op: "delete", Path: "services", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("service %s: %w", name, ErrNotFound)
	}
	return nil
}

// Classifier builds a classifier from the builtin table plus the patterns of
// registered services
func (r *ServiceRegistry) Classifier() (*ServiceClassifier, error) {
	services, err := r.List()
	if err != nil {
		return nil, err
	}
	return ClassifierFromServices(services)
}
