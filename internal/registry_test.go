package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *ServiceRegistry {
	t.Helper()
	s, _ := newTestStore(t)
	r, err := NewServiceRegistry(s.DB())
	require.NoError(t, err)
	return r
}

func serviceNames(services []ServiceConfig) []string {
	names := make([]string, len(services))
	for i, svc := range services {
		names[i] = svc.Name
	}
	return names
}

func TestServiceRegistry_SeedsDefaults(t *testing.T) {
	r := newTestRegistry(t)

	all, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Claude", "Gemini", "Grok", "ChatGPT", "Ollama", "LMStudio"}, serviceNames(all))

	enabled, err := r.Enabled()
	require.NoError(t, err)
	assert.Len(t, enabled, 4)

	// Seeding again is a no-op
	again, err := NewServiceRegistry(r.db)
	require.NoError(t, err)
	all, err = again.List()
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultServices))
}

func TestServiceRegistry_SaveAndGet(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Save(ServiceConfig{Name: " Mistral ", URL: "https://chat.mistral.ai", Enabled: true}))

	svc, err := r.Get("Mistral")
	require.NoError(t, err)
	assert.Equal(t, ServiceTypeBrowser, svc.Type)
	assert.Equal(t, "https://chat.mistral.ai", svc.URL)

	all, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, "Mistral", all[len(all)-1].Name)

	// Updating keeps the display position
	require.NoError(t, r.Save(ServiceConfig{Name: "Claude", URL: "https://claude.ai/new", Enabled: true}))
	all, err = r.List()
	require.NoError(t, err)
	assert.Equal(t, "Claude", all[0].Name)
	assert.Equal(t, "https://claude.ai/new", all[0].URL)
}

func TestServiceRegistry_SaveValidates(t *testing.T) {
	r := newTestRegistry(t)

	assert.Error(t, r.Save(ServiceConfig{Name: "  "}))
	assert.Error(t, r.Save(ServiceConfig{Name: "true"}))
	assert.Error(t, r.Save(ServiceConfig{Name: "a[b]"}))
	assert.Error(t, r.Save(ServiceConfig{Name: "Remote", Type: "cloud"}))
	assert.Error(t, r.Save(ServiceConfig{Name: "Broken", Patterns: []string{"("}}))
}

func TestServiceRegistry_SetEnabledAndDelete(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.SetEnabled("Ollama", true))
	enabled, err := r.Enabled()
	require.NoError(t, err)
	assert.Contains(t, serviceNames(enabled), "Ollama")

	assert.ErrorIs(t, r.SetEnabled("Nope", true), ErrNotFound)

	require.NoError(t, r.Delete("Grok"))
	_, err = r.Get("Grok")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.Delete("Grok"), ErrNotFound)
}

func TestServiceRegistry_Classifier(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Save(ServiceConfig{Name: "Mistral", Patterns: []string{`Le Chat`}}))

	c, err := r.Classifier()
	require.NoError(t, err)
	assert.Equal(t, "Mistral", c.Classify("Le Chat here", ""))
	assert.Equal(t, "Claude", c.Classify("Anthropic here", ""))
}
