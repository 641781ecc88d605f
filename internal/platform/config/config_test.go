package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 50, cfg.ArticleBatchSize)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CHRONICLE_ADDR", ":9999")
	t.Setenv("CHRONICLE_ARTICLE_BATCH_SIZE", "25")
	t.Setenv("CHRONICLE_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("CHRONICLE_KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 25, cfg.ArticleBatchSize)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadOrderingDefault(t *testing.T) {
	ordering, err := LoadOrdering("")
	require.NoError(t, err)
	assert.NotEmpty(t, ordering.Categories)
}

func TestLoadOrderingFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordering.yaml")
	raw := `categories:
  - name: Career Milestones
    description: Turning points.
    subcategories: [Debuts, Awards]
  - name: Personal Life
    subcategories: [Family]
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	ordering, err := LoadOrdering(path)
	require.NoError(t, err)
	require.Len(t, ordering.Categories, 2)
	assert.Equal(t, "Career Milestones", ordering.Categories[0].Name)
	assert.Equal(t, []string{"Debuts", "Awards"}, ordering.Categories[0].Subcategories)
	assert.Equal(t, []string{"Family"}, ordering.Subcategories("Personal Life"))
}

func TestLoadOrderingRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ordering.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0o600))

	_, err := LoadOrdering(path)
	assert.Error(t, err)
}
