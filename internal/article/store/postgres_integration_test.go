//go:build integration

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	artmodels "chronicle/internal/article/models"
	"chronicle/pkg/testutil/containers"
)

func setupArticlesTable(t *testing.T, pg *containers.PostgresContainer) {
	t.Helper()
	pg.Exec(t, `CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subtitle TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		publish_date TIMESTAMPTZ NOT NULL
	)`)
	pg.Exec(t, `TRUNCATE articles`)
}

func insertArticle(t *testing.T, pg *containers.PostgresContainer, a artmodels.Article) {
	t.Helper()
	pg.Exec(t, `INSERT INTO articles (id, title, subtitle, body, url, publish_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Title, a.Subtitle, a.Body, a.URL, a.PublishDate)
}

func TestPostgresStoreFetchByIDs(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	setupArticlesTable(t, pg)

	ctx := context.Background()
	published := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	insertArticle(t, pg, artmodels.Article{
		ID:          "a1",
		Title:       "Debut night",
		Subtitle:    "A first look",
		Body:        "Full coverage of the debut.",
		URL:         "https://news.example/a1",
		PublishDate: published,
	})
	insertArticle(t, pg, artmodels.Article{
		ID:          "a2",
		Title:       "Award season",
		PublishDate: published.AddDate(0, 1, 0),
	})

	store := NewPostgres(pg.Pool, nil)

	articles, err := store.FetchByIDs(ctx, []string{"a1", "a2", "does-not-exist"})
	require.NoError(t, err)
	require.Len(t, articles, 2, "unknown ids are skipped, not errors")

	byID := make(map[string]artmodels.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	assert.Equal(t, "Debut night", byID["a1"].Title)
	assert.Equal(t, "A first look", byID["a1"].Subtitle)
	assert.True(t, published.Equal(byID["a1"].PublishDate))
	assert.Equal(t, "Award season", byID["a2"].Title)
}

func TestPostgresStoreFetchFansOutOverChunks(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	setupArticlesTable(t, pg)

	ctx := context.Background()
	total := chunkSize*2 + 7
	ids := make([]string, 0, total)
	for i := 0; i < total; i++ {
		id := fmt.Sprintf("bulk-%04d", i)
		ids = append(ids, id)
		insertArticle(t, pg, artmodels.Article{
			ID:          id,
			Title:       "Bulk " + id,
			PublishDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		})
	}

	store := NewPostgres(pg.Pool, nil)
	articles, err := store.FetchByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, articles, total)
}

func TestPostgresStoreFetchEmpty(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	setupArticlesTable(t, pg)

	store := NewPostgres(pg.Pool, nil)
	articles, err := store.FetchByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, articles)
}
