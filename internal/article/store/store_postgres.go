package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"chronicle/internal/article/metrics"
	artmodels "chronicle/internal/article/models"
)

// chunkSize caps one SQL IN-list; larger requests fan out over the pool.
const chunkSize = 100

// fanOutLimit bounds concurrent chunk queries per fetch.
const fanOutLimit = 4

// PostgresStore reads articles from PostgreSQL via a pgx pool.
type PostgresStore struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
	builder sq.StatementBuilderType
}

// NewPostgres constructs the store. metrics may be nil.
func NewPostgres(pool *pgxpool.Pool, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		metrics: m,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FetchByIDs returns the subset of ids present in the articles table; ids
// with no row are skipped, never an error.
func (s *PostgresStore) FetchByIDs(ctx context.Context, ids []string) ([]artmodels.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	start := time.Now()

	var (
		mu  sync.Mutex
		out []artmodels.Article
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(fanOutLimit)
	for begin := 0; begin < len(ids); begin += chunkSize {
		end := begin + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[begin:end]
		group.Go(func() error {
			articles, err := s.fetchChunk(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, articles...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	return out, nil
}

func (s *PostgresStore) fetchChunk(ctx context.Context, ids []string) ([]artmodels.Article, error) {
	query, args, err := s.builder.
		Select("id", "title", "subtitle", "body", "url", "publish_date").
		From("articles").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build article query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var out []artmodels.Article
	for rows.Next() {
		var a artmodels.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Subtitle, &a.Body, &a.URL, &a.PublishDate); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return out, nil
}
