package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	// Registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"chronicle/internal/timeline/models"
)

// PostgresStore reads subject payloads from PostgreSQL. The payload column
// is jsonb in exactly the SubjectContent shape; normalization happens in the
// ingestion pipeline, not here.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) GetSubjectContent(ctx context.Context, subjectID string) (models.SubjectContent, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM subjects WHERE id = $1`, subjectID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SubjectContent{}, ErrSubjectNotFound
	}
	if err != nil {
		return models.SubjectContent{}, fmt.Errorf("query subject %s: %w", subjectID, err)
	}

	var content models.SubjectContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return models.SubjectContent{}, fmt.Errorf("decode subject %s payload: %w", subjectID, err)
	}
	if content.SubjectID == "" {
		content.SubjectID = subjectID
	}
	return content, nil
}
