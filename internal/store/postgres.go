// Package store persists versioned gallery canvas snapshots in Postgres.
// Every save writes a new row; loads return the highest version.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell/inkwell/canvas-go/internal/typeid"
)

var ErrNotFound = errors.New("gallery canvas not found")

// NewPool connects a pgx pool and verifies it with a ping.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the snapshot table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS canvas_snapshots (
			id         TEXT PRIMARY KEY,
			gallery_id TEXT NOT NULL,
			version    INTEGER NOT NULL,
			document   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (gallery_id, version)
		)`)
	if err != nil {
		return fmt.Errorf("create canvas_snapshots: %w", err)
	}
	return nil
}

// SaveCanvas writes the document as a new snapshot version for the gallery
// and returns the version it was assigned.
func (s *Store) SaveCanvas(ctx context.Context, galleryID string, document []byte) (int32, error) {
	var version int32
	err := s.pool.QueryRow(ctx, `
		INSERT INTO canvas_snapshots (id, gallery_id, version, document)
		VALUES ($1, $2, COALESCE(
			(SELECT MAX(version) FROM canvas_snapshots WHERE gallery_id = $2), 0) + 1, $3)
		RETURNING version`,
		typeid.NewSnapshotID(), galleryID, document,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return version, nil
}

// LoadCanvas returns the latest snapshot document and its version.
func (s *Store) LoadCanvas(ctx context.Context, galleryID string) ([]byte, int32, error) {
	var document []byte
	var version int32
	err := s.pool.QueryRow(ctx, `
		SELECT document, version FROM canvas_snapshots
		WHERE gallery_id = $1
		ORDER BY version DESC
		LIMIT 1`,
		galleryID,
	).Scan(&document, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}
	return document, version, nil
}
