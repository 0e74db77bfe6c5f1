package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store is a key/value table backing the analytics cache.
type Store struct {
	conn *sql.DB
}

func OpenStore(path string) (*Store, error) {
	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{conn: conn}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT value FROM cache_records WHERE key = ?`, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("select record %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO cache_records(key, value, updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return countRowsConn(ctx, s.conn, "cache_records")
}

func (s *Store) Close() error { return s.conn.Close() }

func countRowsConn(ctx context.Context, conn *sql.DB, table string) (int, error) {
	row := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
