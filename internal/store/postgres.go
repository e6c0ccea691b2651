package store

import (
	"context"
	"fmt"

	"promail/internal/domain"
	"promail/internal/infra"
	"promail/internal/sqlinline"
)

// PostgresStore implements RecordStore on a single records table.
type PostgresStore struct {
	sql infra.SQLExecutor
}

// NewPostgresStore creates a store backed by the given SQL executor.
func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectRecord, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("store: get %q: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertRecord, key, value); err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QDeleteRecord, key); err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

var _ RecordStore = (*PostgresStore)(nil)
