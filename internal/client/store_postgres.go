package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// PostgresStore persists merchant records in a dedicated table.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS portal_clients (
//	    nit           TEXT PRIMARY KEY,
//	    name          TEXT NOT NULL,
//	    scheme_key    TEXT NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    last_modified TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portal_clients (nit, name, scheme_key, created_at, last_modified)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (nit) DO UPDATE SET
			name = EXCLUDED.name,
			scheme_key = EXCLUDED.scheme_key,
			last_modified = EXCLUDED.last_modified`,
		record.NIT.String(), record.Name, record.SchemeKey, record.CreatedAt, record.LastModified)
	if err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, nit domain.NIT) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT nit, name, scheme_key, created_at, last_modified
		FROM portal_clients WHERE nit = $1`, nit.String())
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("find client: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Delete(ctx context.Context, nit domain.NIT) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM portal_clients WHERE nit = $1`, nit.String()); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nit, name, scheme_key, created_at, last_modified
		FROM portal_clients ORDER BY nit`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		record       Record
		nit          string
		created, mod time.Time
	)
	if err := row.Scan(&nit, &record.Name, &record.SchemeKey, &created, &mod); err != nil {
		return Record{}, err
	}
	record.NIT = domain.NIT(nit)
	record.CreatedAt = created
	record.LastModified = mod
	return record, nil
}
