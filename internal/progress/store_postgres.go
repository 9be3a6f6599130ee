package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
)

// PostgresStore persists progress blobs in a single key/value table so the
// legacy key schema (including orphaned variant keys) survives unchanged.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS portal_state (
//	    key   TEXT PRIMARY KEY,
//	    value JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, nit domain.NIT, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO portal_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		storageKey(nit), data)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, nit domain.NIT) (*State, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM portal_state WHERE key = $1`, storageKey(nit)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) Delete(ctx context.Context, nit domain.NIT) error {
	keys := legacyKeys(nit)
	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = k
	}
	query := `DELETE FROM portal_state WHERE key IN (` + strings.Join(placeholders, ", ") + `)`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}
