package client

import (
	"context"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "client not found")

// storageKey is the canonical persistence key for a merchant record.
func storageKey(nit domain.NIT) string {
	return "cliente_" + nit.String()
}

// Store persists merchant records. Progress blobs live in the progress
// store; the registry service composes both on delete.
type Store interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, nit domain.NIT) (Record, error)
	// Delete removes the record. Idempotent: deleting an absent record is a
	// no-op.
	Delete(ctx context.Context, nit domain.NIT) error
	List(ctx context.Context) ([]Record, error)
}
