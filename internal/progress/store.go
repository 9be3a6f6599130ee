package progress

import (
	"context"

	"github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/domain"
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "no saved progress")

// storageKey is the canonical persistence key for a client's progress blob.
func storageKey(nit domain.NIT) string {
	return "avances_" + nit.String()
}

// legacyKeys lists every historical key variant ever used for per-client
// state. Deletion must remove all of them so a finalized certification
// leaves nothing behind.
func legacyKeys(nit domain.NIT) []string {
	n := nit.String()
	return []string{
		"avances_" + n,
		"evidencias_" + n,
		"progreso_" + n,
		"checklist_" + n,
		"datos_" + n,
		"autosave_" + n,
	}
}

// Store persists the serialized field-key mapping per client.
//
// Stores are interface-driven to keep the session logic testable and to
// allow swapping in-memory, Redis, or Postgres persistence without rewiring
// business code.
type Store interface {
	Save(ctx context.Context, nit domain.NIT, state *State) error
	// Load returns ErrNotFound when no blob exists. Callers treat any load
	// failure as "no saved progress" after logging it.
	Load(ctx context.Context, nit domain.NIT) (*State, error)
	// Delete removes the blob and every legacy key variant. Idempotent.
	Delete(ctx context.Context, nit domain.NIT) error
}
