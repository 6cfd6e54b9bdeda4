package ports

import (
	"context"

	"github.com/aretw0/easybake/pkg/domain"
)

// LedgerStore defines the interface for persisting inventory ledgers.
// Every call reads or writes the whole document for one resource class;
// there are no partial updates.
type LedgerStore interface {
	// Load retrieves the ledger for the given class.
	// Returns an error wrapping domain.ErrStorageUnavailable if the document is missing or malformed.
	Load(ctx context.Context, class domain.ResourceClass) (domain.Ledger, error)

	// Save replaces the ledger for the given class.
	// Implementations must reject negative quantities.
	Save(ctx context.Context, class domain.ResourceClass, ledger domain.Ledger) error
}
