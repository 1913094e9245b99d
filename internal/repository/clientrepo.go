package repository

import (
	"context"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// ClientRepository provides access to clients, their loyalty counter, and
// the append-only loyalty history ledger.
type ClientRepository interface {
	// Create inserts a new client and fills the generated ID.
	Create(ctx context.Context, c *model.Client) error
	// GetByID loads a client by primary key.
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	// List returns all clients ordered by ID.
	List(ctx context.Context) ([]model.Client, error)
	// ListByType returns clients with the given type, ordered by ID.
	ListByType(ctx context.Context, clientType string) ([]model.Client, error)
	// ListByMinPoints returns clients holding at least minPoints, ordered by ID.
	ListByMinPoints(ctx context.Context, minPoints int64) ([]model.Client, error)
	// Delete removes a client by primary key and reports rows affected.
	Delete(ctx context.Context, id int64) (int64, error)

	// AddPoints adds delta loyalty points. errs.ErrNotFound when no row
	// matches; reports rows affected.
	AddPoints(ctx context.Context, id int64, delta int64) (int64, error)
	// RedeemPoints subtracts delta loyalty points, clamping at zero.
	RedeemPoints(ctx context.Context, id int64, delta int64) (int64, error)

	// AddLoyaltyEntry verifies the referenced client exists, then appends a
	// ledger record and fills the generated ID. A missing client yields
	// *errs.ReferenceNotFoundError and persists nothing.
	AddLoyaltyEntry(ctx context.Context, e *model.LoyaltyEntry) error
	// ListLoyaltyEntries returns the ledger for a client, oldest first.
	ListLoyaltyEntries(ctx context.Context, clientID int64) ([]model.LoyaltyEntry, error)
}
