package repository

import (
	"context"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// OrderRepository provides access to orders and their dependent records.
// Every Create verifies the declared foreign keys first; a missing
// reference yields *errs.ReferenceNotFoundError and persists nothing.
type OrderRepository interface {
	// CreateOrder checks client and store, inserts, fills the generated ID.
	CreateOrder(ctx context.Context, o *model.Order) error
	// GetOrder loads an order by primary key.
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	// AddLine checks order and product, inserts, fills the generated ID.
	AddLine(ctx context.Context, l *model.OrderLine) error
	// ListLines returns the lines of an order ordered by ID.
	ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	// CreateDelivery checks order and store, inserts, fills the generated ID.
	CreateDelivery(ctx context.Context, d *model.Delivery) error
	// CreateInvoice checks the order, inserts, fills the generated ID.
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
}

// StockRepository provides access to per-store stock levels.
type StockRepository interface {
	// CreateEntry checks store and product, then inserts the stock row.
	// A missing reference yields *errs.ReferenceNotFoundError.
	CreateEntry(ctx context.Context, e *model.StockEntry) error
	// Get loads the stock row for (storeID, productID).
	Get(ctx context.Context, storeID, productID int64) (*model.StockEntry, error)
	// Increment adds delta to the stock quantity. errs.ErrNotFound when no
	// row matches; reports rows affected.
	Increment(ctx context.Context, storeID, productID, delta int64) (int64, error)
	// Decrement subtracts delta from the stock quantity, clamping at zero.
	Decrement(ctx context.Context, storeID, productID, delta int64) (int64, error)
}
