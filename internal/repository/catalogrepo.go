package repository

import (
	"context"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// StoreRepository provides access to stores. Stores are leaf entities.
type StoreRepository interface {
	// Create inserts a new store and fills the generated ID.
	Create(ctx context.Context, s *model.Store) error
	// GetByID loads a store by primary key.
	GetByID(ctx context.Context, id int64) (*model.Store, error)
	// List returns all stores ordered by ID.
	List(ctx context.Context) ([]model.Store, error)
	// Delete removes a store by primary key and reports rows affected.
	Delete(ctx context.Context, id int64) (int64, error)
}

// ProductRepository provides access to products and the central stock counter.
type ProductRepository interface {
	// Create inserts a new product and fills the generated ID.
	Create(ctx context.Context, p *model.Product) error
	// GetByID loads a product by primary key.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// List returns all products ordered by ID.
	List(ctx context.Context) ([]model.Product, error)
	// FetchByConditions returns products matching the conditions combined via
	// the given logic mode. An empty condition list returns all rows; an
	// unknown logic mode yields errs.ErrUnsupportedLogic, and a condition
	// naming an unknown field or operator yields errs.ErrInvalidCondition.
	FetchByConditions(ctx context.Context, conds []ProductCondition, logic Logic) ([]model.Product, error)
	// UpdatePrice sets the unit price and reports rows affected.
	// errs.ErrNotFound when no row matches.
	UpdatePrice(ctx context.Context, id int64, price float64) (int64, error)
	// IncrementStock adds delta to central stock. errs.ErrNotFound when no
	// row matches; reports rows affected.
	IncrementStock(ctx context.Context, id int64, delta int64) (int64, error)
	// DecrementStock subtracts delta from central stock, clamping at zero.
	// The counter is never observed negative regardless of delta.
	DecrementStock(ctx context.Context, id int64, delta int64) (int64, error)
	// Delete removes a product by primary key and reports rows affected.
	Delete(ctx context.Context, id int64) (int64, error)
}

// PromotionRepository provides access to product promotions.
type PromotionRepository interface {
	// Create verifies the referenced product exists, then inserts the
	// promotion and fills the generated ID. A missing product yields
	// *errs.ReferenceNotFoundError and persists nothing.
	Create(ctx context.Context, p *model.Promotion) error
	// List returns all promotions ordered by ID.
	List(ctx context.Context) ([]model.Promotion, error)
}
