package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// StockRepo implements StockRepository using PostgreSQL.
type StockRepo struct{ db *DB }

// NewStockRepo constructs a per-store stock repository.
func NewStockRepo(db *DB) *StockRepo { return &StockRepo{db: db} }

// CreateEntry resolves store and product references, then inserts the
// stock row. Nothing is persisted when any reference is missing.
func (r *StockRepo) CreateEntry(ctx context.Context, e *model.StockEntry) (err error) {
	const op = "stock.create"
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persist(op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = persist(op, e)
		}
	}()

	ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM stores WHERE id=$1)`, e.StoreID)
	if err != nil {
		return persist(op, err)
	}
	if !ok {
		return refMissing("store", e.StoreID)
	}
	ok, err = refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, e.ProductID)
	if err != nil {
		return persist(op, err)
	}
	if !ok {
		return refMissing("product", e.ProductID)
	}

	const ins = `
INSERT INTO store_stock (store_id, product_id, quantity)
VALUES ($1, $2, $3)`
	if _, err = tx.Exec(ctx, ins, e.StoreID, e.ProductID, e.Quantity); err != nil {
		return persist(op, err)
	}
	return nil
}

// Get selects the stock row for (storeID, productID).
func (r *StockRepo) Get(ctx context.Context, storeID, productID int64) (*model.StockEntry, error) {
	const q = `
SELECT store_id, product_id, quantity
FROM store_stock WHERE store_id=$1 AND product_id=$2`
	var e model.StockEntry
	err := r.db.Pool.QueryRow(ctx, q, storeID, productID).Scan(&e.StoreID, &e.ProductID, &e.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, persist("stock.get", err)
	}
	return &e, nil
}

// Increment adds delta to the per-store quantity.
func (r *StockRepo) Increment(ctx context.Context, storeID, productID, delta int64) (int64, error) {
	const q = `UPDATE store_stock SET quantity = quantity + $3 WHERE store_id=$1 AND product_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, storeID, productID, delta)
	if err != nil {
		return 0, persist("stock.increment", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// Decrement subtracts delta from the per-store quantity, clamping at zero.
func (r *StockRepo) Decrement(ctx context.Context, storeID, productID, delta int64) (int64, error) {
	const q = `UPDATE store_stock SET quantity = GREATEST(quantity - $3, 0) WHERE store_id=$1 AND product_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, storeID, productID, delta)
	if err != nil {
		return 0, persist("stock.decrement", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}
