package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
	"github.com/Kiretori/Affineur-des-Alpes/internal/repository"
)

// ProductRepo implements ProductRepository using PostgreSQL.
type ProductRepo struct{ db *DB }

// NewProductRepo constructs a product repository.
func NewProductRepo(db *DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, name, category, unit_price, central_stock`

// Create inserts a new product row and fills the generated ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const q = `
INSERT INTO products (name, category, unit_price, central_stock)
VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.Pool.QueryRow(ctx, q, p.Name, p.Category, p.UnitPrice, p.CentralStock).Scan(&p.ID); err != nil {
		return persist("product.create", err)
	}
	return nil
}

// GetByID selects a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const q = `
SELECT id, name, category, unit_price, central_stock
FROM products WHERE id=$1`
	var p model.Product
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.CentralStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, persist("product.get", err)
	}
	return &p, nil
}

// List returns all products ordered by ID.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	const q = `
SELECT id, name, category, unit_price, central_stock
FROM products ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, persist("product.list", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// validOps is the closed set of comparison operators accepted in conditions.
var validOps = map[repository.Op]struct{}{
	repository.OpEq: {}, repository.OpNe: {},
	repository.OpLt: {}, repository.OpLte: {},
	repository.OpGt: {}, repository.OpGte: {},
}

// validProductFields maps condition fields to column names. Only fields in
// this allowlist ever reach the SQL text.
var validProductFields = map[repository.ProductField]string{
	repository.ProductFieldID:           "id",
	repository.ProductFieldName:         "name",
	repository.ProductFieldCategory:     "category",
	repository.ProductFieldUnitPrice:    "unit_price",
	repository.ProductFieldCentralStock: "central_stock",
}

// FetchByConditions returns products matching conds combined via logic.
// An empty condition list returns all rows.
func (r *ProductRepo) FetchByConditions(ctx context.Context, conds []repository.ProductCondition, logic repository.Logic) ([]model.Product, error) {
	if len(conds) == 0 {
		return r.List(ctx)
	}

	var joiner string
	switch logic {
	case repository.LogicAll:
		joiner = " AND "
	case repository.LogicAny:
		joiner = " OR "
	default:
		return nil, fmt.Errorf("logic %q: %w", logic, errs.ErrUnsupportedLogic)
	}

	preds := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		col, ok := validProductFields[c.Field]
		if !ok {
			return nil, fmt.Errorf("product field %q: %w", c.Field, errs.ErrInvalidCondition)
		}
		if _, ok := validOps[c.Op]; !ok {
			return nil, fmt.Errorf("operator %q: %w", c.Op, errs.ErrInvalidCondition)
		}
		args = append(args, c.Value)
		preds = append(preds, fmt.Sprintf("%s %s $%d", col, c.Op, len(args)))
	}

	q := "SELECT " + productColumns + " FROM products WHERE " +
		strings.Join(preds, joiner) + " ORDER BY id"
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, persist("product.fetch", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// UpdatePrice sets the unit price and reports rows affected.
func (r *ProductRepo) UpdatePrice(ctx context.Context, id int64, price float64) (int64, error) {
	const q = `UPDATE products SET unit_price=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, price)
	if err != nil {
		return 0, persist("product.update_price", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// IncrementStock adds delta to the central stock counter.
func (r *ProductRepo) IncrementStock(ctx context.Context, id int64, delta int64) (int64, error) {
	const q = `UPDATE products SET central_stock = central_stock + $2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, delta)
	if err != nil {
		return 0, persist("product.increment_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// DecrementStock subtracts delta from the central stock counter, clamping
// at zero. The counter is never observed negative regardless of delta.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, delta int64) (int64, error) {
	const q = `UPDATE products SET central_stock = GREATEST(central_stock - $2, 0) WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, delta)
	if err != nil {
		return 0, persist("product.decrement_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// Delete removes a product by ID and reports rows affected.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM products WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return 0, persist("product.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.CentralStock); err != nil {
			return nil, persist("product.scan", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("product.scan", err)
	}
	return out, nil
}
