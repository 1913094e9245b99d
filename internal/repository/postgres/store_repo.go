package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// StoreRepo implements StoreRepository using PostgreSQL.
type StoreRepo struct{ db *DB }

// NewStoreRepo constructs a store repository.
func NewStoreRepo(db *DB) *StoreRepo { return &StoreRepo{db: db} }

// Create inserts a new store row and fills the generated ID.
func (r *StoreRepo) Create(ctx context.Context, s *model.Store) error {
	const q = `
INSERT INTO stores (name, address, city, phone)
VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.Pool.QueryRow(ctx, q, s.Name, s.Address, s.City, s.Phone).Scan(&s.ID); err != nil {
		return persist("store.create", err)
	}
	return nil
}

// GetByID selects a store by ID.
func (r *StoreRepo) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	const q = `
SELECT id, name, address, city, phone
FROM stores WHERE id=$1`
	var s model.Store
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, persist("store.get", err)
	}
	return &s, nil
}

// List returns all stores ordered by ID.
func (r *StoreRepo) List(ctx context.Context) ([]model.Store, error) {
	const q = `
SELECT id, name, address, city, phone
FROM stores ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, persist("store.list", err)
	}
	defer rows.Close()

	var out []model.Store
	for rows.Next() {
		var s model.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.City, &s.Phone); err != nil {
			return nil, persist("store.list", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("store.list", err)
	}
	return out, nil
}

// Delete removes a store by ID and reports rows affected.
func (r *StoreRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM stores WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return 0, persist("store.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}
