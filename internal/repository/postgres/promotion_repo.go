package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// PromotionRepo implements PromotionRepository using PostgreSQL.
type PromotionRepo struct{ db *DB }

// NewPromotionRepo constructs a promotion repository.
func NewPromotionRepo(db *DB) *PromotionRepo { return &PromotionRepo{db: db} }

// Create resolves the product reference, then inserts the promotion and
// fills the generated ID. Nothing is persisted when the product is missing.
func (r *PromotionRepo) Create(ctx context.Context, p *model.Promotion) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persist("promotion.create", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = persist("promotion.create", e)
		}
	}()

	ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, p.ProductID)
	if err != nil {
		return persist("promotion.create", err)
	}
	if !ok {
		return refMissing("product", p.ProductID)
	}

	const ins = `
INSERT INTO promotions (product_id, description, start_date, end_date, discount_rate)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err = tx.QueryRow(ctx, ins, p.ProductID, p.Description, p.StartDate, p.EndDate, p.DiscountRate).Scan(&p.ID); err != nil {
		return persist("promotion.create", err)
	}
	return nil
}

// List returns all promotions ordered by ID.
func (r *PromotionRepo) List(ctx context.Context) ([]model.Promotion, error) {
	const q = `
SELECT id, product_id, description, start_date, end_date, discount_rate
FROM promotions ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, persist("promotion.list", err)
	}
	defer rows.Close()

	var out []model.Promotion
	for rows.Next() {
		var p model.Promotion
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Description, &p.StartDate, &p.EndDate, &p.DiscountRate); err != nil {
			return nil, persist("promotion.list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("promotion.list", err)
	}
	return out, nil
}
