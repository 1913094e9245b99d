package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// ClientRepo implements ClientRepository using PostgreSQL.
type ClientRepo struct{ db *DB }

// NewClientRepo constructs a client repository.
func NewClientRepo(db *DB) *ClientRepo { return &ClientRepo{db: db} }

// Create inserts a new client row and fills the generated ID.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	const q = `
INSERT INTO clients (name, client_type, address, phone, loyalty_points)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.Pool.QueryRow(ctx, q, c.Name, c.ClientType, c.Address, c.Phone, c.LoyaltyPoints).Scan(&c.ID)
	if err != nil {
		return persist("client.create", err)
	}
	return nil
}

// GetByID selects a client by ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	const q = `
SELECT id, name, client_type, address, phone, loyalty_points
FROM clients WHERE id=$1`
	var c model.Client
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.ClientType, &c.Address, &c.Phone, &c.LoyaltyPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, persist("client.get", err)
	}
	return &c, nil
}

// List returns all clients ordered by ID.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	const q = `
SELECT id, name, client_type, address, phone, loyalty_points
FROM clients ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, persist("client.list", err)
	}
	defer rows.Close()
	return collectClients(rows)
}

// ListByType returns clients with the given type ordered by ID.
func (r *ClientRepo) ListByType(ctx context.Context, clientType string) ([]model.Client, error) {
	const q = `
SELECT id, name, client_type, address, phone, loyalty_points
FROM clients WHERE client_type=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, clientType)
	if err != nil {
		return nil, persist("client.list_by_type", err)
	}
	defer rows.Close()
	return collectClients(rows)
}

// ListByMinPoints returns clients with at least minPoints ordered by ID.
func (r *ClientRepo) ListByMinPoints(ctx context.Context, minPoints int64) ([]model.Client, error) {
	const q = `
SELECT id, name, client_type, address, phone, loyalty_points
FROM clients WHERE loyalty_points >= $1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, minPoints)
	if err != nil {
		return nil, persist("client.list_by_min_points", err)
	}
	defer rows.Close()
	return collectClients(rows)
}

// Delete removes a client by ID and reports rows affected.
func (r *ClientRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM clients WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return 0, persist("client.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// AddPoints adds delta loyalty points to a client.
func (r *ClientRepo) AddPoints(ctx context.Context, id int64, delta int64) (int64, error) {
	const q = `UPDATE clients SET loyalty_points = loyalty_points + $2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, delta)
	if err != nil {
		return 0, persist("client.add_points", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// RedeemPoints subtracts delta loyalty points, clamping at zero.
func (r *ClientRepo) RedeemPoints(ctx context.Context, id int64, delta int64) (int64, error) {
	const q = `UPDATE clients SET loyalty_points = GREATEST(loyalty_points - $2, 0) WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, delta)
	if err != nil {
		return 0, persist("client.redeem_points", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrNotFound
	}
	return tag.RowsAffected(), nil
}

// AddLoyaltyEntry appends a ledger record after resolving the client
// reference. Nothing is persisted when the client is missing.
func (r *ClientRepo) AddLoyaltyEntry(ctx context.Context, e *model.LoyaltyEntry) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return persist("loyalty.add", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = persist("loyalty.add", e)
		}
	}()

	ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id=$1)`, e.ClientID)
	if err != nil {
		return persist("loyalty.add", err)
	}
	if !ok {
		return refMissing("client", e.ClientID)
	}

	const ins = `
INSERT INTO loyalty_history (client_id, recorded_at, points_delta, description)
VALUES ($1, $2, $3, $4) RETURNING id`
	if err = tx.QueryRow(ctx, ins, e.ClientID, e.RecordedAt, e.PointsDelta, e.Description).Scan(&e.ID); err != nil {
		return persist("loyalty.add", err)
	}
	return nil
}

// ListLoyaltyEntries returns the ledger for a client, oldest first.
func (r *ClientRepo) ListLoyaltyEntries(ctx context.Context, clientID int64) ([]model.LoyaltyEntry, error) {
	const q = `
SELECT id, client_id, recorded_at, points_delta, description
FROM loyalty_history WHERE client_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, clientID)
	if err != nil {
		return nil, persist("loyalty.list", err)
	}
	defer rows.Close()

	var out []model.LoyaltyEntry
	for rows.Next() {
		var e model.LoyaltyEntry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.RecordedAt, &e.PointsDelta, &e.Description); err != nil {
			return nil, persist("loyalty.list", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("loyalty.list", err)
	}
	return out, nil
}

func collectClients(rows pgx.Rows) ([]model.Client, error) {
	var out []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ClientType, &c.Address, &c.Phone, &c.LoyaltyPoints); err != nil {
			return nil, persist("client.scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("client.scan", err)
	}
	return out, nil
}
