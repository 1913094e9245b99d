package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

// OrderRepo implements OrderRepository using PostgreSQL.
type OrderRepo struct{ db *DB }

// NewOrderRepo constructs an order repository.
func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

// inTx runs fn inside a transaction with rollback on error, commit otherwise.
func (r *OrderRepo) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) (err error) {
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
	return fn(tx)
}

// CreateOrder resolves client and store references, then inserts the order.
// Nothing is persisted when any reference is missing.
func (r *OrderRepo) CreateOrder(ctx context.Context, o *model.Order) error {
	const op = "order.create"
	return r.inTx(ctx, op, func(tx pgx.Tx) error {
		ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id=$1)`, o.ClientID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("client", o.ClientID)
		}
		ok, err = refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM stores WHERE id=$1)`, o.StoreID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("store", o.StoreID)
		}

		const ins = `
INSERT INTO orders (client_id, store_id, ordered_at, status)
VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRow(ctx, ins, o.ClientID, o.StoreID, o.OrderedAt, o.Status).Scan(&o.ID); err != nil {
			return persist(op, err)
		}
		return nil
	})
}

// GetOrder selects an order by ID.
func (r *OrderRepo) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	const q = `
SELECT id, client_id, store_id, ordered_at, status
FROM orders WHERE id=$1`
	var o model.Order
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.ClientID, &o.StoreID, &o.OrderedAt, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, persist("order.get", err)
	}
	return &o, nil
}

// AddLine resolves order and product references, then inserts the line.
func (r *OrderRepo) AddLine(ctx context.Context, l *model.OrderLine) error {
	const op = "order.add_line"
	return r.inTx(ctx, op, func(tx pgx.Tx) error {
		ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, l.OrderID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("order", l.OrderID)
		}
		ok, err = refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, l.ProductID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("product", l.ProductID)
		}

		const ins = `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRow(ctx, ins, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice).Scan(&l.ID); err != nil {
			return persist(op, err)
		}
		return nil
	})
}

// ListLines returns the lines of an order ordered by ID.
func (r *OrderRepo) ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	const q = `
SELECT id, order_id, product_id, quantity, unit_price
FROM order_lines WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, persist("order.list_lines", err)
	}
	defer rows.Close()

	var out []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, persist("order.list_lines", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, persist("order.list_lines", err)
	}
	return out, nil
}

// CreateDelivery resolves order and store references, then inserts the delivery.
func (r *OrderRepo) CreateDelivery(ctx context.Context, d *model.Delivery) error {
	const op = "delivery.create"
	return r.inTx(ctx, op, func(tx pgx.Tx) error {
		ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, d.OrderID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("order", d.OrderID)
		}
		ok, err = refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM stores WHERE id=$1)`, d.StoreID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("store", d.StoreID)
		}

		const ins = `
INSERT INTO deliveries (order_id, store_id, delivery_date, status)
VALUES ($1, $2, $3, $4) RETURNING id`
		if err := tx.QueryRow(ctx, ins, d.OrderID, d.StoreID, d.DeliveryDate, d.Status).Scan(&d.ID); err != nil {
			return persist(op, err)
		}
		return nil
	})
}

// CreateInvoice resolves the order reference, then inserts the invoice.
func (r *OrderRepo) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	const op = "invoice.create"
	return r.inTx(ctx, op, func(tx pgx.Tx) error {
		ok, err := refExists(ctx, tx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, inv.OrderID)
		if err != nil {
			return persist(op, err)
		}
		if !ok {
			return refMissing("order", inv.OrderID)
		}

		const ins = `
INSERT INTO invoices (order_id, total_amount, invoiced_at)
VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRow(ctx, ins, inv.OrderID, inv.TotalAmount, inv.InvoicedAt).Scan(&inv.ID); err != nil {
			return persist(op, err)
		}
		return nil
	})
}
