// Package model defines domain entities used by services and repositories.
package model

import "time"

// Role is the coarse authorization level attached to a user account.
type Role string

const (
	RoleRegular Role = "regular"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool { return r == RoleRegular || r == RoleAdmin }

// User is a back-office account. Only the bcrypt digest is ever stored.
type User struct {
	ID        int64
	Username  string // unique
	PwdHash   string // bcrypt digest
	Role      Role
	CreatedAt time.Time
}

// Session is the result of a successful login. Tokens are not persisted;
// a token stays valid until its embedded expiry.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Store is a physical shop. Leaf entity, no foreign keys.
type Store struct {
	ID      int64
	Name    string
	Address string
	City    string
	Phone   string
}

// Product is a catalogue entry with the central warehouse stock counter.
// CentralStock is only mutated through clamped increment/decrement.
type Product struct {
	ID           int64
	Name         string
	Category     string
	UnitPrice    float64 // >= 0
	CentralStock int64   // >= 0
}

// Client is a buyer (shop or individual) with a loyalty-points counter.
type Client struct {
	ID            int64
	Name          string
	ClientType    string
	Address       string // optional
	Phone         string // optional
	LoyaltyPoints int64  // >= 0
}

// Promotion is a time-bounded discount on a product.
type Promotion struct {
	ID           int64
	ProductID    int64 // FK -> products.id
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	DiscountRate float64
}

// Order references the client who placed it and the store that took it.
type Order struct {
	ID        int64
	ClientID  int64 // FK -> clients.id
	StoreID   int64 // FK -> stores.id
	OrderedAt time.Time
	Status    string
}

// OrderLine is one product position within an order.
type OrderLine struct {
	ID        int64
	OrderID   int64 // FK -> orders.id
	ProductID int64 // FK -> products.id
	Quantity  int64
	UnitPrice float64
}

// Delivery schedules the fulfilment of an order to a store.
type Delivery struct {
	ID           int64
	OrderID      int64 // FK -> orders.id
	StoreID      int64 // FK -> stores.id
	DeliveryDate time.Time
	Status       string
}

// Invoice bills a completed order.
type Invoice struct {
	ID          int64
	OrderID     int64 // FK -> orders.id
	TotalAmount float64
	InvoicedAt  time.Time
}

// StockEntry is the per-store quantity of a product (composite key).
// Quantity is only mutated through clamped adjustments.
type StockEntry struct {
	StoreID   int64 // FK -> stores.id
	ProductID int64 // FK -> products.id
	Quantity  int64 // >= 0
}

// LoyaltyEntry is an append-only ledger record of a points operation.
// Inserting one does not move the client counter by itself; callers pair
// it with AddPoints/RedeemPoints.
type LoyaltyEntry struct {
	ID          int64
	ClientID    int64 // FK -> clients.id
	RecordedAt  time.Time
	PointsDelta int64
	Description string // optional
}
