package web

import (
	"net/http"
	"time"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
)

type orderRequest struct {
	ClientID  int64      `json:"client_id"`
	StoreID   int64      `json:"store_id"`
	OrderedAt *time.Time `json:"ordered_at"`
	Status    string     `json:"status"`
}

type orderResponse struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	StoreID   int64     `json:"store_id"`
	OrderedAt time.Time `json:"ordered_at"`
	Status    string    `json:"status"`
}

func toOrderResponse(o model.Order) orderResponse {
	return orderResponse{ID: o.ID, ClientID: o.ClientID, StoreID: o.StoreID, OrderedAt: o.OrderedAt, Status: o.Status}
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.ClientID <= 0 || req.StoreID <= 0 {
		badRequest(w, "client_id and store_id are required")
		return
	}
	orderedAt := time.Now().UTC()
	if req.OrderedAt != nil {
		orderedAt = *req.OrderedAt
	}
	status := req.Status
	if status == "" {
		status = "pending"
	}
	o := &model.Order{ClientID: req.ClientID, StoreID: req.StoreID, OrderedAt: orderedAt, Status: status}
	if err := s.orders.CreateOrder(r.Context(), o); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*o))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid order id")
		return
	}
	o, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

type orderLineRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type orderLineResponse struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func toOrderLineResponse(l model.OrderLine) orderLineResponse {
	return orderLineResponse{ID: l.ID, OrderID: l.OrderID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
}

func (s *Server) handleAddOrderLine(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid order id")
		return
	}
	var req orderLineRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		badRequest(w, "product_id and a positive quantity are required")
		return
	}
	if req.UnitPrice < 0 {
		badRequest(w, "unit_price must not be negative")
		return
	}
	l := &model.OrderLine{OrderID: orderID, ProductID: req.ProductID, Quantity: req.Quantity, UnitPrice: req.UnitPrice}
	if err := s.orders.AddLine(r.Context(), l); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderLineResponse(*l))
}

func (s *Server) handleListOrderLines(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid order id")
		return
	}
	list, err := s.orders.ListLines(r.Context(), orderID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]orderLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toOrderLineResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

type deliveryRequest struct {
	OrderID      int64      `json:"order_id"`
	StoreID      int64      `json:"store_id"`
	DeliveryDate *time.Time `json:"delivery_date"`
	Status       string     `json:"status"`
}

type deliveryResponse struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	StoreID      int64     `json:"store_id"`
	DeliveryDate time.Time `json:"delivery_date"`
	Status       string    `json:"status"`
}

func (s *Server) handleCreateDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.OrderID <= 0 || req.StoreID <= 0 {
		badRequest(w, "order_id and store_id are required")
		return
	}
	date := time.Now().UTC()
	if req.DeliveryDate != nil {
		date = *req.DeliveryDate
	}
	status := req.Status
	if status == "" {
		status = "scheduled"
	}
	d := &model.Delivery{OrderID: req.OrderID, StoreID: req.StoreID, DeliveryDate: date, Status: status}
	if err := s.orders.CreateDelivery(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deliveryResponse{
		ID: d.ID, OrderID: d.OrderID, StoreID: d.StoreID, DeliveryDate: d.DeliveryDate, Status: d.Status,
	})
}

type invoiceRequest struct {
	OrderID     int64      `json:"order_id"`
	TotalAmount float64    `json:"total_amount"`
	InvoicedAt  *time.Time `json:"invoiced_at"`
}

type invoiceResponse struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	TotalAmount float64   `json:"total_amount"`
	InvoicedAt  time.Time `json:"invoiced_at"`
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.OrderID <= 0 {
		badRequest(w, "order_id is required")
		return
	}
	if req.TotalAmount < 0 {
		badRequest(w, "total_amount must not be negative")
		return
	}
	invoicedAt := time.Now().UTC()
	if req.InvoicedAt != nil {
		invoicedAt = *req.InvoicedAt
	}
	inv := &model.Invoice{OrderID: req.OrderID, TotalAmount: req.TotalAmount, InvoicedAt: invoicedAt}
	if err := s.orders.CreateInvoice(r.Context(), inv); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoiceResponse{
		ID: inv.ID, OrderID: inv.OrderID, TotalAmount: inv.TotalAmount, InvoicedAt: inv.InvoicedAt,
	})
}

type stockEntryRequest struct {
	Quantity int64 `json:"quantity"`
}

type stockEntryResponse struct {
	StoreID   int64 `json:"store_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func stockIDs(w http.ResponseWriter, r *http.Request) (storeID, productID int64, ok bool) {
	storeID, ok = pathID(r, "id")
	if !ok {
		badRequest(w, "invalid store id")
		return 0, 0, false
	}
	productID, ok = pathID(r, "productID")
	if !ok {
		badRequest(w, "invalid product id")
		return 0, 0, false
	}
	return storeID, productID, true
}

func (s *Server) handleCreateStockEntry(w http.ResponseWriter, r *http.Request) {
	storeID, productID, ok := stockIDs(w, r)
	if !ok {
		return
	}
	var req stockEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.Quantity < 0 {
		badRequest(w, "quantity must not be negative")
		return
	}
	e := &model.StockEntry{StoreID: storeID, ProductID: productID, Quantity: req.Quantity}
	if err := s.stock.CreateEntry(r.Context(), e); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stockEntryResponse{StoreID: e.StoreID, ProductID: e.ProductID, Quantity: e.Quantity})
}

func (s *Server) handleGetStockEntry(w http.ResponseWriter, r *http.Request) {
	storeID, productID, ok := stockIDs(w, r)
	if !ok {
		return
	}
	e, err := s.stock.Get(r.Context(), storeID, productID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stockEntryResponse{StoreID: e.StoreID, ProductID: e.ProductID, Quantity: e.Quantity})
}

func (s *Server) handleIncrementStoreStock(w http.ResponseWriter, r *http.Request) {
	storeID, productID, ok := stockIDs(w, r)
	if !ok {
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.stock.Increment(r.Context(), storeID, productID, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (s *Server) handleDecrementStoreStock(w http.ResponseWriter, r *http.Request) {
	storeID, productID, ok := stockIDs(w, r)
	if !ok {
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.stock.Decrement(r.Context(), storeID, productID, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
