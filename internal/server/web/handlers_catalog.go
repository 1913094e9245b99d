package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
	"github.com/Kiretori/Affineur-des-Alpes/internal/repository"
)

// pathID parses a positive integer path segment.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type storeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

type storeResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

func toStoreResponse(s model.Store) storeResponse {
	return storeResponse{ID: s.ID, Name: s.Name, Address: s.Address, City: s.City, Phone: s.Phone}
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	st := &model.Store{Name: req.Name, Address: req.Address, City: req.City, Phone: req.Phone}
	if err := s.stores.Create(r.Context(), st); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStoreResponse(*st))
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	list, err := s.stores.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]storeResponse, 0, len(list))
	for _, st := range list {
		out = append(out, toStoreResponse(st))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid store id")
		return
	}
	st, err := s.stores.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStoreResponse(*st))
}

func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid store id")
		return
	}
	n, err := s.stores.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

type productRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitPrice    float64 `json:"unit_price"`
	CentralStock int64   `json:"central_stock"`
}

type productResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitPrice    float64 `json:"unit_price"`
	CentralStock int64   `json:"central_stock"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Category: p.Category, UnitPrice: p.UnitPrice, CentralStock: p.CentralStock}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	if req.UnitPrice < 0 || req.CentralStock < 0 {
		badRequest(w, "unit_price and central_stock must not be negative")
		return
	}
	p := &model.Product{Name: req.Name, Category: req.Category, UnitPrice: req.UnitPrice, CentralStock: req.CentralStock}
	if err := s.products.Create(r.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*p))
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid product id")
		return
	}
	p, err := s.products.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid product id")
		return
	}
	n, err := s.products.Delete(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

type searchCondition struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

type searchRequest struct {
	Logic      string            `json:"logic"`
	Conditions []searchCondition `json:"conditions"`
}

// handleSearchProducts runs a conditional fetch. Field and operator
// validity is enforced by the repository's allowlists.
func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	logic := repository.Logic(req.Logic)
	if req.Logic == "" {
		logic = repository.LogicAll
	}
	conds := make([]repository.ProductCondition, 0, len(req.Conditions))
	for _, c := range req.Conditions {
		conds = append(conds, repository.ProductCondition{
			Field: repository.ProductField(c.Field),
			Op:    repository.Op(c.Op),
			Value: c.Value,
		})
	}
	list, err := s.products.FetchByConditions(r.Context(), conds, logic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]productResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type priceRequest struct {
	UnitPrice float64 `json:"unit_price"`
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid product id")
		return
	}
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.UnitPrice < 0 {
		badRequest(w, "unit_price must not be negative")
		return
	}
	n, err := s.products.UpdatePrice(r.Context(), id, req.UnitPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

type deltaRequest struct {
	Delta int64 `json:"delta"`
}

func parseDelta(w http.ResponseWriter, r *http.Request) (int64, bool) {
	var req deltaRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return 0, false
	}
	if req.Delta <= 0 {
		badRequest(w, "delta must be positive")
		return 0, false
	}
	return req.Delta, true
}

func (s *Server) handleIncrementCentralStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid product id")
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.products.IncrementStock(r.Context(), id, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func (s *Server) handleDecrementCentralStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid product id")
		return
	}
	delta, ok := parseDelta(w, r)
	if !ok {
		return
	}
	n, err := s.products.DecrementStock(r.Context(), id, delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

type promotionRequest struct {
	ProductID    int64     `json:"product_id"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DiscountRate float64   `json:"discount_rate"`
}

type promotionResponse struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DiscountRate float64   `json:"discount_rate"`
}

func toPromotionResponse(p model.Promotion) promotionResponse {
	return promotionResponse{
		ID: p.ID, ProductID: p.ProductID, Description: p.Description,
		StartDate: p.StartDate, EndDate: p.EndDate, DiscountRate: p.DiscountRate,
	}
}

func (s *Server) handleCreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid json body")
		return
	}
	if req.ProductID <= 0 {
		badRequest(w, "product_id is required")
		return
	}
	if req.DiscountRate < 0 || req.DiscountRate > 1 {
		badRequest(w, "discount_rate must be within [0, 1]")
		return
	}
	p := &model.Promotion{
		ProductID:    req.ProductID,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DiscountRate: req.DiscountRate,
	}
	if err := s.promotions.Create(r.Context(), p); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPromotionResponse(*p))
}

func (s *Server) handleListPromotions(w http.ResponseWriter, r *http.Request) {
	list, err := s.promotions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]promotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPromotionResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}
