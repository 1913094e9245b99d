package web

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Kiretori/Affineur-des-Alpes/internal/repository"
	"github.com/Kiretori/Affineur-des-Alpes/internal/service"
	"github.com/Kiretori/Affineur-des-Alpes/internal/token"
)

// Pinger reports backend liveness; satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Auth       service.AuthService
	Tokens     *token.Issuer
	Stores     repository.StoreRepository
	Products   repository.ProductRepository
	Promotions repository.PromotionRepository
	Clients    repository.ClientRepository
	Orders     repository.OrderRepository
	Stock      repository.StockRepository
	Pinger     Pinger
	Logger     *zap.Logger
}

// Server is the HTTP transport over the application services and
// repositories. It owns no business rules beyond request decoding and
// the error-to-status mapping.
type Server struct {
	auth       service.AuthService
	tokens     *token.Issuer
	stores     repository.StoreRepository
	products   repository.ProductRepository
	promotions repository.PromotionRepository
	clients    repository.ClientRepository
	orders     repository.OrderRepository
	stock      repository.StockRepository
	pinger     Pinger
	log        *zap.Logger
}

// New constructs the Server from its dependencies.
func New(d Deps) *Server {
	return &Server{
		auth:       d.Auth,
		tokens:     d.Tokens,
		stores:     d.Stores,
		products:   d.Products,
		promotions: d.Promotions,
		clients:    d.Clients,
		orders:     d.Orders,
		stock:      d.Stock,
		pinger:     d.Pinger,
		log:        d.Logger,
	}
}

// Handler builds the full route table with the middleware chain applied.
// Everything outside /auth, /login and /healthz requires a valid token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public surface.
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/{$}", s.handleSignup)
	mux.HandleFunc("POST /auth/token", s.handleToken)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /login", s.handleLoginHint)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Authenticated surface.
	auth := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.authenticate(h))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.authenticate(s.requireAdmin(h)))
	}

	auth("GET /{$}", s.handleWhoAmI)
	admin("GET /admin-only", s.handleAdminOnly)

	auth("POST /stores", s.handleCreateStore)
	auth("GET /stores", s.handleListStores)
	auth("GET /stores/{id}", s.handleGetStore)
	admin("DELETE /stores/{id}", s.handleDeleteStore)

	auth("POST /products", s.handleCreateProduct)
	auth("GET /products", s.handleListProducts)
	auth("GET /products/{id}", s.handleGetProduct)
	auth("POST /products/search", s.handleSearchProducts)
	auth("PATCH /products/{id}/price", s.handleUpdatePrice)
	auth("POST /products/{id}/stock/increment", s.handleIncrementCentralStock)
	auth("POST /products/{id}/stock/decrement", s.handleDecrementCentralStock)
	admin("DELETE /products/{id}", s.handleDeleteProduct)

	auth("POST /promotions", s.handleCreatePromotion)
	auth("GET /promotions", s.handleListPromotions)

	auth("POST /clients", s.handleCreateClient)
	auth("GET /clients", s.handleListClients)
	auth("GET /clients/{id}", s.handleGetClient)
	admin("DELETE /clients/{id}", s.handleDeleteClient)
	auth("POST /clients/{id}/points/add", s.handleAddPoints)
	auth("POST /clients/{id}/points/redeem", s.handleRedeemPoints)
	auth("POST /clients/{id}/loyalty", s.handleAddLoyaltyEntry)
	auth("GET /clients/{id}/loyalty", s.handleListLoyaltyEntries)

	auth("POST /orders", s.handleCreateOrder)
	auth("GET /orders/{id}", s.handleGetOrder)
	auth("POST /orders/{id}/lines", s.handleAddOrderLine)
	auth("GET /orders/{id}/lines", s.handleListOrderLines)
	auth("POST /deliveries", s.handleCreateDelivery)
	auth("POST /invoices", s.handleCreateInvoice)

	auth("PUT /stores/{id}/stock/{productID}", s.handleCreateStockEntry)
	auth("GET /stores/{id}/stock/{productID}", s.handleGetStockEntry)
	auth("POST /stores/{id}/stock/{productID}/increment", s.handleIncrementStoreStock)
	auth("POST /stores/{id}/stock/{productID}/decrement", s.handleDecrementStoreStock)

	return s.withRecover(s.withLogging(mux))
}
