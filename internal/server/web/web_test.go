package web

import (
	"context"
	"net/http/httptest"
	"time"

	"go.uber.org/zap"

	"github.com/Kiretori/Affineur-des-Alpes/internal/errs"
	"github.com/Kiretori/Affineur-des-Alpes/internal/model"
	"github.com/Kiretori/Affineur-des-Alpes/internal/repository"
	"github.com/Kiretori/Affineur-des-Alpes/internal/service"
	"github.com/Kiretori/Affineur-des-Alpes/internal/token"
)

// Function-field stubs: a nil field means the test does not expect the
// call, and reaching it fails loudly via the returned sentinel.

type stubAuth struct {
	register func(ctx context.Context, username, password, confirm string) (*model.User, error)
	login    func(ctx context.Context, username, password, ip string) (model.Session, *model.User, error)
}

var _ service.AuthService = (*stubAuth)(nil)

func (s *stubAuth) Register(ctx context.Context, username, password, confirm string) (*model.User, error) {
	if s.register == nil {
		return nil, errs.ErrNotFound
	}
	return s.register(ctx, username, password, confirm)
}

func (s *stubAuth) LoginWithIP(ctx context.Context, username, password, ip string) (model.Session, *model.User, error) {
	if s.login == nil {
		return model.Session{}, nil, errs.ErrInvalidCredentials
	}
	return s.login(ctx, username, password, ip)
}

type stubStores struct {
	create  func(ctx context.Context, s *model.Store) error
	getByID func(ctx context.Context, id int64) (*model.Store, error)
	list    func(ctx context.Context) ([]model.Store, error)
	del     func(ctx context.Context, id int64) (int64, error)
}

var _ repository.StoreRepository = (*stubStores)(nil)

func (s *stubStores) Create(ctx context.Context, st *model.Store) error {
	if s.create == nil {
		return errs.ErrNotFound
	}
	return s.create(ctx, st)
}

func (s *stubStores) GetByID(ctx context.Context, id int64) (*model.Store, error) {
	if s.getByID == nil {
		return nil, errs.ErrNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubStores) List(ctx context.Context) ([]model.Store, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

func (s *stubStores) Delete(ctx context.Context, id int64) (int64, error) {
	if s.del == nil {
		return 0, errs.ErrNotFound
	}
	return s.del(ctx, id)
}

type stubProducts struct {
	create         func(ctx context.Context, p *model.Product) error
	getByID        func(ctx context.Context, id int64) (*model.Product, error)
	list           func(ctx context.Context) ([]model.Product, error)
	fetch          func(ctx context.Context, conds []repository.ProductCondition, logic repository.Logic) ([]model.Product, error)
	updatePrice    func(ctx context.Context, id int64, price float64) (int64, error)
	incrementStock func(ctx context.Context, id, delta int64) (int64, error)
	decrementStock func(ctx context.Context, id, delta int64) (int64, error)
	del            func(ctx context.Context, id int64) (int64, error)
}

var _ repository.ProductRepository = (*stubProducts)(nil)

func (s *stubProducts) Create(ctx context.Context, p *model.Product) error {
	if s.create == nil {
		return errs.ErrNotFound
	}
	return s.create(ctx, p)
}

func (s *stubProducts) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.getByID == nil {
		return nil, errs.ErrNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubProducts) List(ctx context.Context) ([]model.Product, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

func (s *stubProducts) FetchByConditions(ctx context.Context, conds []repository.ProductCondition, logic repository.Logic) ([]model.Product, error) {
	if s.fetch == nil {
		return nil, nil
	}
	return s.fetch(ctx, conds, logic)
}

func (s *stubProducts) UpdatePrice(ctx context.Context, id int64, price float64) (int64, error) {
	if s.updatePrice == nil {
		return 0, errs.ErrNotFound
	}
	return s.updatePrice(ctx, id, price)
}

func (s *stubProducts) IncrementStock(ctx context.Context, id, delta int64) (int64, error) {
	if s.incrementStock == nil {
		return 0, errs.ErrNotFound
	}
	return s.incrementStock(ctx, id, delta)
}

func (s *stubProducts) DecrementStock(ctx context.Context, id, delta int64) (int64, error) {
	if s.decrementStock == nil {
		return 0, errs.ErrNotFound
	}
	return s.decrementStock(ctx, id, delta)
}

func (s *stubProducts) Delete(ctx context.Context, id int64) (int64, error) {
	if s.del == nil {
		return 0, errs.ErrNotFound
	}
	return s.del(ctx, id)
}

type stubPromotions struct {
	create func(ctx context.Context, p *model.Promotion) error
	list   func(ctx context.Context) ([]model.Promotion, error)
}

var _ repository.PromotionRepository = (*stubPromotions)(nil)

func (s *stubPromotions) Create(ctx context.Context, p *model.Promotion) error {
	if s.create == nil {
		return errs.ErrNotFound
	}
	return s.create(ctx, p)
}

func (s *stubPromotions) List(ctx context.Context) ([]model.Promotion, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

type stubClients struct {
	create          func(ctx context.Context, c *model.Client) error
	getByID         func(ctx context.Context, id int64) (*model.Client, error)
	list            func(ctx context.Context) ([]model.Client, error)
	listByType      func(ctx context.Context, clientType string) ([]model.Client, error)
	listByMinPoints func(ctx context.Context, minPoints int64) ([]model.Client, error)
	del             func(ctx context.Context, id int64) (int64, error)
	addPoints       func(ctx context.Context, id, delta int64) (int64, error)
	redeemPoints    func(ctx context.Context, id, delta int64) (int64, error)
	addEntry        func(ctx context.Context, e *model.LoyaltyEntry) error
	listEntries     func(ctx context.Context, clientID int64) ([]model.LoyaltyEntry, error)
}

var _ repository.ClientRepository = (*stubClients)(nil)

func (s *stubClients) Create(ctx context.Context, c *model.Client) error {
	if s.create == nil {
		return errs.ErrNotFound
	}
	return s.create(ctx, c)
}

func (s *stubClients) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	if s.getByID == nil {
		return nil, errs.ErrNotFound
	}
	return s.getByID(ctx, id)
}

func (s *stubClients) List(ctx context.Context) ([]model.Client, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

func (s *stubClients) ListByType(ctx context.Context, clientType string) ([]model.Client, error) {
	if s.listByType == nil {
		return nil, nil
	}
	return s.listByType(ctx, clientType)
}

func (s *stubClients) ListByMinPoints(ctx context.Context, minPoints int64) ([]model.Client, error) {
	if s.listByMinPoints == nil {
		return nil, nil
	}
	return s.listByMinPoints(ctx, minPoints)
}

func (s *stubClients) Delete(ctx context.Context, id int64) (int64, error) {
	if s.del == nil {
		return 0, errs.ErrNotFound
	}
	return s.del(ctx, id)
}

func (s *stubClients) AddPoints(ctx context.Context, id, delta int64) (int64, error) {
	if s.addPoints == nil {
		return 0, errs.ErrNotFound
	}
	return s.addPoints(ctx, id, delta)
}

func (s *stubClients) RedeemPoints(ctx context.Context, id, delta int64) (int64, error) {
	if s.redeemPoints == nil {
		return 0, errs.ErrNotFound
	}
	return s.redeemPoints(ctx, id, delta)
}

func (s *stubClients) AddLoyaltyEntry(ctx context.Context, e *model.LoyaltyEntry) error {
	if s.addEntry == nil {
		return errs.ErrNotFound
	}
	return s.addEntry(ctx, e)
}

func (s *stubClients) ListLoyaltyEntries(ctx context.Context, clientID int64) ([]model.LoyaltyEntry, error) {
	if s.listEntries == nil {
		return nil, nil
	}
	return s.listEntries(ctx, clientID)
}

type stubOrders struct {
	createOrder    func(ctx context.Context, o *model.Order) error
	getOrder       func(ctx context.Context, id int64) (*model.Order, error)
	addLine        func(ctx context.Context, l *model.OrderLine) error
	listLines      func(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	createDelivery func(ctx context.Context, d *model.Delivery) error
	createInvoice  func(ctx context.Context, inv *model.Invoice) error
}

var _ repository.OrderRepository = (*stubOrders)(nil)

func (s *stubOrders) CreateOrder(ctx context.Context, o *model.Order) error {
	if s.createOrder == nil {
		return errs.ErrNotFound
	}
	return s.createOrder(ctx, o)
}

func (s *stubOrders) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	if s.getOrder == nil {
		return nil, errs.ErrNotFound
	}
	return s.getOrder(ctx, id)
}

func (s *stubOrders) AddLine(ctx context.Context, l *model.OrderLine) error {
	if s.addLine == nil {
		return errs.ErrNotFound
	}
	return s.addLine(ctx, l)
}

func (s *stubOrders) ListLines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	if s.listLines == nil {
		return nil, nil
	}
	return s.listLines(ctx, orderID)
}

func (s *stubOrders) CreateDelivery(ctx context.Context, d *model.Delivery) error {
	if s.createDelivery == nil {
		return errs.ErrNotFound
	}
	return s.createDelivery(ctx, d)
}

func (s *stubOrders) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	if s.createInvoice == nil {
		return errs.ErrNotFound
	}
	return s.createInvoice(ctx, inv)
}

type stubStock struct {
	createEntry func(ctx context.Context, e *model.StockEntry) error
	get         func(ctx context.Context, storeID, productID int64) (*model.StockEntry, error)
	increment   func(ctx context.Context, storeID, productID, delta int64) (int64, error)
	decrement   func(ctx context.Context, storeID, productID, delta int64) (int64, error)
}

var _ repository.StockRepository = (*stubStock)(nil)

func (s *stubStock) CreateEntry(ctx context.Context, e *model.StockEntry) error {
	if s.createEntry == nil {
		return errs.ErrNotFound
	}
	return s.createEntry(ctx, e)
}

func (s *stubStock) Get(ctx context.Context, storeID, productID int64) (*model.StockEntry, error) {
	if s.get == nil {
		return nil, errs.ErrNotFound
	}
	return s.get(ctx, storeID, productID)
}

func (s *stubStock) Increment(ctx context.Context, storeID, productID, delta int64) (int64, error) {
	if s.increment == nil {
		return 0, errs.ErrNotFound
	}
	return s.increment(ctx, storeID, productID, delta)
}

func (s *stubStock) Decrement(ctx context.Context, storeID, productID, delta int64) (int64, error) {
	if s.decrement == nil {
		return 0, errs.ErrNotFound
	}
	return s.decrement(ctx, storeID, productID, delta)
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

// testEnv wires a Server over stubs with a real token issuer so the
// middleware path is exercised end to end.
type testEnv struct {
	srv        *httptest.Server
	issuer     *token.Issuer
	auth       *stubAuth
	stores     *stubStores
	products   *stubProducts
	promotions *stubPromotions
	clients    *stubClients
	orders     *stubOrders
	stock      *stubStock
	pinger     *stubPinger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		issuer:     token.NewIssuer([]byte("test-secret"), time.Minute),
		auth:       &stubAuth{},
		stores:     &stubStores{},
		products:   &stubProducts{},
		promotions: &stubPromotions{},
		clients:    &stubClients{},
		orders:     &stubOrders{},
		stock:      &stubStock{},
		pinger:     &stubPinger{},
	}
	s := New(Deps{
		Auth:       env.auth,
		Tokens:     env.issuer,
		Stores:     env.stores,
		Products:   env.products,
		Promotions: env.promotions,
		Clients:    env.clients,
		Orders:     env.orders,
		Stock:      env.stock,
		Pinger:     env.pinger,
		Logger:     zap.NewNop(),
	})
	env.srv = httptest.NewServer(s.Handler())
	return env
}

func (e *testEnv) close() { e.srv.Close() }

// tokenFor issues a valid bearer token for the given role.
func (e *testEnv) tokenFor(role model.Role) string {
	raw, _, err := e.issuer.Issue(7, "casey", role)
	if err != nil {
		panic(err)
	}
	return raw
}
