package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"partsmarket/internal/auth"
	"partsmarket/internal/client"
	"partsmarket/internal/config"
	"partsmarket/internal/dto"
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/repository"
	"partsmarket/internal/service"
)

type tokenHolder struct {
	mu  sync.Mutex
	tok string
}

func (h *tokenHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tok
}

func (h *tokenHolder) set(tok string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tok = tok
}

// env wires the whole server onto a temp database and points a real
// MarketClient at it over loopback HTTP.
type env struct {
	api      client.MarketClient
	tokens   *tokenHolder
	users    repository.UserRepository
	products repository.ProductRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := client.InitSqliteClient(filepath.Join(t.TempDir(), "api.db"))
	tokenMgr := auth.NewTokenManager("e2e-secret")

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	carts := repository.NewCartRepository(db)
	orders := repository.NewOrderRepository(db)

	srv := NewServer(
		tokenMgr,
		service.NewAuthService(users, tokenMgr),
		service.NewCatalogService(products),
		service.NewCartService(carts, products),
		service.NewOrderService(db, orders, carts, products),
		service.NewUserService(users, "VIP"),
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	holder := &tokenHolder{}
	return &env{
		api:      client.NewMarketClient(&config.API{BaseURL: ts.URL + "/api", TimeoutSeconds: 5}, holder),
		tokens:   holder,
		users:    users,
		products: products,
	}
}

func (e *env) seedAdmin(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(context.Background(), &entity.User{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        "admin@partsmarket.local",
		PasswordHash: string(hash),
		UserType:     string(model.TierAdmin),
	}))
}

func (e *env) seedScreen(t *testing.T, stock int) {
	t.Helper()
	require.NoError(t, e.products.Create(context.Background(), &entity.Product{
		ID:               "scr-1",
		Name:             "iPhone 13 OLED Screen",
		Category:         "screens",
		StockQuantity:    stock,
		AdminPrice:       decimal.NewFromInt(50),
		VIPCustomerPrice: decimal.NewFromInt(80),
		CustomerPrice:    decimal.NewFromInt(100),
	}))
}

func (e *env) registerCustomer(t *testing.T, email string) *model.User {
	t.Helper()
	resp, err := e.api.Register(context.Background(), &dto.RegisterRequest{
		Name: "Customer", Email: email, Password: "secret1",
	})
	require.NoError(t, err)
	e.tokens.set(resp.Token)
	return resp.User
}

func (e *env) loginAdmin(t *testing.T) {
	t.Helper()
	resp, err := e.api.AdminLogin(context.Background(), &dto.Credentials{
		Email: "admin@partsmarket.local", Password: "admin123",
	})
	require.NoError(t, err)
	e.tokens.set(resp.Token)
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

func TestAnonymousCatalogShowsCustomerPrices(t *testing.T) {
	e := newEnv(t)
	e.seedScreen(t, 5)

	products, err := e.api.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(products[0].Price))
}

func TestPriceFollowsTierAcrossPromotion(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t)
	e.seedScreen(t, 5)
	ctx := context.Background()

	customer := e.registerCustomer(t, "sami@example.tn")
	before, err := e.api.GetProduct(ctx, "scr-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(before.Price))

	e.loginAdmin(t)
	promoted, err := e.api.PromoteVIP(ctx, customer.ID, "VIP")
	require.NoError(t, err)
	assert.Equal(t, model.TierVIPCustomer, promoted.UserType)

	// the old token still carries the customer tier; re-login picks up
	// the new one
	resp, err := e.api.Login(ctx, &dto.Credentials{Email: "sami@example.tn", Password: "secret1"})
	require.NoError(t, err)
	e.tokens.set(resp.Token)

	after, err := e.api.GetProduct(ctx, "scr-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(after.Price))
}

func TestCheckoutOverAPI(t *testing.T) {
	e := newEnv(t)
	e.seedScreen(t, 5)
	ctx := context.Background()

	e.registerCustomer(t, "sami@example.tn")
	cart, err := e.api.AddToCart(ctx, "scr-1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Products, 1)

	order, err := e.api.CreateOrder(ctx, &dto.CreateOrderRequest{
		ShippingAddress: "5 Av Habib Bourguiba, Tunis",
		PaymentMethod:   model.PaymentCashOnDelivery,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(order.TotalPrice))

	product, err := e.api.GetProduct(ctx, "scr-1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.StockQuantity)

	cart, err = e.api.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Products)

	orders, err := e.api.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckoutStockConflict(t *testing.T) {
	e := newEnv(t)
	e.seedScreen(t, 2)
	ctx := context.Background()

	e.registerCustomer(t, "sami@example.tn")
	_, err := e.api.AddToCart(ctx, "scr-1", 3)
	require.NoError(t, err)

	_, err = e.api.CreateOrder(ctx, &dto.CreateOrderRequest{ShippingAddress: "addr"})
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Not enough stock for iPhone 13 OLED Screen. Available: 2", apiErr.Message)
}

func TestAdminLoginRejectsCustomer(t *testing.T) {
	e := newEnv(t)
	e.registerCustomer(t, "sami@example.tn")

	_, err := e.api.AdminLogin(context.Background(), &dto.Credentials{
		Email: "sami@example.tn", Password: "secret1",
	})
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))
}

func TestCartRequiresAuth(t *testing.T) {
	e := newEnv(t)

	_, err := e.api.GetCart(context.Background())
	assert.Equal(t, http.StatusUnauthorized, apiStatus(t, err))
}

func TestCustomerCannotManageCatalog(t *testing.T) {
	e := newEnv(t)
	e.registerCustomer(t, "sami@example.tn")

	_, err := e.api.CreateProduct(context.Background(), &dto.ProductPayload{Name: "X"})
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))
}

func TestAdminOrderConsole(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t)
	e.seedScreen(t, 5)
	ctx := context.Background()

	e.registerCustomer(t, "sami@example.tn")
	_, err := e.api.AddToCart(ctx, "scr-1", 1)
	require.NoError(t, err)
	order, err := e.api.CreateOrder(ctx, &dto.CreateOrderRequest{ShippingAddress: "addr"})
	require.NoError(t, err)

	// a customer may not touch order status
	_, err = e.api.UpdateOrderStatus(ctx, order.ID, model.OrderShipped)
	assert.Equal(t, http.StatusForbidden, apiStatus(t, err))

	e.loginAdmin(t)
	updated, err := e.api.UpdateOrderStatus(ctx, order.ID, model.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, updated.Status)

	summary, err := e.api.AnalyticsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.OrdersCount)
	assert.True(t, decimal.NewFromInt(100).Equal(summary.TotalSales))
	assert.Equal(t, 1, summary.ByStatus[model.OrderShipped])

	users, err := e.api.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminManagesCatalog(t *testing.T) {
	e := newEnv(t)
	e.seedAdmin(t)
	e.loginAdmin(t)
	ctx := context.Background()

	created, err := e.api.CreateProduct(ctx, &dto.ProductPayload{
		Name:          "Galaxy S21 Battery",
		Category:      "batteries",
		StockQuantity: 10,
		Pricing: &model.Pricing{
			AdminPrice:       decimal.NewFromInt(15),
			VIPCustomerPrice: decimal.NewFromInt(25),
			CustomerPrice:    decimal.NewFromInt(35),
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.True(t, decimal.NewFromInt(15).Equal(created.Price), "admin sees the admin column")

	updated, err := e.api.UpdateProduct(ctx, created.ID, &dto.ProductPayload{
		Name:          "Galaxy S21 Battery",
		Category:      "batteries",
		StockQuantity: 4,
		Pricing:       created.Pricing,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.StockQuantity)

	require.NoError(t, e.api.DeleteProduct(ctx, created.ID))
	_, err = e.api.GetProduct(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
}
