package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"partsmarket/internal/config"
	"partsmarket/internal/dto"
	"partsmarket/internal/model"
)

// TokenSource supplies the bearer token for authenticated calls. An
// empty token means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

// MarketClient is the outbound HTTP client for the marketplace API. One
// method per endpoint; every call is a single request with no retry.
type MarketClient interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error)

	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, payload *dto.ProductPayload) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, payload *dto.ProductPayload) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	GetCart(ctx context.Context) (*model.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*model.Cart, error)

	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error)
	ListOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	AnalyticsSummary(ctx context.Context) (*model.AnalyticsSummary, error)

	ListUsers(ctx context.Context) ([]*model.User, error)
	PromoteVIP(ctx context.Context, userID, specialClientCode string) (*model.User, error)
}

type marketClientImpl struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

func NewMarketClient(apiCfg *config.API, tokens TokenSource) MarketClient {
	timeout := time.Duration(apiCfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &marketClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: apiCfg.BaseURL,
		tokens:  tokens,
	}
}

// APIError is a non-2xx response from the marketplace. Message is the
// server's own wording so views can show it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace api error %d: %s", e.StatusCode, e.Message)
}

func (c *marketClientImpl) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		var errResp dto.ErrorResponse
		if json.Unmarshal(b, &errResp) != nil || errResp.Message == "" {
			errResp.Message = string(b)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// -------- auth --------

func (c *marketClientImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

func (c *marketClientImpl) Login(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

func (c *marketClientImpl) AdminLogin(ctx context.Context, creds *dto.Credentials) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/admin-login", creds, &resp); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	return &resp, nil
}

// -------- products --------

func (c *marketClientImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *marketClientImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, &product); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (c *marketClientImpl) CreateProduct(ctx context.Context, payload *dto.ProductPayload) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "/products", payload, &product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (c *marketClientImpl) UpdateProduct(ctx context.Context, productID string, payload *dto.ProductPayload) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+productID, payload, &product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}

func (c *marketClientImpl) DeleteProduct(ctx context.Context, productID string) error {
	if err := c.do(ctx, http.MethodDelete, "/products/"+productID, nil, nil); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// -------- cart --------

func (c *marketClientImpl) GetCart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

func (c *marketClientImpl) AddToCart(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	req := &dto.CartItemRequest{ProductID: productID, Quantity: quantity}
	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, "/cart", req, &cart); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &cart, nil
}

func (c *marketClientImpl) UpdateCartItem(ctx context.Context, productID string, quantity int) (*model.Cart, error) {
	req := &dto.UpdateCartItemRequest{Quantity: quantity}
	var cart model.Cart
	if err := c.do(ctx, http.MethodPut, "/cart/"+productID, req, &cart); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return &cart, nil
}

func (c *marketClientImpl) RemoveCartItem(ctx context.Context, productID string) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/"+productID, nil, &cart); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return &cart, nil
}

// -------- orders --------

func (c *marketClientImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (c *marketClientImpl) ListOrders(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (c *marketClientImpl) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	req := &dto.UpdateOrderStatusRequest{Status: status}
	var order model.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+orderID+"/status", req, &order); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return &order, nil
}

func (c *marketClientImpl) AnalyticsSummary(ctx context.Context) (*model.AnalyticsSummary, error) {
	var summary model.AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, "/orders/analytics/summary", nil, &summary); err != nil {
		return nil, fmt.Errorf("analytics summary: %w", err)
	}
	return &summary, nil
}

// -------- users --------

func (c *marketClientImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (c *marketClientImpl) PromoteVIP(ctx context.Context, userID, specialClientCode string) (*model.User, error) {
	req := &dto.PromoteVIPRequest{SpecialClientCode: specialClientCode}
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/users/"+userID+"/vip", req, &user); err != nil {
		return nil, fmt.Errorf("promote vip: %w", err)
	}
	return &user, nil
}
