package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"partsmarket/internal/auth"
	"partsmarket/internal/handler"
	"partsmarket/internal/middleware"
	"partsmarket/internal/service"
)

type Server struct {
	echo           *echo.Echo
	tokens         *auth.TokenManager
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	userHandler    *handler.UserHandler
}

func NewServer(
	tokens *auth.TokenManager,
	authService service.AuthService,
	catalogService service.CatalogService,
	cartService service.CartService,
	orderService service.OrderService,
	userService service.UserService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		tokens:         tokens,
		authHandler:    handler.NewAuthHandler(authService),
		productHandler: handler.NewProductHandler(catalogService),
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(orderService),
		userHandler:    handler.NewUserHandler(userService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.authHandler.Register)
	authGroup.POST("/login", s.authHandler.Login)
	authGroup.POST("/admin-login", s.authHandler.AdminLogin)

	// -------- products (catalog browsable anonymously) --------
	api.GET("/products", s.productHandler.List, middleware.OptionalAuth(s.tokens))
	api.GET("/products/:id", s.productHandler.Get, middleware.OptionalAuth(s.tokens))
	api.POST("/products", s.productHandler.Create, middleware.Auth(s.tokens), middleware.RequireAdmin())
	api.PUT("/products/:id", s.productHandler.Update, middleware.Auth(s.tokens), middleware.RequireAdmin())
	api.DELETE("/products/:id", s.productHandler.Delete, middleware.Auth(s.tokens), middleware.RequireAdmin())

	// -------- cart --------
	cart := api.Group("/cart", middleware.Auth(s.tokens))
	cart.GET("", s.cartHandler.Get)
	cart.POST("", s.cartHandler.Add)
	cart.PUT("/:productId", s.cartHandler.UpdateItem)
	cart.DELETE("/:productId", s.cartHandler.RemoveItem)

	// -------- orders --------
	orders := api.Group("/orders", middleware.Auth(s.tokens))
	orders.POST("", s.orderHandler.Create)
	orders.GET("", s.orderHandler.List)
	orders.PUT("/:id/status", s.orderHandler.UpdateStatus, middleware.RequireAdmin())
	orders.GET("/analytics/summary", s.orderHandler.Analytics, middleware.RequireAdmin())

	// -------- users (admin console) --------
	users := api.Group("/users", middleware.Auth(s.tokens), middleware.RequireAdmin())
	users.GET("", s.userHandler.List)
	users.PUT("/:id/vip", s.userHandler.PromoteVIP)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
