package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"partsmarket/internal/auth"
	"partsmarket/internal/client"
	"partsmarket/internal/config"
	"partsmarket/internal/entity"
	"partsmarket/internal/model"
	"partsmarket/internal/repository"
	"partsmarket/internal/server"
	"partsmarket/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabaseURL)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	if err := seed(db, userRepo, productRepo); err != nil {
		log.Fatal("seed:", err)
	}

	authService := service.NewAuthService(userRepo, tokens)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(db, orderRepo, cartRepo, productRepo)
	userService := service.NewUserService(userRepo, cfg.VIPCode)

	srv := server.NewServer(tokens, authService, catalogService, cartService, orderService, userService)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// seed installs the demo admin account and a starter catalog on first
// run; existing rows are left alone.
func seed(db *gorm.DB, userRepo repository.UserRepository, productRepo repository.ProductRepository) error {
	ctx := context.Background()

	if _, err := userRepo.FindByEmail(ctx, "admin@partsmarket.local"); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		err = userRepo.Create(ctx, &entity.User{
			ID:           uuid.NewString(),
			Name:         "Admin",
			Email:        "admin@partsmarket.local",
			PasswordHash: string(hash),
			UserType:     string(model.TierAdmin),
		})
		if err != nil {
			return err
		}
	}

	products := []entity.Product{
		{
			ID: "scr-ip13-oled", Name: "iPhone 13 OLED Screen", Category: "screens",
			Description: "Original quality OLED replacement panel", StockQuantity: 12,
			AdminPrice: dec("180"), VIPCustomerPrice: dec("230"), CustomerPrice: dec("280"),
		},
		{
			ID: "bat-sgs21", Name: "Galaxy S21 Battery", Category: "batteries",
			Description: "4000mAh replacement cell", StockQuantity: 30,
			AdminPrice: dec("25"), VIPCustomerPrice: dec("38"), CustomerPrice: dec("49"),
		},
		{
			ID: "cam-ip12-rear", Name: "iPhone 12 Rear Camera", Category: "cameras",
			Description: "Dual 12MP module", StockQuantity: 8,
			AdminPrice: dec("60"), VIPCustomerPrice: dec("85"), CustomerPrice: dec("110"),
		},
		{
			ID: "chg-usbc-board", Name: "USB-C Charging Board", Category: "connectors",
			Description: "Universal charging port daughterboard", StockQuantity: 50,
			AdminPrice: dec("8"), VIPCustomerPrice: dec("12.50"), CustomerPrice: dec("16"),
		},
	}
	return productRepo.Seed(ctx, products)
}
