package client

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"partsmarket/internal/entity"
)

func InitSqliteClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.CartItem{},
		&entity.Order{},
		&entity.OrderItem{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
