package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"partsmarket/internal/entity"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *entity.Order) error
	CreateOrderItems(tx *gorm.DB, items []*entity.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*entity.Order, error)
	ListForUser(ctx context.Context, userID string) ([]*entity.Order, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	GetOrderItems(ctx context.Context, orderIDs []string) ([]*entity.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*entity.Order, error)
	Summary(ctx context.Context) (*OrderSummary, error)
}

// OrderSummary is the raw analytics aggregate.
type OrderSummary struct {
	TotalSales  decimal.Decimal
	OrdersCount int
	ByStatus    map[string]int
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(tx *gorm.DB, order *entity.Order) error {
	return tx.Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(tx *gorm.DB, items []*entity.OrderItem) error {
	return tx.Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListForUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*entity.Order, error) {
	var orders []*entity.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderIDs []string) ([]*entity.OrderItem, error) {
	var items []*entity.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateStatus sets any accepted status with no transition ordering;
// admins may move an order backwards.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID, status string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Order{}).
			Where("id = ?", orderID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", orderID).First(&order).Error
	})

	return &order, err
}

func (r *orderRepoImpl) Summary(ctx context.Context) (*OrderSummary, error) {
	var rows []struct {
		Status string
		Count  int
		Total  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("status, COUNT(*) AS count, SUM(total_price) AS total").
		Group("status").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	summary := &OrderSummary{
		TotalSales: decimal.Zero,
		ByStatus:   make(map[string]int),
	}
	for _, row := range rows {
		summary.OrdersCount += row.Count
		summary.TotalSales = summary.TotalSales.Add(row.Total)
		summary.ByStatus[row.Status] = row.Count
	}
	return summary, nil
}
