package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"partsmarket/internal/entity"
)

type CartRepository interface {
	ItemsForUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	AddItem(ctx context.Context, item *entity.CartItem) error
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error
	ClearForUser(tx *gorm.DB, userID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) ItemsForUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	var items []*entity.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

// AddItem upserts: adding a product already in the cart bumps its
// quantity instead of creating a second line.
func (r *cartRepoImpl) AddItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&entity.CartItem{}).Error
}

func (r *cartRepoImpl) ClearForUser(tx *gorm.DB, userID string) error {
	return tx.
		Where("user_id = ?", userID).
		Delete(&entity.CartItem{}).Error
}
