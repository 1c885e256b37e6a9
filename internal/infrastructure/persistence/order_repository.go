package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/shoestock/backend/internal/domain/trade"
	"github.com/shoestock/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save creates an order together with its items in one transaction
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	var model models.OrderModel
	model.FromDomain(order)
	return session(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
}

// ExistsByFingerprint reports whether a row with this fingerprint was
// already ingested
func (r *GormOrderRepository) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var count int64
	err := session(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("fingerprint = ?", fingerprint).
		Count(&count).Error
	return count > 0, err
}

// Count returns the number of stored orders
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := session(ctx, r.db).Model(&models.OrderModel{}).Count(&count).Error
	return count, err
}
